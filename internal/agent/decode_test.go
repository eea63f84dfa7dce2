package agent

import "testing"

type planShape struct {
	IsTicker bool     `json:"is_ticker"`
	Topic    string   `json:"topic"`
	Angles   []string `json:"angles"`
}

func TestDecodeJSON_Bare(t *testing.T) {
	var p planShape
	err := decodeJSON(`{"is_ticker": true, "topic": "Tesla", "angles": ["a", "b"]}`, &p)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !p.IsTicker || p.Topic != "Tesla" || len(p.Angles) != 2 {
		t.Errorf("unexpected decode result: %+v", p)
	}
}

func TestDecodeJSON_CodeFence(t *testing.T) {
	text := "```json\n{\"topic\": \"Tesla\"}\n```"
	var p planShape
	if err := decodeJSON(text, &p); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.Topic != "Tesla" {
		t.Errorf("expected topic Tesla, got %q", p.Topic)
	}
}

func TestDecodeJSON_SurroundingProse(t *testing.T) {
	text := "Here is the plan you asked for:\n{\"topic\": \"Tesla\"}\nLet me know if you need more."
	var p planShape
	if err := decodeJSON(text, &p); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.Topic != "Tesla" {
		t.Errorf("expected topic Tesla, got %q", p.Topic)
	}
}

func TestDecodeJSON_NoObject(t *testing.T) {
	var p planShape
	if err := decodeJSON("I could not produce a plan.", &p); err == nil {
		t.Error("expected error for response without JSON")
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	var p planShape
	if err := decodeJSON(`{"topic": }`, &p); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
