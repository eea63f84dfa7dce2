package model

import "testing"

func TestComputeStats(t *testing.T) {
	r := &Report{Angles: []AngleData{
		{
			Angle:     "recent performance",
			KeyFacts:  []string{"a", "b"},
			Claims:    []string{"c"},
			Citations: []string{"https://example.com/1", "https://example.com/2"},
		},
		EmptyAngleData("guidance"),
	}}

	r.ComputeStats()

	if r.Stats.AngleCount != 2 {
		t.Errorf("AngleCount = %d, want 2", r.Stats.AngleCount)
	}
	if r.Stats.FactCount != 2 || r.Stats.ClaimCount != 1 || r.Stats.CitationCount != 2 {
		t.Errorf("counts = %+v", r.Stats)
	}
	if r.Stats.EmptyAngles != 1 {
		t.Errorf("EmptyAngles = %d, want 1", r.Stats.EmptyAngles)
	}
}

func TestAllCitations_DedupesInOrder(t *testing.T) {
	r := &Report{Angles: []AngleData{
		{Citations: []string{"https://a.com", "https://b.com", ""}},
		{Citations: []string{"https://b.com", "https://c.com"}},
	}}

	got := r.AllCitations()
	want := []string{"https://a.com", "https://b.com", "https://c.com"}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("citation %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
