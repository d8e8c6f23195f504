package ttree

import "testing"

func TestEdges_IncSortsAndMerges(t *testing.T) {
	var e Edges
	e = e.Inc(5, 1)
	e = e.Inc(2, 3)
	e = e.Inc(5, 4)

	if len(e) != 2 {
		t.Fatalf("expected 2 entries after merge, got %d: %v", len(e), e)
	}
	if e[0].ID != 2 || e[0].Count != 3 {
		t.Fatalf("expected first entry {2,3}, got %v", e[0])
	}
	if e[1].ID != 5 || e[1].Count != 5 {
		t.Fatalf("expected merged entry {5,5}, got %v", e[1])
	}
}

func TestEdges_DecRemovesAtZero(t *testing.T) {
	var e Edges
	e = e.Inc(1, 10)

	e, remaining := e.Dec(1, 4)
	if remaining != 6 || e.Count(1) != 6 {
		t.Fatalf("expected 6 remaining, got %d", remaining)
	}

	e, remaining = e.Dec(1, 100)
	if remaining != 0 {
		t.Fatalf("expected 0 remaining after over-decrement, got %d", remaining)
	}
	if e.Find(1) != nil {
		t.Fatal("expected entry to be removed once drained")
	}
}

func TestEdgeSet_IncDecKeepsSetInSync(t *testing.T) {
	var s EdgeSet
	s.Inc(3, 2)
	if !s.Set.Has(3) {
		t.Fatal("expected bit mirror to reflect Inc")
	}

	s.Dec(3, 2)
	if s.Set.Has(3) {
		t.Fatal("expected bit mirror to clear once edge fully drained")
	}
	if len(s.Edges) != 0 {
		t.Fatalf("expected edges to be empty, got %v", s.Edges)
	}
}

func TestEdges_SetMatchesBits(t *testing.T) {
	var e Edges
	e = e.Inc(9, 1)
	e = e.Inc(200, 1)

	set := e.Set()
	if !set.Has(9) || !set.Has(200) || set.Has(10) {
		t.Fatalf("unexpected set %v for edges %v", set, e)
	}
}
