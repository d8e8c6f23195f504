package ttree

import (
	"errors"
	"testing"
)

func TestTree_InsertAndSymbol(t *testing.T) {
	tr := New()

	n, err := tr.Insert(1, "elem-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.ID.Layer() != 1 || n.ID.Index() != 0 {
		t.Fatalf("expected first slot of layer 1, got layer=%d index=%d", n.ID.Layer(), n.ID.Index())
	}

	got := tr.Symbol("elem-a")
	if got == nil || got.ID != n.ID {
		t.Fatal("expected symbol lookup to resolve to inserted node")
	}
}

func TestTree_InsertReservesNodeZero(t *testing.T) {
	tr := New()
	n, err := tr.Insert(0, "reserved-slot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.ID == 0 {
		t.Fatal("id 0 must never be allocated")
	}
}

func TestTree_InsertLayerFull(t *testing.T) {
	tr := New()
	for i := 0; i < IndexCap; i++ {
		if _, err := tr.Insert(2, symbolName(i)); err != nil {
			t.Fatalf("unexpected error on insert %d: %v", i, err)
		}
	}
	if _, err := tr.Insert(2, "overflow"); !errors.Is(err, ErrLayerFull) {
		t.Fatalf("expected ErrLayerFull, got %v", err)
	}
}

func TestTree_AppendAllocatesFromTop(t *testing.T) {
	tr := New()
	first, err := tr.Append(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID.Index() != IndexCap-1 {
		t.Fatalf("expected first Append to land on the top index, got %d", first.ID.Index())
	}

	second, err := tr.Append(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID.Index() != IndexCap-2 {
		t.Fatalf("expected second Append to land one below, got %d", second.ID.Index())
	}
}

func TestTree_AppendLayer15DoesNotOverflow(t *testing.T) {
	tr := New()
	n, err := tr.Append(15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.ID != NodeIDMax {
		t.Fatalf("expected first Append in layer 15 to be id 255, got %v", n.ID)
	}
}

func TestTree_SetSymbolRejectsCollision(t *testing.T) {
	tr := New()
	a, _ := tr.Insert(1, "a")
	b, _ := tr.Append(1)

	if tr.SetSymbol(b, "a") {
		t.Fatal("expected SetSymbol to fail on name collision with a different node")
	}
	if !tr.SetSymbol(a, "a") {
		t.Fatal("expected SetSymbol to succeed when re-registering the same node's own name")
	}
}

func symbolName(i int) string {
	return string(rune('a' + i))
}
