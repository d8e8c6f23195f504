package dump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rattab/legiontech/pkg/ttree"
	"github.com/rattab/legiontech/pkg/writer"
)

func buildSample() *ttree.Tree {
	tree := ttree.New()

	sys, _ := tree.Insert(0, "sys-root")
	sys.Type = ttree.TypeSys

	iron, _ := tree.Insert(1, "elem-iron")
	iron.Type = ttree.TypeNatural
	iron.Syllable = "fer"
	iron.Work.Node = 2
	iron.Energy.Node = 2
	iron.Lab.Bits, iron.Lab.Work, iron.Lab.Energy = 3, 4, 5
	iron.Host.ID = sys.ID
	iron.Out = ttree.Edges{{ID: iron.ID, Count: 1}}

	gear, _ := tree.Insert(2, "widget-gear")
	gear.Type = ttree.TypeLogistics
	gear.Host.ID = iron.ID
	gear.Children.Inc(iron.ID, 4)
	gear.Needs.Inc(iron.ID, 4)
	gear.Work.Node, gear.Work.Min, gear.Work.Total = 3, 1, 9
	gear.Energy.Total = 6
	gear.Specs = "(alloy 2)"
	gear.Out = ttree.Edges{{ID: gear.ID, Count: 1}}

	return tree
}

func countRune(s string, r rune) int {
	n := 0
	for _, c := range s {
		if c == r {
			n++
		}
	}
	return n
}

func TestDumpLisp_SysNodeOnlyEmitsInfo(t *testing.T) {
	tree := buildSample()
	var buf bytes.Buffer
	w := writer.New(&buf)

	if err := DumpLisp(w, tree); err != nil {
		t.Fatalf("DumpLisp: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "(sys-root") {
		t.Fatalf("expected sys-root node in output, got %q", out)
	}
	sysSection := out[strings.Index(out, "(sys-root"):]
	sysSection = sysSection[:strings.Index(sysSection, "elem-iron")]
	if strings.Contains(sysSection, "specs") || strings.Contains(sysSection, "tape") {
		t.Fatalf("expected sys node to skip specs/tape sections, got %q", sysSection)
	}
}

func TestDumpLisp_ProducesBalancedParens(t *testing.T) {
	tree := buildSample()
	var buf bytes.Buffer
	w := writer.New(&buf)

	if err := DumpLisp(w, tree); err != nil {
		t.Fatalf("DumpLisp: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	out := buf.String()
	if open, close_ := countRune(out, '('), countRune(out, ')'); open != close_ {
		t.Fatalf("unbalanced parens: %d open vs %d close", open, close_)
	}
	if !strings.Contains(out, "item-elem-iron") {
		t.Fatalf("expected a tape entry referencing item-elem-iron, got %q", out)
	}
	if !strings.Contains(out, "(alloy 2)") {
		t.Fatalf("expected the raw specs blob to be embedded verbatim, got %q", out)
	}
}

func TestDumpTape_SingleChildIsPlacedAtFront(t *testing.T) {
	tree := ttree.New()
	iron, _ := tree.Insert(1, "elem-iron")
	iron.Type = ttree.TypeNatural

	gear, _ := tree.Insert(2, "widget-gear")
	gear.Children.Inc(iron.ID, 7)

	var buf bytes.Buffer
	w := writer.New(&buf)
	dumpTape(w, tree, gear)
	w.Flush()

	out := buf.String()
	if !strings.Contains(out, "(item-elem-iron 7)") {
		t.Fatalf("expected the sole child to be dumped whole, got %q", out)
	}
}

// TestTapeFinalEdge_BackBucketMatchAnomaly pins down the inherited quirk:
// when the last remaining edge matches the item already sitting at the
// back bucket, the increment lands on tape[front] (a fresh, still-zero
// slot) rather than tape[back] where the matching entry actually lives.
// front is NOT advanced, so that slot is silently excluded from the final
// emission loop — this is the documented, deliberately-unfixed anomaly.
func TestTapeFinalEdge_BackBucketMatchAnomaly(t *testing.T) {
	var tape [tapeLen]ttree.Edge
	back := tapeLen - 1
	tape[back] = ttree.Edge{ID: 9, Count: 5}

	in := ttree.Edge{ID: 9, Count: 3}
	front := tapeFinalEdge(&tape, 0, back, in)

	if front != 0 {
		t.Fatalf("expected front to stay at 0 (the anomaly never advances it), got %d", front)
	}
	if tape[0].Count != 3 {
		t.Fatalf("expected the in-count to land on tape[front], got %+v", tape[0])
	}
	if tape[back].Count != 5 {
		t.Fatalf("expected the back bucket's own entry to be left untouched, got %+v", tape[back])
	}
}

func TestTapeFinalEdge_FrontBucketMatchMerges(t *testing.T) {
	var tape [tapeLen]ttree.Edge
	tape[0] = ttree.Edge{ID: 9, Count: 2}

	in := ttree.Edge{ID: 9, Count: 3}
	front := tapeFinalEdge(&tape, 1, tapeLen, in)

	if front != 1 {
		t.Fatalf("expected front to stay at 1 after merging into the existing entry, got %d", front)
	}
	if tape[0].Count != 5 {
		t.Fatalf("expected the front entry's count to grow by 3, got %+v", tape[0])
	}
}

func TestTapeFinalEdge_NoMatchPlacesFreshEntry(t *testing.T) {
	var tape [tapeLen]ttree.Edge

	in := ttree.Edge{ID: 9, Count: 4}
	front := tapeFinalEdge(&tape, 0, tapeLen, in)

	if front != 1 {
		t.Fatalf("expected front to advance to 1, got %d", front)
	}
	if tape[0] != in {
		t.Fatalf("expected the edge to be placed fresh at tape[0], got %+v", tape[0])
	}
}

func TestDumpDot_ColorsKnownTypesAndSkipsOthers(t *testing.T) {
	tree := buildSample()
	var buf bytes.Buffer

	if err := DumpDot(&buf, tree); err != nil {
		t.Fatalf("DumpDot: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "strict digraph {") {
		t.Fatalf("expected a strict digraph header, got %q", out)
	}
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), "}") {
		t.Fatalf("expected the digraph to close with '}', got %q", out)
	}
	if strings.Contains(out, "sys-root") {
		t.Fatalf("expected the sys node to be skipped entirely, got %q", out)
	}
	if !strings.Contains(out, "color=blue") || !strings.Contains(out, "elem-iron") {
		t.Fatalf("expected the natural node to render blue, got %q", out)
	}
	if !strings.Contains(out, "color=orange") || !strings.Contains(out, "widget-gear") {
		t.Fatalf("expected the logistics node to render orange, got %q", out)
	}
	if !strings.Contains(out, `"10" -> "20"`) {
		t.Fatalf("expected a child-to-parent edge from 10 to 20, got %q", out)
	}
}

func TestDumpTreeSVG_EmitsOneCirclePerNode(t *testing.T) {
	tree := buildSample()
	opts := DefaultSVGOptions()

	out := string(DumpTreeSVG(tree, opts))

	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatalf("expected well-formed svg markup, got %q", out)
	}
	if got := strings.Count(out, "<circle"); got != len(tree.All()) {
		t.Fatalf("expected one circle per node (%d), got %d", len(tree.All()), got)
	}
	if !strings.Contains(out, "elem-iron") {
		t.Fatalf("expected node labels to be drawn, got %q", out)
	}
}

func TestDumpTreeSVG_LabelsOmittedWhenDisabled(t *testing.T) {
	tree := buildSample()
	opts := DefaultSVGOptions()
	opts.ShowLabels = false

	out := string(DumpTreeSVG(tree, opts))
	if strings.Contains(out, "elem-iron") {
		t.Fatalf("expected no text labels when ShowLabels is false, got %q", out)
	}
}
