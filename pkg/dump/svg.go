package dump

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/rattab/legiontech/pkg/ttree"
)

// SVGOptions configures DumpTreeSVG's layout: canvas size, node radius,
// margin, and whether to draw name labels.
type SVGOptions struct {
	Width, Height int
	NodeRadius    int
	Margin        int
	ShowLabels    bool
}

// DefaultSVGOptions returns sensible defaults sized for a full 16-layer
// tree.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      1600,
		Height:     1600,
		NodeRadius: 14,
		Margin:     60,
		ShowLabels: true,
	}
}

type svgPoint struct{ x, y float64 }

// DumpTreeSVG renders the same dependency graph tech.dot describes as a
// standalone SVG, for quick visual review without a Graphviz install.
// Nodes are laid out in one horizontal band per layer, evenly spread left
// to right within the band; every child edge is drawn as a straight line
// to its parent.
func DumpTreeSVG(tree *ttree.Tree, opts SVGOptions) []byte {
	nodes := tree.All()
	positions := svgLayout(nodes, opts)

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#111318")

	for _, node := range nodes {
		from := positions[node.ID]
		for _, child := range node.Children.Edges {
			to, ok := positions[child.ID]
			if !ok {
				continue
			}
			canvas.Line(int(from.x), int(from.y), int(to.x), int(to.y),
				"stroke:#4b5263; stroke-width:1")
		}
	}

	for _, node := range nodes {
		p := positions[node.ID]
		canvas.Circle(int(p.x), int(p.y), opts.NodeRadius,
			fmt.Sprintf("fill:%s", svgNodeColor(node.Type)))
		if opts.ShowLabels {
			canvas.Text(int(p.x), int(p.y)+opts.NodeRadius+12, node.Name,
				"fill:#dcdfe4; font-size:10px; text-anchor:middle")
		}
	}

	canvas.End()
	return buf.Bytes()
}

func svgLayout(nodes []*ttree.Node, opts SVGOptions) map[ttree.NodeID]svgPoint {
	positions := make(map[ttree.NodeID]svgPoint, len(nodes))

	perLayer := make(map[uint8]int)
	for _, n := range nodes {
		perLayer[n.ID.Layer()]++
	}

	seen := make(map[uint8]int)
	usableW := float64(opts.Width - 2*opts.Margin)
	usableH := float64(opts.Height - 2*opts.Margin)

	for _, n := range nodes {
		layer := n.ID.Layer()
		count := perLayer[layer]
		idx := seen[layer]
		seen[layer]++

		x := usableW/2 + float64(opts.Margin)
		if count > 1 {
			x = float64(opts.Margin) + usableW*float64(idx)/float64(count-1)
		}
		y := float64(opts.Margin) + usableH*float64(layer)/float64(ttree.LayerCap-1)

		positions[n.ID] = svgPoint{x, y}
	}

	return positions
}

func svgNodeColor(t ttree.NodeType) string {
	switch t {
	case ttree.TypeNatural:
		return "#3b82f6"
	case ttree.TypeSynthetic:
		return "#a855f7"
	case ttree.TypeActive:
		return "#ef4444"
	case ttree.TypeLogistics:
		return "#f97316"
	case ttree.TypePassive:
		return "#22c55e"
	default:
		return "#6b7280"
	}
}
