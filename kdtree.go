package lospec

import (
	"math"
	"sort"
)

// ColorNode represents a node in a KD-tree of palette colors. Each node
// holds a color, its position in the palette, its children and the axis
// along which its subtree is split.
type ColorNode struct {
	Color       Color
	Index       int
	Left, Right *ColorNode
	SplitAxis   int
}

// Index answers Closest queries over a palette through a KD-tree. It
// returns exactly what Palette.Closest returns, including the choice of
// the earliest color on ties, and is meant for bulk lookups such as
// remapping every pixel of an image. An Index is immutable and safe for
// concurrent use.
type Index struct {
	palette Palette
	root    *ColorNode
}

// NewIndex builds a KD-tree over the colors of p.
func NewIndex(p Palette) *Index {
	nodes := make([]ColorNode, p.Len())
	for i, c := range p.Indexed() {
		nodes[i] = ColorNode{Color: c, Index: i}
	}
	return &Index{palette: p, root: buildKDTree(nodes)}
}

// Palette returns the palette the index was built from.
func (x *Index) Palette() Palette {
	return x.palette
}

// Closest returns the index and value of the palette color nearest to
// query by Distance. Ties go to the earliest color.
func (x *Index) Closest(query Color) (int, Color) {
	best, _ := x.root.nearestNeighbor(query, nil, math.MaxUint32)
	return best.Index, best.Color
}

// buildKDTree constructs a KD-tree from the given nodes, reusing their
// storage, and returns the root.
func buildKDTree(nodes []ColorNode) *ColorNode {
	if len(nodes) == 0 {
		return nil
	}

	// Choose splitting axis based on the dimension with the largest variance
	axis := chooseSplitAxis(nodes)

	sort.Slice(nodes, func(i, j int) bool {
		ci := getColorComponent(nodes[i].Color, axis)
		cj := getColorComponent(nodes[j].Color, axis)
		if ci != cj {
			return ci < cj
		}
		return nodes[i].Index < nodes[j].Index
	})

	median := len(nodes) / 2
	node := &nodes[median]
	node.SplitAxis = axis
	node.Left = buildKDTree(nodes[:median])
	node.Right = buildKDTree(nodes[median+1:])
	return node
}

// chooseSplitAxis returns the channel (0 red, 1 green, 2 blue) with the
// largest variance across nodes.
func chooseSplitAxis(nodes []ColorNode) int {
	var varR, varG, varB float64
	var meanR, meanG, meanB float64

	for _, n := range nodes {
		meanR += n.Color.R
		meanG += n.Color.G
		meanB += n.Color.B
	}
	meanR /= float64(len(nodes))
	meanG /= float64(len(nodes))
	meanB /= float64(len(nodes))

	for _, n := range nodes {
		varR += math.Pow(n.Color.R-meanR, 2)
		varG += math.Pow(n.Color.G-meanG, 2)
		varB += math.Pow(n.Color.B-meanB, 2)
	}

	if varR >= varG && varR >= varB {
		return 0
	} else if varG >= varB {
		return 1
	}
	return 2
}

func getColorComponent(c Color, axis int) float64 {
	switch axis {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

// nearestNeighbor searches the subtree for a color closer to target than
// best, preferring lower palette indices on equal distance.
//
// Every color on the far side of a split differs from target on the split
// axis by at least the node's own difference, and Distance is at least
// the scaled difference on any one axis. The far side is skipped only when
// that bound is strictly greater than the best distance, so ties are
// still visited.
func (node *ColorNode) nearestNeighbor(
	target Color, best *ColorNode, bestDist uint32) (*ColorNode, uint32) {
	if node == nil {
		return best, bestDist
	}

	dist := Distance(node.Color, target)
	if best == nil || dist < bestDist || (dist == bestDist && node.Index < best.Index) {
		best, bestDist = node, dist
	}

	diff := getColorComponent(target, node.SplitAxis) -
		getColorComponent(node.Color, node.SplitAxis)
	next, other := node.Left, node.Right
	if diff >= 0 {
		next, other = node.Right, node.Left
	}

	best, bestDist = next.nearestNeighbor(target, best, bestDist)
	if uint32(math.Abs(diff)*256) <= bestDist {
		best, bestDist = other.nearestNeighbor(target, best, bestDist)
	}
	return best, bestDist
}
