package layout

// CascadePolicy carries the tolerance band and minimum width inherited from
// the shell prototype. The band is asymmetric on purpose: a small overlap
// counts as adjacent, a larger trailing gap does too.
type CascadePolicy struct {
	ToleranceMin int
	ToleranceMax int
	MinWidth     int
	Gap          int
}

// Neighbor is a candidate window for the cascade, identified by its
// compositor address.
type Neighbor struct {
	Address string
	Rect    Rect
}

// Adjustment is one resize (and optional reposition) the cascade wants
// applied to a neighbor.
type Adjustment struct {
	Address string
	Width   int
	Height  int
	X       int
	Y       int
	Move    bool
}

// Cascade computes the single-hop adjustments around a manually resized
// window: at most one right-adjacent and one left-adjacent neighbor. It
// never propagates further.
func Cascade(resized Rect, neighbors []Neighbor, policy CascadePolicy) []Adjustment {
	var adjustments []Adjustment

	if right, ok := findAdjacent(resized, neighbors, edgeRight, policy); ok {
		// Keep the neighbor's right edge fixed, pull its left edge flush
		// against the resized window plus one gap.
		newWidth := right.Rect.Right() - resized.Right() - policy.Gap
		if newWidth > policy.MinWidth {
			adjustments = append(adjustments, Adjustment{
				Address: right.Address,
				Width:   newWidth,
				Height:  right.Rect.Height,
				X:       resized.Right() + policy.Gap,
				Y:       right.Rect.Y,
				Move:    true,
			})
		}
	}

	if left, ok := findAdjacent(resized, neighbors, edgeLeft, policy); ok {
		// The neighbor's own left edge is unaffected: width change only.
		newWidth := resized.X - left.Rect.X - policy.Gap
		if newWidth > policy.MinWidth {
			adjustments = append(adjustments, Adjustment{
				Address: left.Address,
				Width:   newWidth,
				Height:  left.Rect.Height,
			})
		}
	}

	return adjustments
}

type edge int

const (
	edgeRight edge = iota
	edgeLeft
)

func findAdjacent(resized Rect, neighbors []Neighbor, side edge, policy CascadePolicy) (Neighbor, bool) {
	var best Neighbor
	found := false
	minGap := int(^uint(0) >> 1)

	for _, candidate := range neighbors {
		var gap int
		switch side {
		case edgeRight:
			gap = candidate.Rect.X - resized.Right()
		case edgeLeft:
			gap = resized.X - candidate.Rect.Right()
		}

		if gap < policy.ToleranceMin || gap > policy.ToleranceMax {
			continue
		}

		if !verticallyOverlaps(resized, candidate.Rect) {
			continue
		}

		if gap < minGap {
			minGap = gap
			best = candidate
			found = true
		}
	}

	return best, found
}

func verticallyOverlaps(a, b Rect) bool {
	return b.Y < a.Bottom() && b.Bottom() > a.Y
}
