package layout

// Rect is an absolute pixel rectangle on the focused output.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r Rect) Right() int {
	return r.X + r.Width
}

func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Usable derives the tiling area from the full output: one gap on the left,
// right and bottom, the top gap plus one gap above.
func Usable(screenWidth, screenHeight, gap, topGap int) Rect {
	return Rect{
		X:      gap,
		Y:      gap + topGap,
		Width:  screenWidth - gap*2,
		Height: screenHeight - topGap - gap*2,
	}
}

// DefaultOpenRect is the near-fullscreen geometry a freshly opened window
// gets before the workspace is retiled around it.
func DefaultOpenRect(screenWidth, screenHeight, gap, topGap int) Rect {
	return Rect{
		X:      gap,
		Y:      gap + topGap,
		Width:  screenWidth - gap*2,
		Height: screenHeight - topGap - gap,
	}
}

// Compute lays out n windows inside the usable rectangle. The first four
// counts get bespoke splits, everything beyond that falls into a fixed
// three-column grid filled row-major in window order.
func Compute(n int, usable Rect, gap int) []Rect {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []Rect{usable}
	case n == 2:
		return computeTwo(usable, gap)
	case n == 3:
		return computeThree(usable, gap)
	case n == 4:
		return computeFour(usable, gap)
	default:
		return computeGrid(n, usable, gap)
	}
}

func computeTwo(usable Rect, gap int) []Rect {
	halfWidth := (usable.Width - gap) / 2

	return []Rect{
		{X: usable.X, Y: usable.Y, Width: halfWidth, Height: usable.Height},
		{X: usable.X + halfWidth + gap, Y: usable.Y, Width: halfWidth, Height: usable.Height},
	}
}

func computeThree(usable Rect, gap int) []Rect {
	halfWidth := (usable.Width - gap) / 2
	halfHeight := (usable.Height - gap) / 2
	rightX := usable.X + halfWidth + gap
	lowerY := usable.Y + halfHeight + gap

	return []Rect{
		{X: usable.X, Y: usable.Y, Width: halfWidth, Height: usable.Height},
		{X: rightX, Y: usable.Y, Width: halfWidth, Height: halfHeight},
		{X: rightX, Y: lowerY, Width: halfWidth, Height: halfHeight},
	}
}

func computeFour(usable Rect, gap int) []Rect {
	halfWidth := (usable.Width - gap) / 2
	halfHeight := (usable.Height - gap) / 2
	rightX := usable.X + halfWidth + gap
	lowerY := usable.Y + halfHeight + gap

	return []Rect{
		{X: usable.X, Y: usable.Y, Width: halfWidth, Height: halfHeight},
		{X: rightX, Y: usable.Y, Width: halfWidth, Height: halfHeight},
		{X: usable.X, Y: lowerY, Width: halfWidth, Height: halfHeight},
		{X: rightX, Y: lowerY, Width: halfWidth, Height: halfHeight},
	}
}

func computeGrid(n int, usable Rect, gap int) []Rect {
	const cols = 3
	rows := (n + cols - 1) / cols

	cellWidth := (usable.Width - gap*(cols-1)) / cols
	cellHeight := (usable.Height - gap*(rows-1)) / rows

	rects := make([]Rect, n)
	for i := 0; i < n; i++ {
		col := i % cols
		row := i / cols

		rects[i] = Rect{
			X:      usable.X + col*(cellWidth+gap),
			Y:      usable.Y + row*(cellHeight+gap),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}

	return rects
}
