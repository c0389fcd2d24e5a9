package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsableDerivation(t *testing.T) {
	// 1920x1080 output, gap 10, top gap 20:
	// x=10, y=10+20=30, width=1920-20=1900, height=1080-20-20=1040
	usable := Usable(1920, 1080, 10, 20)

	assert.Equal(t, Rect{X: 10, Y: 30, Width: 1900, Height: 1040}, usable)
}

func TestComputeZeroWindowsIsNoop(t *testing.T) {
	assert.Nil(t, Compute(0, Rect{Width: 1000, Height: 800}, 10))
	assert.Nil(t, Compute(-1, Rect{Width: 1000, Height: 800}, 10))
}

func TestComputeSingleWindowFillsUsable(t *testing.T) {
	usable := Rect{X: 10, Y: 30, Width: 1000, Height: 800}

	rects := Compute(1, usable, 10)

	require.Len(t, rects, 1)
	assert.Equal(t, usable, rects[0])
}

func TestComputeTwoWindowsVerticalSplit(t *testing.T) {
	usable := Rect{X: 10, Y: 30, Width: 1000, Height: 800}

	rects := Compute(2, usable, 10)

	require.Len(t, rects, 2)
	// halfWidth = (1000-10)/2 = 495
	assert.Equal(t, Rect{X: 10, Y: 30, Width: 495, Height: 800}, rects[0])
	assert.Equal(t, Rect{X: 515, Y: 30, Width: 495, Height: 800}, rects[1])
}

func TestComputeThreeWindowsLeftColumnPlusSplit(t *testing.T) {
	usable := Rect{X: 10, Y: 30, Width: 1000, Height: 800}

	rects := Compute(3, usable, 10)

	require.Len(t, rects, 3)
	// halfWidth = 495, halfHeight = (800-10)/2 = 395
	assert.Equal(t, Rect{X: 10, Y: 30, Width: 495, Height: 800}, rects[0])
	assert.Equal(t, Rect{X: 515, Y: 30, Width: 495, Height: 395}, rects[1])
	assert.Equal(t, Rect{X: 515, Y: 435, Width: 495, Height: 395}, rects[2])
}

func TestComputeFourWindowsQuartered(t *testing.T) {
	usable := Rect{X: 10, Y: 30, Width: 1000, Height: 800}

	rects := Compute(4, usable, 10)

	require.Len(t, rects, 4)
	assert.Equal(t, Rect{X: 10, Y: 30, Width: 495, Height: 395}, rects[0])
	assert.Equal(t, Rect{X: 515, Y: 30, Width: 495, Height: 395}, rects[1])
	assert.Equal(t, Rect{X: 10, Y: 435, Width: 495, Height: 395}, rects[2])
	assert.Equal(t, Rect{X: 515, Y: 435, Width: 495, Height: 395}, rects[3])
}

func TestComputeManyWindowsThreeColumnGrid(t *testing.T) {
	usable := Rect{X: 10, Y: 30, Width: 1000, Height: 800}

	rects := Compute(5, usable, 10)

	require.Len(t, rects, 5)
	// cols=3, rows=2: cellWidth = (1000-20)/3 = 326, cellHeight = (800-10)/2 = 395
	assert.Equal(t, Rect{X: 10, Y: 30, Width: 326, Height: 395}, rects[0])
	assert.Equal(t, Rect{X: 346, Y: 30, Width: 326, Height: 395}, rects[1])
	assert.Equal(t, Rect{X: 682, Y: 30, Width: 326, Height: 395}, rects[2])
	assert.Equal(t, Rect{X: 10, Y: 435, Width: 326, Height: 395}, rects[3])
	assert.Equal(t, Rect{X: 346, Y: 435, Width: 326, Height: 395}, rects[4])
}

func TestComputeContainmentAndNonOverlap(t *testing.T) {
	usable := Rect{X: 10, Y: 30, Width: 1000, Height: 800}

	for n := 0; n <= 6; n++ {
		rects := Compute(n, usable, 10)
		require.Len(t, rects, max(n, 0))

		for i, r := range rects {
			assert.GreaterOrEqual(t, r.X, usable.X, "n=%d rect %d runs off the left", n, i)
			assert.GreaterOrEqual(t, r.Y, usable.Y, "n=%d rect %d runs off the top", n, i)
			assert.LessOrEqual(t, r.Right(), usable.Right(), "n=%d rect %d runs off the right", n, i)
			assert.LessOrEqual(t, r.Bottom(), usable.Bottom(), "n=%d rect %d runs off the bottom", n, i)
			assert.Positive(t, r.Width, "n=%d rect %d has no width", n, i)
			assert.Positive(t, r.Height, "n=%d rect %d has no height", n, i)

			for j := i + 1; j < len(rects); j++ {
				assert.False(t, overlaps(r, rects[j]), "n=%d rects %d and %d overlap: %+v %+v", n, i, j, r, rects[j])
			}
		}
	}
}

func overlaps(a, b Rect) bool {
	return a.X < b.Right() && a.Right() > b.X && a.Y < b.Bottom() && a.Bottom() > b.Y
}
