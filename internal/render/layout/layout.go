package layout

import "image"

// Inset shrinks rect by dx on the left and right and dy on the top and
// bottom. A rect narrower than the padding collapses to its centre line.
func Inset(rect image.Rectangle, dx, dy int) image.Rectangle {
	rect = Normalize(rect)
	dx, dy = max(dx, 0), max(dy, 0)
	dx = min(dx, rect.Dx()/2)
	dy = min(dy, rect.Dy()/2)
	return image.Rect(rect.Min.X+dx, rect.Min.Y+dy, rect.Max.X-dx, rect.Max.Y-dy)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// SplitVertical splits rect into left and right parts.
// leftWidthPx is clamped to [0, rect.Dx()].
func SplitVertical(rect image.Rectangle, leftWidthPx int) (left image.Rectangle, right image.Rectangle) {
	rect = Normalize(rect)
	width := rect.Dx()
	if leftWidthPx < 0 {
		leftWidthPx = 0
	}
	if leftWidthPx > width {
		leftWidthPx = width
	}
	left = image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+leftWidthPx, rect.Max.Y)
	right = image.Rect(rect.Min.X+leftWidthPx, rect.Min.Y, rect.Max.X, rect.Max.Y)
	return left, right
}

// SplitHorizontal splits rect into top and bottom parts.
// topHeightPx is clamped to [0, rect.Dy()].
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	height := rect.Dy()
	if topHeightPx < 0 {
		topHeightPx = 0
	}
	if topHeightPx > height {
		topHeightPx = height
	}
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeightPx)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeightPx, rect.Max.X, rect.Max.Y)
	return top, bottom
}

// Rows splits rect into n stacked rows of rowHeightPx each, starting at the
// top. Rows that would overflow rect are clipped to it.
func Rows(rect image.Rectangle, n, rowHeightPx int) []image.Rectangle {
	rect = Normalize(rect)
	if n <= 0 || rowHeightPx <= 0 {
		return nil
	}
	out := make([]image.Rectangle, 0, n)
	rest := rect
	for i := 0; i < n; i++ {
		var row image.Rectangle
		row, rest = SplitHorizontal(rest, rowHeightPx)
		out = append(out, row)
	}
	return out
}
