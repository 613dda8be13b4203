package console

import "math"

// DrawLine rasterizes the segment between (x1, y1) and (x2, y2) inclusive
// The loop steps along the dominant axis and rounds the other coordinate half away from zero
// Swapping the endpoints covers the same cells
func (f *Framebuffer) DrawLine(x1, y1, x2, y2 int, p Pixel) {
	dx, dy := x2-x1, y2-y1
	if dx == 0 && dy == 0 {
		f.Draw(x1, y1, p)
		return
	}

	if abs(dx) > abs(dy) {
		if x1 > x2 {
			x1, y1, x2, y2 = x2, y2, x1, y1
		}
		slope := float64(y2-y1) / float64(x2-x1)
		for x := max(x1, 0); x <= min(x2, f.width-1); x++ {
			y := float64(y1) + slope*float64(x-x1)
			f.Draw(x, int(math.Round(y)), p)
		}
		return
	}

	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	slope := float64(x2-x1) / float64(y2-y1)
	for y := max(y1, 0); y <= min(y2, f.height-1); y++ {
		x := float64(x1) + slope*float64(y-y1)
		f.Draw(int(math.Round(x)), y, p)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
