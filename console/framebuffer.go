package console

import "fmt"

// Framebuffer is a row-major grid of pixels, index = y*width + x
type Framebuffer struct {
	cells  []Pixel
	width  int
	height int
}

// NewFramebuffer allocates a blank width x height buffer
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("framebuffer %dx%d: %w", width, height, ErrInvalidSize)
	}
	return &Framebuffer{
		cells:  make([]Pixel, width*height),
		width:  width,
		height: height,
	}, nil
}

// Width returns the column count
func (f *Framebuffer) Width() int { return f.width }

// Height returns the row count
func (f *Framebuffer) Height() int { return f.height }

// Cells exposes the backing slice
func (f *Framebuffer) Cells() []Pixel { return f.cells }

// Clear sets every cell to p
func (f *Framebuffer) Clear(p Pixel) {
	if len(f.cells) == 0 {
		return
	}
	// Exponential copy
	f.cells[0] = p
	for filled := 1; filled < len(f.cells); filled *= 2 {
		copy(f.cells[filled:], f.cells[:filled])
	}
}

func (f *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// Draw writes p at (x, y), out-of-range coordinates are ignored
func (f *Framebuffer) Draw(x, y int, p Pixel) {
	if !f.inBounds(x, y) {
		return
	}
	f.cells[y*f.width+x] = p
}

// At returns the pixel at (x, y), ok is false out of range
func (f *Framebuffer) At(x, y int) (Pixel, bool) {
	if !f.inBounds(x, y) {
		return Pixel{}, false
	}
	return f.cells[y*f.width+x], true
}

// DrawString writes text left to right from (x, y)
// A newline returns to column x on the next row; text past the edge is dropped
func (f *Framebuffer) DrawString(x, y int, fg, bg Color, text string) {
	attr := Pack(fg, bg)
	col, row := x, y
	for _, r := range text {
		if r == '\n' {
			col = x
			row++
			continue
		}
		f.Draw(col, row, Pixel{Rune: r, Attr: attr})
		col++
	}
}

// Fill sets the w x h rectangle at (x, y) to p, clipped to the buffer
func (f *Framebuffer) Fill(x, y, w, h int, p Pixel) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, f.width), min(y+h, f.height)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	for row := y0; row < y1; row++ {
		line := f.cells[row*f.width+x0 : row*f.width+x1]
		for i := range line {
			line[i] = p
		}
	}
}
