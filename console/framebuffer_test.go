package console

import (
	"errors"
	"testing"
)

func newTestBuffer(t *testing.T, w, h int) *Framebuffer {
	t.Helper()
	fb, err := NewFramebuffer(w, h)
	if err != nil {
		t.Fatalf("NewFramebuffer(%d, %d) failed: %v", w, h, err)
	}
	return fb
}

func TestNewFramebufferInvalidSize(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		if _, err := NewFramebuffer(dims[0], dims[1]); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Expected ErrInvalidSize for %v, got %v", dims, err)
		}
	}
}

func TestDrawReadBack(t *testing.T) {
	fb := newTestBuffer(t, 8, 4)
	p := Shade(Yellow, DarkBlue, GlyphHalf)
	fb.Draw(7, 3, p)

	got, ok := fb.At(7, 3)
	if !ok || got != p {
		t.Errorf("Expected %+v at (7,3), got %+v ok=%v", p, got, ok)
	}
	if fb.Cells()[3*8+7] != p {
		t.Error("Expected row-major placement")
	}
}

func TestDrawOutOfBoundsIsNoop(t *testing.T) {
	fb := newTestBuffer(t, 4, 3)
	before := append([]Pixel(nil), fb.Cells()...)

	for _, pt := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {100, 100}} {
		fb.Draw(pt[0], pt[1], Solid(Red))
		if _, ok := fb.At(pt[0], pt[1]); ok {
			t.Errorf("Expected At(%d,%d) out of range", pt[0], pt[1])
		}
	}
	for i, c := range fb.Cells() {
		if c != before[i] {
			t.Fatalf("Cell %d changed by out-of-range draw", i)
		}
	}
}

func TestClearThenDraw(t *testing.T) {
	const w, h = 5, 4
	fb := newTestBuffer(t, w, h)
	fb.Clear(Shade(Grey, Black, GlyphQuarter))

	want := make([]Pixel, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := Char(Color(x), Color(y), rune('a'+y*w+x))
			fb.Draw(x, y, p)
			want[y*w+x] = p
		}
	}
	// Second pass over the diagonal, last write wins
	for i := 0; i < min(w, h); i++ {
		p := Solid(White)
		fb.Draw(i, i, p)
		want[i*w+i] = p
	}

	cells := fb.Cells()
	if len(cells) != len(want) {
		t.Fatalf("Expected %d cells, got %d", len(want), len(cells))
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("Cell %d: expected %+v, got %+v", i, want[i], cells[i])
		}
	}
}

func TestDrawStringNewlineAndClipping(t *testing.T) {
	fb := newTestBuffer(t, 6, 3)
	fb.DrawString(3, 0, White, Black, "abcd\nxy\n\nz")

	tests := []struct {
		x, y int
		r    rune
	}{
		{3, 0, 'a'}, {4, 0, 'b'}, {5, 0, 'c'},
		{3, 1, 'x'}, {4, 1, 'y'},
	}
	for _, tt := range tests {
		got, _ := fb.At(tt.x, tt.y)
		if got.Rune != tt.r || got.Attr != Pack(White, Black) {
			t.Errorf("At(%d,%d): expected %q, got %q attr %#x", tt.x, tt.y, tt.r, got.Rune, got.Attr)
		}
	}
	// 'd' overflows the row, 'z' lands below the last row
	if got, _ := fb.At(0, 1); got.Rune != 0 {
		t.Errorf("Expected no wrap, got %q", got.Rune)
	}
	if got, _ := fb.At(3, 2); got.Rune != 0 {
		t.Errorf("Expected blank row, got %q", got.Rune)
	}
}

func TestFillClips(t *testing.T) {
	fb := newTestBuffer(t, 4, 4)
	p := Solid(Green)
	fb.Fill(-1, 2, 3, 10, p)

	count := 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got, _ := fb.At(x, y)
			inside := x < 2 && y >= 2
			if (got == p) != inside {
				t.Errorf("At(%d,%d): inside=%v got %+v", x, y, inside, got)
			}
			if got == p {
				count++
			}
		}
	}
	if count != 4 {
		t.Errorf("Expected 4 filled cells, got %d", count)
	}

	fb.Fill(10, 10, 2, 2, Solid(Red))
	fb.Fill(0, 0, 0, 3, Solid(Red))
}
