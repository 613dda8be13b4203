// Package console draws pseudo-graphics into a fixed-size character grid.
//
// A frame is poll, draw, blit:
//
//	for !con.ShouldClose() {
//		con.PollInputs()
//		con.Clear(console.Pixel{})
//		con.DrawLine(0, 0, 20, 10, console.Solid(console.Green))
//		if err := con.Blit(); err != nil {
//			break
//		}
//	}
//
// Cells are packed 16-color pairs shared with the terminal package, so a blit
// hands the framebuffer to the display without conversion.
package console
