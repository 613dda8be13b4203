// Package terminal provides direct ANSI terminal control for fixed-size
// character grids of packed-attribute cells.
//
// Features:
//   - 16-color, 256-color and true color emission of the console palette
//   - Double-buffered output with cell-level diffing
//   - Raw stdin input parsing: legacy escape sequences, kitty keyboard
//     protocol press/release reports, SGR mouse including side buttons
//   - SIGWINCH resize detection
//   - Window title updates and clean terminal restoration on exit/panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
