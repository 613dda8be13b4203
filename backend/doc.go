// Package backend binds displays and input devices to a console.
//
// ANSI drives the terminal package directly; Tcell goes through
// gdamore/tcell. Both translate device input into input.Events and
// synthesize key releases when the device reports only presses.
package backend
