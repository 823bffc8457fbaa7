package report

import (
	"io"

	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	noteColor = color.New(color.FgCyan)
)

// Success prints a green status line.
func Success(w io.Writer, format string, args ...any) {
	okColor.Fprintf(w, format+"\n", args...)
}

// Failure prints a red status line.
func Failure(w io.Writer, format string, args ...any) {
	failColor.Fprintf(w, format+"\n", args...)
}

// Note prints a cyan hint line.
func Note(w io.Writer, format string, args ...any) {
	noteColor.Fprintf(w, format+"\n", args...)
}
