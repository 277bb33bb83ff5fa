package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	green = color.New(color.FgGreen)
	cyan  = color.New(color.FgCyan)
	bold  = color.New(color.Bold)
)

// success prints a green line with a checkmark prefix
func success(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, a...))
}

// field prints an aligned "label: value" line with the value highlighted
func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%-6s ", label+":")
	cyan.Fprintln(w, value)
}

// heading prints a bold line
func heading(w io.Writer, format string, a ...any) {
	bold.Fprintf(w, format+"\n", a...)
}
