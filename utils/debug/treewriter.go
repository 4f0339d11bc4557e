package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates indented text lines describing nested structures,
// suitable for logging at debug level.
type TreeWriter struct {
	b strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

func (tw *TreeWriter) String() string {
	return tw.b.String()
}

// Line writes a single formatted line at the requested depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(&tw.b, format, args...)
	tw.b.WriteByte('\n')
}

// TextBlock writes a labeled value, quoting it so multiline content
// stays on a single line.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.pad(depth)
	tw.b.WriteString(label)
	tw.b.WriteString(": ")
	if len(value) != 0 {
		tw.b.WriteString(strconv.Quote(value))
	}
	tw.b.WriteByte('\n')
}

func (tw *TreeWriter) pad(depth int) {
	for range depth {
		tw.b.WriteString("  ")
	}
}
