package placer

import (
	"fmt"
	"io"
)

// Progress receives countdown lines. Update replaces the current line; Done
// prints the final one.
type Progress interface {
	Update(line string)
	Done(line string)
}

// linePadding clears the tail of a longer previous line.
const linePadding = "              "

// LineProgress rewrites a single terminal line with carriage returns.
type LineProgress struct {
	W io.Writer
}

func (l *LineProgress) Update(line string) { fmt.Fprint(l.W, line+linePadding+"\r") }

func (l *LineProgress) Done(line string) { fmt.Fprintln(l.W, line) }

func formatCountdown(format string, seconds int) string {
	return fmt.Sprintf(format, seconds)
}
