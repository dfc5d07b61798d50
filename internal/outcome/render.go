package outcome

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var statusColors = map[Status]*color.Color{
	Written:   color.New(color.FgGreen),
	Patched:   color.New(color.FgGreen),
	Unchanged: color.New(color.Faint),
	Skipped:   color.New(color.Faint),
	Failed:    color.New(color.FgRed, color.Bold),
}

// Render writes one aligned line per outcome.
func Render(w io.Writer, results []Outcome) {
	width := 0
	for _, r := range results {
		if n := runewidth.StringWidth(string(r.Status)); n > width {
			width = n
		}
	}
	for _, r := range results {
		label := runewidth.FillRight(string(r.Status), width)
		if c, ok := statusColors[r.Status]; ok {
			label = c.Sprint(label)
		}
		if r.Status == Failed && r.Err != nil {
			fmt.Fprintf(w, "  %s  %s (%v)\n", label, r.Target, r.Err)
			continue
		}
		fmt.Fprintf(w, "  %s  %s\n", label, r.Target)
	}
}
