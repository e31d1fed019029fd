package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ecobasket/ecobasket/pkg/browse"
)

// terminalSurface renders browse instructions as plain terminal
// output. Cards become tabwriter rows; Flush must run once all
// instructions are applied.
type terminalSurface struct {
	out    io.Writer
	tw     *tabwriter.Writer
	header bool
}

func newTerminalSurface(out io.Writer) *terminalSurface {
	return &terminalSurface{
		out: out,
		tw:  tabwriter.NewWriter(out, 0, 0, 3, ' ', 0),
	}
}

func (s *terminalSurface) SetChips(chips []browse.Chip) {
	parts := make([]string, 0, len(chips))
	for _, chip := range chips {
		if chip.Active {
			parts = append(parts, "["+chip.Name+"]")
		} else {
			parts = append(parts, chip.Name)
		}
	}
	fmt.Fprintln(s.out, strings.Join(parts, "  "))
}

func (s *terminalSurface) ClearCards() {}

func (s *terminalSurface) SetStatus(status string) {
	if status != "" {
		fmt.Fprintln(s.out, status)
	}
}

func (s *terminalSurface) AddCard(c browse.Card) {
	if !s.header {
		fmt.Fprintln(s.tw, "ECO\tTITLE\tCODE\tVIEW\t")
		s.header = true
	}
	grade := c.EcoGrade
	if grade == "" {
		grade = "?"
	}
	fmt.Fprintf(s.tw, "%s\t%s\t%s\t%s\t\n", grade, c.Title, c.Code, c.ViewURL)
}

func (s *terminalSurface) Navigate(target string) {
	fmt.Fprintf(s.out, "You are signed out. Continue at %s (run 'ecobasket login').\n", target)
}

func (s *terminalSurface) CardFeedback(code, label string, revert time.Duration) {
	fmt.Fprintf(s.out, "%s: %s\n", code, label)
}

func (s *terminalSurface) Alert(message string) {
	fmt.Fprintln(s.out, "! "+message)
}

func (s *terminalSurface) Flush() {
	if s.header {
		s.tw.Flush()
	}
}
