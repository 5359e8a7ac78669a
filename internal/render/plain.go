package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/evently/evently/internal/calendar"
)

// PlainOptions controls how the non-interactive renderer behaves.
type PlainOptions struct {
	Writer    io.Writer
	Service   *calendar.Service
	Request   calendar.Request
	Width     int
	MaxEvents int
	// Agenda appends a dated list of the shown events.
	Agenda bool
	// Notice is printed after the calendar, e.g. a stale cache warning.
	Notice string
}

// RunPlain renders the requested view exactly once.
func RunPlain(opts PlainOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Service == nil {
		opts.Service = calendar.NewService()
	}

	req := opts.Request.Normalize()
	grids, err := fetchGrids(opts.Service, req)
	if err != nil {
		return err
	}
	width := opts.Width
	if width == 0 {
		width = DetectWidth()
	}

	blockOpts := Options{Width: width, MaxEvents: opts.MaxEvents}
	if req.Mode == calendar.ModeYear {
		// Twelve months side by side only work with compact columns.
		blockOpts.ColumnWidth = minColWidth
		blockOpts.MaxEvents = 1
	}
	output := Layout(BuildBlocks(grids, blockOpts), width)
	if output == "" {
		return nil
	}
	if _, err := fmt.Fprintln(opts.Writer, output); err != nil {
		return err
	}

	if opts.Agenda {
		if _, err := fmt.Fprintln(opts.Writer, "\n"+Agenda(grids)); err != nil {
			return err
		}
	}
	if opts.Notice != "" {
		if _, err := fmt.Fprintln(opts.Writer, "\n"+opts.Notice); err != nil {
			return err
		}
	}
	return nil
}

// Agenda lists every event in the grids, one line per event, in date order.
func Agenda(grids []calendar.Grid) string {
	var lines []string
	for _, g := range grids {
		for _, cell := range g.Days() {
			for _, ev := range cell.Events {
				lines = append(lines, fmt.Sprintf("%s  %s %s", cell.Date.Format("Mon Jan _2 2006"), bullet(ev.Color), ev.Label()))
			}
		}
	}
	if len(lines) == 0 {
		return "No events."
	}
	return strings.Join(lines, "\n")
}

// DetectWidth tries to determine the terminal width, falling back to 100 cols.
func DetectWidth() int {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) {
		if w, _, err := term.GetSize(int(fd)); err == nil {
			return w
		}
	}
	return 100
}

func fetchGrids(svc *calendar.Service, req calendar.Request) ([]calendar.Grid, error) {
	if req.Mode == calendar.ModeYear {
		return svc.Year(req.View.Year)
	}
	grid, err := svc.Month(req.View)
	if err != nil {
		return nil, err
	}
	return []calendar.Grid{grid}, nil
}
