package calendar

import (
	"time"

	"github.com/evently/evently/internal/events"
)

// DayCell is one grid cell. A placeholder has a zero Date, InMonth false and
// no events.
type DayCell struct {
	Date    time.Time
	InMonth bool
	IsToday bool
	Events  []events.Event
	Lunar   LunarInfo
}

// IsPlaceholder reports whether the cell is a blank filler.
func (c DayCell) IsPlaceholder() bool {
	return c.Date.IsZero()
}

// Grid is a month laid out as a flat cell sequence: Leading placeholders
// followed by every day of the month in ascending order.
type Grid struct {
	View      MonthView
	WeekStart time.Weekday
	Leading   int
	Cells     []DayCell
}

// Days returns the cells that carry a date.
func (g Grid) Days() []DayCell {
	return g.Cells[g.Leading:]
}

// Day returns the cell for day-of-month d.
func (g Grid) Day(d int) (DayCell, bool) {
	idx := g.Leading + d - 1
	if d < 1 || idx >= len(g.Cells) {
		return DayCell{}, false
	}
	return g.Cells[idx], true
}

// Weeks splits the cells into rows of seven, padding the last row with
// trailing placeholders.
func (g Grid) Weeks() [][]DayCell {
	weeks := make([][]DayCell, 0, 6)
	for i := 0; i < len(g.Cells); i += 7 {
		week := make([]DayCell, 7)
		copy(week, g.Cells[i:min(i+7, len(g.Cells))])
		weeks = append(weeks, week)
	}
	return weeks
}

// Weekdays lists the column order starting at WeekStart.
func (g Grid) Weekdays() []time.Weekday {
	days := make([]time.Weekday, 7)
	for i := range days {
		days[i] = (g.WeekStart + time.Weekday(i)) % 7
	}
	return days
}

type gridOptions struct {
	now       time.Time
	weekStart time.Weekday
	lunar     bool
}

// GridOption tunes BuildMonthGrid.
type GridOption func(*gridOptions)

// WithGridNow sets the instant used for IsToday.
func WithGridNow(now time.Time) GridOption {
	return func(o *gridOptions) {
		o.now = now
	}
}

// WithGridWeekStart sets the weekday of the first column.
func WithGridWeekStart(day time.Weekday) GridOption {
	return func(o *gridOptions) {
		o.weekStart = day
	}
}

// WithGridLunar enables lunar annotations.
func WithGridLunar(enabled bool) GridOption {
	return func(o *gridOptions) {
		o.lunar = enabled
	}
}

// LeadingBlanks returns how many placeholders precede the 1st of view's month
// when weeks start on weekStart.
func LeadingBlanks(view MonthView, weekStart time.Weekday) int {
	return (int(view.First().Weekday()) - int(weekStart) + 7) % 7
}

// BuildMonthGrid lays out view's month and attaches to every day the events
// dated on it, in their input order. Matching compares calendar dates only.
// The result depends only on its arguments; with no WithGridNow option
// IsToday is computed against time.Now.
func BuildMonthGrid(view MonthView, evs []events.Event, opts ...GridOption) (Grid, error) {
	if err := view.Validate(); err != nil {
		return Grid{}, err
	}
	o := gridOptions{weekStart: time.Sunday}
	for _, opt := range opts {
		opt(&o)
	}
	if o.now.IsZero() {
		o.now = time.Now()
	}

	daysIn := view.DaysIn()
	leading := LeadingBlanks(view, o.weekStart)

	// Each date is built from its own components; stepping from a previous
	// cell would carry any DST shift into the rest of the month.
	cells := make([]DayCell, leading, leading+daysIn)
	for d := 1; d <= daysIn; d++ {
		day := events.CivilDay(view.Year, time.Month(view.Month), d)
		cell := DayCell{
			Date:    day,
			InMonth: true,
			IsToday: events.SameDay(day, o.now),
			Events:  events.OnDay(evs, day),
		}
		if o.lunar {
			cell.Lunar = lunarFor(day)
		}
		cells = append(cells, cell)
	}

	return Grid{
		View:      view,
		WeekStart: o.weekStart,
		Leading:   leading,
		Cells:     cells,
	}, nil
}
