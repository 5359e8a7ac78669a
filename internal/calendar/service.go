package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/evently/evently/internal/events"
)

// Year range accepted by the grid builder.
const (
	MinYear = 1
	MaxYear = 9999
)

var (
	// ErrYearOutOfRange indicates the requested year is unsupported.
	ErrYearOutOfRange = fmt.Errorf("year must be between %d and %d", MinYear, MaxYear)
	// ErrInvalidMonth indicates the month is not in the 1..12 range.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)

// Mode indicates whether we display a single month or an entire year.
type Mode int

const (
	ModeMonth Mode = iota
	ModeYear
)

// MonthView is the (year, month) pair currently displayed.
type MonthView struct {
	Year  int
	Month int
}

// Normalize keeps the month within 1..12 by rolling the year value.
func (v MonthView) Normalize() MonthView {
	for v.Month > 12 {
		v.Month -= 12
		v.Year++
	}
	for v.Month < 1 {
		v.Month += 12
		v.Year--
	}
	return v
}

// Next moves to the following month.
func (v MonthView) Next() MonthView {
	v.Month++
	return v.Normalize()
}

// Previous moves to the preceding month.
func (v MonthView) Previous() MonthView {
	v.Month--
	return v.Normalize()
}

// NextYear moves to the same month of the following year.
func (v MonthView) NextYear() MonthView {
	v.Year++
	return v
}

// PreviousYear moves to the same month of the preceding year.
func (v MonthView) PreviousYear() MonthView {
	v.Year--
	return v
}

// First returns the 1st of the month, anchored like every grid date.
func (v MonthView) First() time.Time {
	return events.CivilDay(v.Year, time.Month(v.Month), 1)
}

// DaysIn returns the number of days in the month.
func (v MonthView) DaysIn() int {
	return time.Date(v.Year, time.Month(v.Month)+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// Title renders the month header, e.g. "February 2024".
func (v MonthView) Title() string {
	return fmt.Sprintf("%s %d", time.Month(v.Month), v.Year)
}

// Validate reports whether the view can be laid out.
func (v MonthView) Validate() error {
	if v.Year < MinYear || v.Year > MaxYear {
		return ErrYearOutOfRange
	}
	if v.Month < 1 || v.Month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// ViewOf returns the MonthView containing t.
func ViewOf(t time.Time) MonthView {
	return MonthView{Year: t.Year(), Month: int(t.Month())}
}

// Request captures what should be rendered initially.
type Request struct {
	View MonthView
	Mode Mode
}

// Normalize normalizes the embedded view.
func (r Request) Normalize() Request {
	r.View = r.View.Normalize()
	return r
}

// Service builds grids over an in-memory event collection. Navigating between
// months rebuilds from the same collection; nothing is reloaded.
type Service struct {
	now       func() time.Time
	events    []events.Event
	weekStart time.Weekday
	lunar     bool
}

// Option configures the Service.
type Option func(*Service)

// WithNow overrides the clock, which is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithEvents sets the event collection.
func WithEvents(evs []events.Event) Option {
	return func(s *Service) {
		s.events = evs
	}
}

// WithWeekStart sets the first column of the week.
func WithWeekStart(day time.Weekday) Option {
	return func(s *Service) {
		s.weekStart = day
	}
}

// WithLunar enables lunar annotations on day cells.
func WithLunar(enabled bool) Option {
	return func(s *Service) {
		s.lunar = enabled
	}
}

// NewService constructs a Service.
func NewService(opts ...Option) *Service {
	s := &Service{
		now:       time.Now,
		weekStart: time.Sunday,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasEvents reports whether any events were loaded.
func (s *Service) HasEvents() bool {
	return len(s.events) > 0
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Month builds the grid for view.
func (s *Service) Month(view MonthView) (Grid, error) {
	return BuildMonthGrid(view, s.events,
		WithGridNow(s.now()),
		WithGridWeekStart(s.weekStart),
		WithGridLunar(s.lunar),
	)
}

// Year returns the twelve grids of year.
func (s *Service) Year(year int) ([]Grid, error) {
	if year < MinYear || year > MaxYear {
		return nil, ErrYearOutOfRange
	}
	grids := make([]Grid, 0, 12)
	for m := 1; m <= 12; m++ {
		g, err := s.Month(MonthView{Year: year, Month: m})
		if err != nil {
			return nil, err
		}
		grids = append(grids, g)
	}
	return grids, nil
}
