package calendar

import (
	"errors"
	"reflect"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/evently/evently/internal/events"
)

// useLocation swaps time.Local for the duration of the test.
func useLocation(t *testing.T, name string) {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	saved := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = saved })
}

func day(y int, m time.Month, d int) time.Time {
	return events.CivilDay(y, m, d)
}

func TestBuildMonthGridLeapFebruary(t *testing.T) {
	grid, err := BuildMonthGrid(MonthView{Year: 2024, Month: 2}, nil)
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}
	if grid.Leading != 4 {
		t.Fatalf("expected 4 leading placeholders, got %d", grid.Leading)
	}
	if len(grid.Cells) != 4+29 {
		t.Fatalf("expected 33 cells, got %d", len(grid.Cells))
	}
	for i := 0; i < 4; i++ {
		c := grid.Cells[i]
		if !c.IsPlaceholder() || c.InMonth || len(c.Events) != 0 {
			t.Fatalf("cell %d should be a blank placeholder, got %+v", i, c)
		}
	}
	last := grid.Cells[len(grid.Cells)-1]
	if !events.SameDay(last.Date, day(2024, time.February, 29)) {
		t.Fatalf("expected last cell on Feb 29 2024, got %v", last.Date)
	}
}

func TestBuildMonthGridShapeAcrossMonths(t *testing.T) {
	for _, weekStart := range []time.Weekday{time.Sunday, time.Monday} {
		for year := 1999; year <= 2031; year++ {
			for month := 1; month <= 12; month++ {
				view := MonthView{Year: year, Month: month}
				grid, err := BuildMonthGrid(view, nil, WithGridWeekStart(weekStart))
				if err != nil {
					t.Fatalf("%v: %v", view, err)
				}
				first := day(year, time.Month(month), 1)
				wantDays := first.AddDate(0, 1, -1).Day()
				wantLeading := (int(first.Weekday()) - int(weekStart) + 7) % 7

				if grid.Leading != wantLeading {
					t.Fatalf("%v start %v: leading=%d want %d", view, weekStart, grid.Leading, wantLeading)
				}
				days := grid.Days()
				if len(days) != wantDays {
					t.Fatalf("%v: %d day cells, want %d", view, len(days), wantDays)
				}
				if wantDays < 28 || wantDays > 31 {
					t.Fatalf("%v: impossible month length %d", view, wantDays)
				}
				for i, c := range days {
					if !c.InMonth || !events.SameDay(c.Date, first.AddDate(0, 0, i)) {
						t.Fatalf("%v: cell %d has date %v", view, i, c.Date)
					}
				}
			}
		}
	}
}

func TestBuildMonthGridNoLeadingBlanks(t *testing.T) {
	// September 1st 2024 is a Sunday.
	grid, err := BuildMonthGrid(MonthView{Year: 2024, Month: 9}, nil)
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}
	if grid.Leading != 0 {
		t.Fatalf("expected no placeholders, got %d", grid.Leading)
	}
	if grid.Cells[0].Date.Day() != 1 {
		t.Fatalf("first cell should be the 1st, got %v", grid.Cells[0].Date)
	}
}

func TestBuildMonthGridMondayStart(t *testing.T) {
	grid, err := BuildMonthGrid(MonthView{Year: 2024, Month: 2}, nil, WithGridWeekStart(time.Monday))
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}
	if grid.Leading != 3 {
		t.Fatalf("expected 3 placeholders for a Thursday start, got %d", grid.Leading)
	}
	want := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}
	if got := grid.Weekdays(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Weekdays()=%v want %v", got, want)
	}
}

func TestBuildMonthGridAttachesEventsByDate(t *testing.T) {
	evs := []events.Event{
		{ID: "1", Date: day(2024, time.February, 15), Title: "Standup", StartTime: "23:59"},
		{ID: "2", Date: day(2024, time.March, 15), Title: "Other month"},
		{ID: "3", Date: time.Date(2024, time.February, 15, 18, 30, 0, 0, time.UTC), Title: "Review", StartTime: "00:00"},
		{ID: "4", Date: day(2024, time.February, 1), Title: "Kickoff"},
	}
	grid, err := BuildMonthGrid(MonthView{Year: 2024, Month: 2}, evs)
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}

	for _, c := range grid.Cells {
		if c.IsPlaceholder() {
			if len(c.Events) != 0 {
				t.Fatalf("placeholder carries events: %+v", c.Events)
			}
			continue
		}
		for _, ev := range evs {
			found := false
			for _, got := range c.Events {
				if got.ID == ev.ID {
					found = true
				}
			}
			if found != events.SameDay(ev.Date, c.Date) {
				t.Fatalf("event %s on %v: present=%v in cell %v", ev.ID, ev.Date, found, c.Date)
			}
		}
	}

	cell, ok := grid.Day(15)
	if !ok {
		t.Fatalf("Day(15) not found")
	}
	if len(cell.Events) != 2 || cell.Events[0].ID != "1" || cell.Events[1].ID != "3" {
		t.Fatalf("expected events 1 then 3 in input order, got %+v", cell.Events)
	}
}

func TestBuildMonthGridWithoutEvents(t *testing.T) {
	withEvents, err := BuildMonthGrid(MonthView{Year: 2024, Month: 2}, []events.Event{{ID: "x", Date: day(2024, time.February, 2)}})
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}
	empty, err := BuildMonthGrid(MonthView{Year: 2024, Month: 2}, []events.Event{})
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}
	if len(empty.Cells) != len(withEvents.Cells) || empty.Leading != withEvents.Leading {
		t.Fatalf("event collection changed grid shape")
	}
	for _, c := range empty.Cells {
		if len(c.Events) != 0 {
			t.Fatalf("expected no events on %v", c.Date)
		}
	}
}

func TestBuildMonthGridIsIdempotent(t *testing.T) {
	now := time.Date(2024, 2, 10, 9, 0, 0, 0, time.Local)
	evs := []events.Event{{ID: "a", Date: day(2024, time.February, 10), Title: "A"}}
	a, err := BuildMonthGrid(MonthView{Year: 2024, Month: 2}, evs, WithGridNow(now), WithGridLunar(true))
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}
	b, err := BuildMonthGrid(MonthView{Year: 2024, Month: 2}, evs, WithGridNow(now), WithGridLunar(true))
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated builds differ")
	}
}

func TestBuildMonthGridInvalidView(t *testing.T) {
	tests := []struct {
		name string
		view MonthView
		want error
	}{
		{"month 13", MonthView{Year: 2024, Month: 13}, ErrInvalidMonth},
		{"month 0", MonthView{Year: 2024, Month: 0}, ErrInvalidMonth},
		{"year 0", MonthView{Year: 0, Month: 5}, ErrYearOutOfRange},
		{"year 10000", MonthView{Year: 10000, Month: 5}, ErrYearOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildMonthGrid(tt.view, nil); !errors.Is(err, tt.want) {
				t.Fatalf("got %v want %v", err, tt.want)
			}
		})
	}
}

func TestMonthViewNavigation(t *testing.T) {
	for year := 1990; year <= 2030; year++ {
		for month := 1; month <= 12; month++ {
			v := MonthView{Year: year, Month: month}
			if got := v.Next().Previous(); got != v {
				t.Fatalf("Next().Previous() of %v = %v", v, got)
			}
			if got := v.Previous().Next(); got != v {
				t.Fatalf("Previous().Next() of %v = %v", v, got)
			}
		}
	}

	if got := (MonthView{Year: 2024, Month: 1}).Previous(); got != (MonthView{Year: 2023, Month: 12}) {
		t.Fatalf("January - 1 month = %v", got)
	}
	if got := (MonthView{Year: 2023, Month: 12}).Next(); got != (MonthView{Year: 2024, Month: 1}) {
		t.Fatalf("December + 1 month = %v", got)
	}
	if got := (MonthView{Year: 2024, Month: 26}).Normalize(); got != (MonthView{Year: 2026, Month: 2}) {
		t.Fatalf("Normalize month 26 = %v", got)
	}
	if got := (MonthView{Year: 2024, Month: 2}).Title(); got != "February 2024" {
		t.Fatalf("Title()=%q", got)
	}
}

func TestMonthFlagsToday(t *testing.T) {
	now := time.Date(2025, 11, 18, 10, 0, 0, 0, time.Local)
	svc := NewService(WithNow(func() time.Time { return now }))
	grid, err := svc.Month(MonthView{Year: 2025, Month: 11})
	if err != nil {
		t.Fatalf("Month returned error: %v", err)
	}
	var todays []int
	for _, c := range grid.Days() {
		if c.IsToday {
			todays = append(todays, c.Date.Day())
		}
	}
	if len(todays) != 1 || todays[0] != 18 {
		t.Fatalf("expected only the 18th flagged as today, got %v", todays)
	}

	other, err := svc.Month(MonthView{Year: 2025, Month: 10})
	if err != nil {
		t.Fatalf("Month returned error: %v", err)
	}
	for _, c := range other.Cells {
		if c.IsToday {
			t.Fatalf("October should not contain today, got %v", c.Date)
		}
	}
}

func TestWeeksArePaddedRows(t *testing.T) {
	grid, err := BuildMonthGrid(MonthView{Year: 2024, Month: 2}, nil)
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}
	weeks := grid.Weeks()
	if len(weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(weeks))
	}
	for _, w := range weeks {
		if len(w) != 7 {
			t.Fatalf("week should have 7 cells, got %d", len(w))
		}
	}
	if !weeks[4][5].IsPlaceholder() || !weeks[4][6].IsPlaceholder() {
		t.Fatalf("trailing cells after Feb 29 should be placeholders")
	}
	if weeks[4][4].Date.Day() != 29 {
		t.Fatalf("expected Feb 29 on Thursday column, got %v", weeks[4][4].Date)
	}
}

func TestYearLoadsAllMonths(t *testing.T) {
	evs := []events.Event{{ID: "1", Date: day(2024, time.July, 4), Title: "Fireworks"}}
	svc := NewService(WithEvents(evs))
	grids, err := svc.Year(2024)
	if err != nil {
		t.Fatalf("Year returned error: %v", err)
	}
	if len(grids) != 12 {
		t.Fatalf("expected 12 months, got %d", len(grids))
	}
	cell, _ := grids[6].Day(4)
	if len(cell.Events) != 1 {
		t.Fatalf("expected July 4th event, got %+v", cell.Events)
	}
	if _, err := svc.Year(0); !errors.Is(err, ErrYearOutOfRange) {
		t.Fatalf("expected ErrYearOutOfRange, got %v", err)
	}
}

func TestLunarAnnotation(t *testing.T) {
	plain, err := BuildMonthGrid(MonthView{Year: 2025, Month: 11}, nil)
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}
	for _, c := range plain.Days() {
		if !c.Lunar.IsZero() {
			t.Fatalf("lunar data present without WithGridLunar")
		}
	}

	lunar, err := BuildMonthGrid(MonthView{Year: 2025, Month: 11}, nil, WithGridLunar(true))
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}
	for _, c := range lunar.Days() {
		if c.Lunar.DayAlias == "" || c.Lunar.Label() == "" {
			t.Fatalf("missing lunar label on %v", c.Date)
		}
	}

	old, err := BuildMonthGrid(MonthView{Year: 1850, Month: 1}, nil, WithGridLunar(true))
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}
	if !old.Days()[0].Lunar.IsZero() {
		t.Fatalf("expected no lunar data before %d", MinLunarYear)
	}
}

// DST in Sao Paulo started at 00:00 on 2018-11-04, so that midnight never
// happened.
func TestBuildMonthGridMidnightDSTGap(t *testing.T) {
	useLocation(t, "America/Sao_Paulo")

	evs := []events.Event{
		{ID: "gap", Date: events.CivilDay(2018, time.November, 4), Title: "Election"},
		{ID: "last", Date: events.CivilDay(2018, time.November, 30), Title: "Payday"},
	}
	grid, err := BuildMonthGrid(MonthView{Year: 2018, Month: 11}, evs)
	if err != nil {
		t.Fatalf("BuildMonthGrid returned error: %v", err)
	}
	days := grid.Days()
	if len(days) != 30 {
		t.Fatalf("expected 30 days, got %d", len(days))
	}
	for i, cell := range days {
		if cell.Date.Day() != i+1 || cell.Date.Month() != time.November {
			t.Fatalf("cell %d holds %v", i, cell.Date)
		}
	}
	for _, tt := range []struct {
		day int
		id  events.ID
	}{{4, "gap"}, {30, "last"}} {
		cell, ok := grid.Day(tt.day)
		if !ok || len(cell.Events) != 1 || cell.Events[0].ID != tt.id {
			t.Fatalf("day %d: expected event %q, got %+v", tt.day, tt.id, cell.Events)
		}
	}
}

func TestServiceHasEvents(t *testing.T) {
	if NewService().HasEvents() {
		t.Fatalf("empty service reports events")
	}
	svc := NewService(WithEvents([]events.Event{{ID: "1", Date: day(2024, time.March, 1), Title: "Launch"}}))
	if !svc.HasEvents() {
		t.Fatalf("expected HasEvents with one event loaded")
	}
}
