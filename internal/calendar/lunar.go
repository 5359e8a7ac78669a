package calendar

import (
	"time"

	calendarlib "github.com/Lofanmi/chinese-calendar-golang/calendar"
)

// Gregorian year range supported by the lunar library.
const (
	MinLunarYear = 1900
	MaxLunarYear = 3000
)

// LunarInfo is the Chinese lunar annotation of a day.
type LunarInfo struct {
	DayAlias   string
	MonthAlias string
	SolarTerm  string
}

// Label selects the string rendered beneath the date. Solar terms take
// precedence, followed by the lunar month name on the first day of a lunar
// month.
func (l LunarInfo) Label() string {
	if l.SolarTerm != "" {
		return l.SolarTerm
	}
	if l.DayAlias == "初一" && l.MonthAlias != "" {
		return l.MonthAlias
	}
	return l.DayAlias
}

// IsZero reports whether no annotation was computed.
func (l LunarInfo) IsZero() bool {
	return l == LunarInfo{}
}

func lunarFor(day time.Time) LunarInfo {
	if day.Year() < MinLunarYear || day.Year() > MaxLunarYear {
		return LunarInfo{}
	}
	cal := calendarlib.BySolar(
		int64(day.Year()),
		int64(day.Month()),
		int64(day.Day()),
		12, 0, 0,
	)
	info := LunarInfo{
		DayAlias:   cal.Lunar.DayAlias(),
		MonthAlias: cal.Lunar.MonthAlias(),
	}
	if solarterm := cal.Solar.CurrentSolarterm; solarterm != nil {
		if solarterm.IsInDay(&day) {
			info.SolarTerm = solarterm.Alias()
		}
	}
	return info
}
