package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/evently/evently/internal/calendar"
	"github.com/evently/evently/internal/events"
	"github.com/evently/evently/internal/textwidth"
)

const (
	cellPadding      = 1
	defaultColWidth  = 14
	minColWidth      = 4
	maxColWidth      = 22
	defaultMaxEvents = 3
	blockGap         = 2
)

var (
	noColorMode bool // Global flag to disable all color output
)

// SetNoColor sets the global no-color flag
func SetNoColor(disable bool) {
	noColorMode = disable
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FEC260"))
	headerColor = lipgloss.Color("#A5B4FC")
	borderColor = lipgloss.Color("#475569")
	todayColor  = lipgloss.Color("#34D399")
	lunarColor  = lipgloss.Color("#94A3B8")
	mutedColor  = lipgloss.Color("#6B7280")
	chipText    = lipgloss.Color("#FFFFFF")
)

// Options controls month block rendering.
type Options struct {
	// Width is the terminal width used to size columns. Zero uses a fixed
	// default column width.
	Width int
	// ColumnWidth forces the content width of each weekday column.
	ColumnWidth int
	// MaxEvents caps event chips per day; overflow becomes "+N more".
	MaxEvents int
	// Selected highlights one day (interactive mode).
	Selected time.Time
}

func (o Options) columnWidth() int {
	if o.ColumnWidth > 0 {
		return o.ColumnWidth
	}
	if o.Width <= 0 {
		return defaultColWidth
	}
	// 8 vertical borders plus padding on both sides of 7 columns.
	w := (o.Width-8)/7 - cellPadding*2
	return max(minColWidth, min(maxColWidth, w))
}

func (o Options) maxEvents() int {
	if o.MaxEvents <= 0 {
		return defaultMaxEvents
	}
	return o.MaxEvents
}

// MonthBlock packages rendered lines with their visual width/height.
type MonthBlock struct {
	Lines  []string
	Width  int
	Height int
}

// BuildBlocks converts month grids into renderable blocks.
func BuildBlocks(grids []calendar.Grid, opts Options) []MonthBlock {
	blocks := make([]MonthBlock, len(grids))
	for i, g := range grids {
		blocks[i] = buildMonthBlock(g, opts)
	}
	return blocks
}

// Layout places blocks left to right while they fit in width, wrapping onto
// new rows otherwise.
func Layout(blocks []MonthBlock, width int) string {
	if len(blocks) == 0 {
		return ""
	}
	perRow := 1
	if width > 0 && blocks[0].Width > 0 {
		perRow = max(1, (width+blockGap)/(blocks[0].Width+blockGap))
	}

	rows := make([]string, 0, len(blocks)/perRow+1)
	for start := 0; start < len(blocks); start += perRow {
		end := min(start+perRow, len(blocks))
		cols := make([]string, 0, (end-start)*2)
		for i := start; i < end; i++ {
			if i != start {
				cols = append(cols, strings.Repeat(" ", blockGap))
			}
			cols = append(cols, strings.Join(blocks[i].Lines, "\n"))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return strings.Join(rows, "\n\n")
}

// cellKind tells the style function how to paint a cell.
type cellKind int

const (
	kindBlank cellKind = iota
	kindDate
	kindLunar
	kindEvent
	kindMore
)

type cellMeta struct {
	kind     cellKind
	today    bool
	selected bool
	color    string
}

func buildMonthBlock(g calendar.Grid, opts Options) MonthBlock {
	colWidth := opts.columnWidth()
	maxEvents := opts.maxEvents()
	showLunar := hasLunar(g)

	headers := make([]string, 0, 7)
	for _, wd := range g.Weekdays() {
		headers = append(headers, textwidth.Truncate(wd.String()[:3], colWidth))
	}

	weeks := g.Weeks()
	var rows [][]string
	var meta [][]cellMeta
	for weekIdx, week := range weeks {
		dateRow := make([]string, len(week))
		dateMeta := make([]cellMeta, len(week))
		for i, cell := range week {
			dateRow[i], dateMeta[i] = dateCell(cell, opts.Selected)
		}
		rows = append(rows, dateRow)
		meta = append(meta, dateMeta)

		if showLunar {
			lunarRow := make([]string, len(week))
			lunarMeta := make([]cellMeta, len(week))
			for i, cell := range week {
				if cell.IsPlaceholder() {
					continue
				}
				lunarRow[i] = textwidth.Truncate(cell.Lunar.Label(), colWidth)
				lunarMeta[i] = cellMeta{kind: kindLunar}
			}
			rows = append(rows, lunarRow)
			meta = append(meta, lunarMeta)
		}

		for line := 0; line < eventLines(week, maxEvents); line++ {
			row := make([]string, len(week))
			rowMeta := make([]cellMeta, len(week))
			for i, cell := range week {
				row[i], rowMeta[i] = eventCell(cell.Events, line, maxEvents, colWidth)
			}
			rows = append(rows, row)
			meta = append(meta, rowMeta)
		}

		if weekIdx != len(weeks)-1 {
			rows = append(rows, make([]string, len(week)))
			meta = append(meta, make([]cellMeta, len(week)))
		}
	}

	base := lipgloss.NewStyle().Padding(0, cellPadding).Width(colWidth + cellPadding*2)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if noColorMode {
					return base
				}
				return base.Bold(true).Foreground(headerColor)
			}
			if row < 0 || row >= len(meta) || col >= len(meta[row]) {
				return base
			}
			return styleFor(meta[row][col], base)
		})
	if !noColorMode {
		t = t.BorderStyle(lipgloss.NewStyle().Foreground(borderColor))
	}

	title := g.View.Title()
	if !noColorMode {
		title = titleStyle.Render(title)
	}
	lines := append([]string{title, ""}, strings.Split(strings.TrimRight(t.Render(), "\n"), "\n")...)

	width := 0
	for _, line := range lines {
		// Box drawing runes are double width in GBK, so measure with lipgloss.
		width = max(width, lipgloss.Width(line))
	}
	return MonthBlock{
		Lines:  lines,
		Width:  width,
		Height: len(lines),
	}
}

func dateCell(cell calendar.DayCell, selected time.Time) (string, cellMeta) {
	if cell.IsPlaceholder() {
		return "", cellMeta{}
	}
	m := cellMeta{
		kind:     kindDate,
		today:    cell.IsToday,
		selected: !selected.IsZero() && events.SameDay(cell.Date, selected),
	}
	text := fmt.Sprintf("%2d", cell.Date.Day())
	if noColorMode {
		// Without color the markers carry the highlight.
		if m.selected {
			text = ">" + text
		}
		if m.today {
			text += "*"
		}
	}
	return text, m
}

// eventLines is the number of chip rows a week needs.
func eventLines(week []calendar.DayCell, maxEvents int) int {
	n := 0
	for _, cell := range week {
		n = max(n, min(len(cell.Events), maxEvents))
	}
	return n
}

// eventCell returns the chip on the given line of a day. When a day has more
// events than fit, the last line reads "+N more".
func eventCell(evs []events.Event, line, maxEvents, colWidth int) (string, cellMeta) {
	if line >= len(evs) {
		return "", cellMeta{}
	}
	if len(evs) > maxEvents && line == maxEvents-1 {
		return textwidth.Truncate(fmt.Sprintf("+%d more", len(evs)-line), colWidth), cellMeta{kind: kindMore}
	}
	ev := evs[line]
	return textwidth.Truncate(ev.Label(), colWidth), cellMeta{kind: kindEvent, color: ev.Color}
}

func styleFor(m cellMeta, base lipgloss.Style) lipgloss.Style {
	if noColorMode {
		return base
	}
	switch m.kind {
	case kindDate:
		s := base
		if m.today {
			s = s.Bold(true).Foreground(todayColor)
		}
		if m.selected {
			s = s.Reverse(true)
		}
		return s
	case kindLunar:
		return base.Foreground(lunarColor)
	case kindEvent:
		return base.Foreground(chipText).Background(Color(m.color))
	case kindMore:
		return base.Italic(true).Foreground(mutedColor)
	default:
		return base
	}
}

func hasLunar(g calendar.Grid) bool {
	for _, cell := range g.Days() {
		if !cell.Lunar.IsZero() {
			return true
		}
	}
	return false
}

// DayDetail lists the events of one day, for the panel under the grid.
func DayDetail(cell calendar.DayCell) string {
	if cell.IsPlaceholder() {
		return ""
	}
	header := cell.Date.Format("Monday, January 2 2006")
	if !cell.Lunar.IsZero() {
		header += "  " + cell.Lunar.Label()
	}
	if !noColorMode {
		header = lipgloss.NewStyle().Bold(true).Foreground(headerColor).Render(header)
	}

	lines := []string{header}
	if len(cell.Events) == 0 {
		lines = append(lines, "  no events")
	}
	for _, ev := range cell.Events {
		lines = append(lines, "  "+bullet(ev.Color)+" "+ev.Label())
	}
	return strings.Join(lines, "\n")
}

func bullet(color string) string {
	if noColorMode {
		return "-"
	}
	return lipgloss.NewStyle().Foreground(Color(color)).Render("●")
}
