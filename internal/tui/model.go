package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/evently/evently/internal/calendar"
	"github.com/evently/evently/internal/events"
	applog "github.com/evently/evently/internal/log"
	"github.com/evently/evently/internal/render"
)

var (
	noColorMode bool // Global flag to disable all color output
)

// SetNoColor sets the global no-color flag
func SetNoColor(disable bool) {
	noColorMode = disable
}

type inputMode int

const (
	inputNone inputMode = iota
	inputYear
	inputMonth
)

// Options carries the display settings of the interactive UI.
type Options struct {
	MaxEvents int
	// Notice is shown under the help line, e.g. a stale cache warning.
	Notice string
}

// Run starts the interactive Bubble Tea UI.
func Run(svc *calendar.Service, req calendar.Request, opts Options) error {
	if svc == nil {
		svc = calendar.NewService()
	}
	m := newModel(svc, req.Normalize().View, opts)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

type model struct {
	svc       *calendar.Service
	view      calendar.MonthView
	selected  time.Time
	opts      Options
	width     int
	keys      keyMap
	help      help.Model
	inputMode inputMode
	input     textinput.Model
	statusMsg string
}

func newModel(svc *calendar.Service, view calendar.MonthView, opts Options) model {
	ti := textinput.New()
	ti.Placeholder = "number"
	ti.CharLimit = 16
	ti.Prompt = "> "

	m := model{
		svc:   svc,
		view:  view,
		opts:  opts,
		keys:  defaultKeyMap(),
		help:  help.New(),
		input: ti,
	}
	m.selected = m.clampSelection(svc.Now().Day())
	if calendar.ViewOf(svc.Now()) == view {
		m.selected = events.DayOf(svc.Now())
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		if m.inputMode != inputNone {
			return m.handleInputKey(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.PrevMonth):
			m.setView(m.view.Previous())
		case key.Matches(msg, m.keys.NextMonth):
			m.setView(m.view.Next())
		case key.Matches(msg, m.keys.PrevYear):
			m.setView(m.view.PreviousYear())
		case key.Matches(msg, m.keys.NextYear):
			m.setView(m.view.NextYear())
		case key.Matches(msg, m.keys.Left):
			m.moveSelection(-1)
		case key.Matches(msg, m.keys.Right):
			m.moveSelection(1)
		case key.Matches(msg, m.keys.Up):
			m.moveSelection(-7)
		case key.Matches(msg, m.keys.Down):
			m.moveSelection(7)
		case key.Matches(msg, m.keys.Today):
			now := m.svc.Now()
			m.view = calendar.ViewOf(now)
			m.selected = events.DayOf(now)
			m.statusMsg = ""
		case key.Matches(msg, m.keys.InputYear):
			m.activateInput(inputYear)
		case key.Matches(msg, m.keys.InputMon):
			m.activateInput(inputMonth)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

// setView switches month, keeping the selected day-of-month where it exists.
func (m *model) setView(view calendar.MonthView) {
	m.view = view
	m.selected = m.clampSelection(m.selected.Day())
	m.statusMsg = ""
	applog.Debug("month changed", "year", view.Year, "month", view.Month)
}

func (m *model) moveSelection(days int) {
	y, mo, d := m.selected.Date()
	m.selected = events.CivilDay(y, mo, d+days)
	m.view = calendar.ViewOf(m.selected)
	m.statusMsg = ""
}

func (m model) clampSelection(day int) time.Time {
	day = min(max(day, 1), m.view.DaysIn())
	return events.CivilDay(m.view.Year, time.Month(m.view.Month), day)
}

func (m model) View() string {
	if m.inputMode != inputNone {
		return m.inputView()
	}

	body, detail, err := m.renderCalendar()
	status := m.statusMsg
	if err != nil {
		status = err.Error()
	}

	sb := strings.Builder{}
	sb.WriteString(body)
	if detail != "" {
		sb.WriteString("\n\n")
		sb.WriteString(detail)
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(m.keys))
	if status != "" {
		sb.WriteString("\n")
		if noColorMode {
			sb.WriteString(status)
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316")).Render(status))
		}
	}
	if m.opts.Notice != "" {
		sb.WriteString("\n\n")
		if noColorMode {
			sb.WriteString(m.opts.Notice)
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render(m.opts.Notice))
		}
	}
	return sb.String()
}

func (m model) renderCalendar() (string, string, error) {
	grid, err := m.svc.Month(m.view)
	if err != nil {
		applog.Error("month grid failed", err, "year", m.view.Year, "month", m.view.Month)
		return "", "", err
	}
	width := m.width
	if width <= 0 {
		width = 100
	}
	blocks := render.BuildBlocks([]calendar.Grid{grid}, render.Options{
		Width:     width,
		MaxEvents: m.opts.MaxEvents,
		Selected:  m.selected,
	})
	var detail string
	if cell, ok := grid.Day(m.selected.Day()); ok {
		detail = render.DayDetail(cell)
	}
	return render.Layout(blocks, width), detail, nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = inputNone
		m.statusMsg = ""
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.applyInput()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) activateInput(mode inputMode) {
	m.inputMode = mode
	m.input.SetValue("")
	m.input.CursorEnd()
	m.input.Focus()
	m.statusMsg = ""
}

func (m *model) applyInput() {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		m.statusMsg = "enter a number"
		return
	}
	view := m.view
	switch m.inputMode {
	case inputYear:
		fields := strings.Fields(value)
		if len(fields) == 0 || len(fields) > 2 {
			m.statusMsg = "expected: year or year month"
			return
		}
		year, err := strconv.Atoi(fields[0])
		if err != nil {
			m.statusMsg = "invalid year"
			return
		}
		view.Year = year
		if len(fields) == 2 {
			month, err := strconv.Atoi(fields[1])
			if err != nil || month < 1 || month > 12 {
				m.statusMsg = "month must be between 1 and 12"
				return
			}
			view.Month = month
		}
	case inputMonth:
		num, err := strconv.Atoi(value)
		if err != nil {
			m.statusMsg = "invalid month"
			return
		}
		if num < 1 || num > 12 {
			m.statusMsg = "month must be between 1 and 12"
			return
		}
		view.Month = num
	}
	if err := view.Validate(); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.setView(view)
	m.inputMode = inputNone
	m.input.Blur()
}

func (m model) inputView() string {
	var label string
	switch m.inputMode {
	case inputYear:
		label = "Year, optionally followed by month (enter to confirm, esc to cancel)"
	case inputMonth:
		label = "Month 1-12 (enter to confirm, esc to cancel)"
	default:
		return ""
	}
	if noColorMode {
		return label + "\n\n" + m.input.View()
	}
	return lipgloss.NewStyle().
		Bold(true).
		Render(label) + "\n\n" + m.input.View()
}
