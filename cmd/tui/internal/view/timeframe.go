package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Timeframe is a reporting period offered by the picker.
type Timeframe int

const (
	TimeframeToday Timeframe = iota
	TimeframeThisWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
	TimeframeCustom
)

var timeframeLabels = map[Timeframe]string{
	TimeframeToday:     "Today",
	TimeframeThisWeek:  "This Week",
	TimeframeThisMonth: "This Month",
	TimeframeLastMonth: "Last Month",
	TimeframeAll:       "All Time",
	TimeframeCustom:    "Custom Range",
}

func (t Timeframe) String() string {
	if l, ok := timeframeLabels[t]; ok {
		return l
	}

	return "Unknown"
}

// dateRange returns the first and last business day of tf, counted from now.
// Weeks start on Monday.
func dateRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch tf {
	case TimeframeThisWeek:
		back := (int(today.Weekday()) + 6) % 7
		return today.AddDate(0, 0, -back), today
	case TimeframeThisMonth:
		return today.AddDate(0, 0, 1-today.Day()), today
	case TimeframeLastMonth:
		first := today.AddDate(0, 0, 1-today.Day()).AddDate(0, -1, 0)
		return first, first.AddDate(0, 1, -1)
	}

	return today, today
}

// TimeframeSelectedMsg carries an inclusive range of days. Start and End are
// zero when All is set.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

// TimeframePicker lists the preset periods and falls back to a form for a
// custom range.
type TimeframePicker struct {
	cursor Timeframe
	first  Timeframe

	form   *huh.Form
	custom *customRange
}

type customRange struct {
	start string
	end   string
}

func NewTimeframePicker(first Timeframe) TimeframePicker {
	return TimeframePicker{cursor: first, first: first}
}

// IsSelecting reports whether the preset list is showing. Esc in the custom
// form returns to the list instead of leaving the screen.
func (m TimeframePicker) IsSelecting() bool {
	return m.form == nil
}

func (m *TimeframePicker) Reset() {
	m.cursor = m.first
	m.form = nil
	m.custom = nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if m.form != nil {
		return m.updateCustom(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > m.first {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < TimeframeCustom {
			m.cursor++
		}
	case "enter":
		return m.choose()
	}

	return m, nil
}

func (m TimeframePicker) choose() (TimeframePicker, tea.Cmd) {
	switch m.cursor {
	case TimeframeAll:
		return m, func() tea.Msg { return TimeframeSelectedMsg{All: true} }
	case TimeframeCustom:
		m.custom = &customRange{}
		m.form = m.buildCustomForm()
		return m, m.form.Init()
	}

	start, end := dateRange(m.cursor, time.Now())

	return m, func() tea.Msg { return TimeframeSelectedMsg{Start: start, End: end} }
}

func (m TimeframePicker) buildCustomForm() *huh.Form {
	parse := func(s string) error {
		if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("use YYYY-MM-DD")
		}
		return nil
	}

	c := m.custom

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Start Date").Placeholder("YYYY-MM-DD").Value(&c.start).Validate(parse),
			huh.NewInput().Title("End Date").Placeholder("YYYY-MM-DD").Value(&c.end).Validate(func(s string) error {
				if err := parse(s); err != nil {
					return err
				}

				start, _ := time.Parse(time.DateOnly, strings.TrimSpace(c.start))
				end, _ := time.Parse(time.DateOnly, strings.TrimSpace(s))
				if end.Before(start) {
					return fmt.Errorf("end date is before start date")
				}
				return nil
			}),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		m.custom = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	start, _ := time.Parse(time.DateOnly, strings.TrimSpace(m.custom.start))
	end, _ := time.Parse(time.DateOnly, strings.TrimSpace(m.custom.end))
	m.form = nil

	return m, func() tea.Msg { return TimeframeSelectedMsg{Start: start, End: end} }
}

func (m TimeframePicker) View() string {
	if m.form != nil {
		return "Custom Range\n\n" + m.form.View() + "\n(Esc to go back)"
	}

	var sb strings.Builder

	sb.WriteString("Select Timeframe:\n\n")

	for tf := m.first; tf <= TimeframeCustom; tf++ {
		if tf == m.cursor {
			sb.WriteString("> " + activeStyle(tf.String()) + "\n")
			continue
		}

		sb.WriteString("  " + tf.String() + "\n")
	}

	sb.WriteString("\n(Enter to select, Esc to back)")

	return sb.String()
}
