package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/imprest"
)

type imprestState int

const (
	imprestStateBrowse imprestState = iota
	imprestStateRetire
)

var imprestStatusFilters = []imprest.Status{"", imprest.StatusIssued, imprest.StatusOverdue, imprest.StatusRetired}

type ImprestsModel struct {
	service  *imprest.Service
	operator uuid.UUID

	state    imprestState
	table    table.Model
	imprests []*imprest.Imprest
	form     *huh.Form

	statusFilterIdx int
	loading         bool
	err             error
	status          string

	retire *retireForm
}

// retireForm is heap allocated so the huh bindings survive model copies.
type retireForm struct {
	spent    string
	receipts string
	notes    string
}

func NewImprestsModel(svc *imprest.Service, operator uuid.UUID) ImprestsModel {
	columns := []table.Column{
		{Title: "Number", Width: 16},
		{Title: "Issued", Width: 12},
		{Title: "Staff", Width: 20},
		{Title: "Category", Width: 14},
		{Title: "Amount", Width: 14},
		{Title: "Spent", Width: 14},
		{Title: "Status", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ImprestsModel{
		service:  svc,
		operator: operator,
		table:    t,
		loading:  true,
	}
}

func (m ImprestsModel) Title() string { return "Imprests" }

func (m ImprestsModel) ShortHelp() string {
	if m.state == imprestStateRetire {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | t: retire | s: status filter | r: refresh"
}

func (m ImprestsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ImprestsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadImprestsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.imprests = msg.imprests
		m.refreshTable()
		return m, nil

	case retireImprestMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error retiring: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Retired %s, balance %s", msg.imprest.Number, FormatNullAmount(msg.imprest.Balance))
		}

		m.state = imprestStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case imprestStateBrowse:
		return m.updateBrowse(msg)
	case imprestStateRetire:
		return m.updateRetire(msg)
	}

	return m, nil
}

func (m ImprestsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(imprestStatusFilters)
			m.loading = true
			return m, m.loadCmd()
		case "t":
			return m.enterRetireMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ImprestsModel) selected() *imprest.Imprest {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.imprests) {
		return nil
	}

	return m.imprests[idx]
}

func (m ImprestsModel) enterRetireMode() (tea.Model, tea.Cmd) {
	im := m.selected()
	if im == nil {
		return m, nil
	}

	if im.Status == imprest.StatusRetired {
		m.status = fmt.Sprintf("%s is already retired", im.Number)
		return m, nil
	}

	m.retire = &retireForm{}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount_spent").
				Title("Amount Spent").
				Placeholder("0.00").
				Value(&m.retire.spent).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("amount spent is required")
					}

					if err := validateAmount(s); err != nil {
						return err
					}

					if parseAmount(s).GreaterThan(im.Amount) {
						return fmt.Errorf("cannot exceed %s", FormatAmount(im.Amount))
					}

					return nil
				}),

			huh.NewInput().
				Key("receipts").
				Title("Receipts").
				Placeholder("receipt numbers").
				Value(&m.retire.receipts),

			huh.NewText().
				Key("notes").
				Title("Notes").
				Value(&m.retire.notes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = imprestStateRetire
	m.table.Blur()
	return m, m.form.Init()
}

func (m ImprestsModel) updateRetire(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = imprestStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.retireCmd(m.selected())
}

func (m ImprestsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading imprests...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	label := "All"
	if f := imprestStatusFilters[m.statusFilterIdx]; f != "" {
		label = string(f)
	}

	header := fmt.Sprintf("Filter: [s] Status: %s | %d imprests", activeStyle(label), len(m.imprests))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == imprestStateRetire && m.form != nil {
		detail := ""
		if im := m.selected(); im != nil {
			detail = fmt.Sprintf("%s\n%s, %s\nIssued: %s", im.Number, im.StaffName, im.Purpose, FormatAmount(im.Amount))
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Retire Imprest\n\n%s\n\n%s", detail, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ImprestsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.imprests))
	for _, im := range m.imprests {
		rows = append(rows, table.Row{
			im.Number,
			FormatDate(im.DateIssued),
			im.StaffName,
			im.Category,
			FormatAmount(im.Amount),
			FormatNullAmount(im.AmountSpent),
			string(im.Status),
		})
	}

	m.table.SetRows(rows)
}

type loadImprestsMsg struct {
	imprests []*imprest.Imprest
	err      error
}

type retireImprestMsg struct {
	imprest *imprest.Imprest
	err     error
}

func (m ImprestsModel) loadCmd() tea.Cmd {
	filter := imprest.ListFilter{Status: imprestStatusFilters[m.statusFilterIdx]}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.service.List(ctx, filter)
		return loadImprestsMsg{imprests: items, err: err}
	}
}

func (m ImprestsModel) retireCmd(im *imprest.Imprest) tea.Cmd {
	if im == nil || m.retire == nil {
		return nil
	}

	params := imprest.RetireParams{
		AmountSpent: parseAmount(m.retire.spent),
		Receipts:    strings.TrimSpace(m.retire.receipts),
		Notes:       strings.TrimSpace(m.retire.notes),
		RetiredBy:   m.operator,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		retired, err := m.service.Retire(ctx, im.ID, params)
		return retireImprestMsg{imprest: retired, err: err}
	}
}
