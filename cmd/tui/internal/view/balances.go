package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/branch"
	"github.com/MrJamesThe3rd/findules/internal/branchbalance"
)

type balancesState int

const (
	balancesStateBrowse balancesState = iota
	balancesStateTopUp
	balancesStateHistory
)

type BalancesModel struct {
	service  *branchbalance.Service
	branches *branch.Service
	operator uuid.UUID

	state    balancesState
	table    table.Model
	balances []*branchbalance.Balance
	all      []*branch.Branch
	history  []*branchbalance.Transaction
	form     *huh.Form
	topUp    *topUpForm

	loading bool
	err     error
	status  string
}

type topUpForm struct {
	branchID uuid.UUID
	amount   string
	notes    string
}

func NewBalancesModel(svc *branchbalance.Service, branches *branch.Service, operator uuid.UUID) BalancesModel {
	columns := []table.Column{
		{Title: "Branch", Width: 24},
		{Title: "Opening", Width: 16},
		{Title: "Current", Width: 16},
		{Title: "Issued", Width: 16},
		{Title: "Retired", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
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

	return BalancesModel{
		service:  svc,
		branches: branches,
		operator: operator,
		table:    t,
		loading:  true,
	}
}

func (m BalancesModel) Title() string { return "Branch Balances" }

func (m BalancesModel) ShortHelp() string {
	switch m.state {
	case balancesStateTopUp:
		return "Navigate form | Esc: cancel"
	case balancesStateHistory:
		return "Esc: close history"
	}

	return "Esc: back | u: top up | h: history | r: refresh"
}

func (m BalancesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BalancesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBalancesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.balances = msg.balances
		m.all = msg.branches
		m.refreshTable()
		return m, nil

	case historyMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading history: %v", msg.err)
			return m, nil
		}

		m.history = msg.transactions
		m.state = balancesStateHistory
		return m, nil

	case topUpMsg:
		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("Error: %v", msg.err)
		case msg.result.Created:
			m.status = fmt.Sprintf("Opened balance for %s at %s", msg.result.Balance.BranchName, FormatAmount(msg.result.Balance.CurrentBalance))
		default:
			m.status = fmt.Sprintf("%s is now %s", msg.result.Balance.BranchName, FormatAmount(msg.result.Balance.CurrentBalance))
		}

		m.state = balancesStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	switch m.state {
	case balancesStateBrowse:
		return m.updateBrowse(msg)
	case balancesStateTopUp:
		return m.updateTopUp(msg)
	case balancesStateHistory:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = balancesStateBrowse
			m.history = nil
		}
		return m, nil
	}

	return m, nil
}

func (m BalancesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "u":
			return m.enterTopUpMode()
		case "h":
			if b := m.selected(); b != nil {
				return m, m.historyCmd(b.BranchID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m BalancesModel) selected() *branchbalance.Balance {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.balances) {
		return nil
	}

	return m.balances[idx]
}

func (m BalancesModel) enterTopUpMode() (tea.Model, tea.Cmd) {
	if len(m.all) == 0 {
		m.status = "No branches exist yet"
		return m, nil
	}

	m.topUp = &topUpForm{}
	if b := m.selected(); b != nil {
		m.topUp.branchID = b.BranchID
	}

	options := make([]huh.Option[uuid.UUID], 0, len(m.all))
	for _, b := range m.all {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", b.Name, b.Code), b.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().
				Title("Branch").
				Options(options...).
				Value(&m.topUp.branchID),

			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&m.topUp.amount).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("amount is required")
					}
					return validateAmount(s)
				}),

			huh.NewInput().
				Title("Notes").
				Value(&m.topUp.notes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = balancesStateTopUp
	m.table.Blur()
	return m, m.form.Init()
}

func (m BalancesModel) updateTopUp(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = balancesStateBrowse
		m.form = nil
		m.table.Focus()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.topUpCmd()
}

func (m BalancesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading balances...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	switch {
	case m.state == balancesStateTopUp && m.form != nil:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("Top Up", m.form.View()))
	case m.state == balancesStateHistory:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("History", m.viewHistory()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m BalancesModel) viewHistory() string {
	if len(m.history) == 0 {
		return "No transactions"
	}

	lines := make([]string, 0, len(m.history))
	for _, t := range m.history {
		lines = append(lines, fmt.Sprintf("%s  %-15s %14s -> %s",
			FormatDate(t.CreatedAt), activeStyle(string(t.Type)), FormatAmount(t.Amount), FormatAmount(t.BalanceAfter)))
	}

	return strings.Join(lines, "\n")
}

func panel(title, body string) string {
	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(60).
		Render(title + "\n\n" + body)
}

func (m *BalancesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.balances))
	for _, b := range m.balances {
		rows = append(rows, table.Row{
			b.BranchName,
			FormatAmount(b.OpeningBalance),
			FormatAmount(b.CurrentBalance),
			FormatAmount(b.TotalIssued),
			FormatAmount(b.TotalRetired),
		})
	}

	m.table.SetRows(rows)
}

type loadBalancesMsg struct {
	balances []*branchbalance.Balance
	branches []*branch.Branch
	err      error
}

type historyMsg struct {
	transactions []*branchbalance.Transaction
	err          error
}

type topUpMsg struct {
	result branchbalance.TopUpResult
	err    error
}

func (m BalancesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		balances, err := m.service.List(ctx)
		if err != nil {
			return loadBalancesMsg{err: err}
		}

		branches, err := m.branches.ListBranches(ctx)
		if err != nil {
			return loadBalancesMsg{err: err}
		}

		return loadBalancesMsg{balances: balances, branches: branches}
	}
}

func (m BalancesModel) historyCmd(branchID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.service.History(ctx, branchID)
		return historyMsg{transactions: txs, err: err}
	}
}

func (m BalancesModel) topUpCmd() tea.Cmd {
	params := branchbalance.TopUpParams{
		BranchID:    m.topUp.branchID,
		Amount:      parseAmount(m.topUp.amount),
		PerformedBy: m.operator,
		Notes:       strings.TrimSpace(m.topUp.notes),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.service.TopUp(ctx, params)
		return topUpMsg{result: res, err: err}
	}
}
