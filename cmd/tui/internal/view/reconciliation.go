package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/branch"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
)

type reconciliationState int

const (
	reconciliationStateLoading reconciliationState = iota
	reconciliationStateForm
	reconciliationStatePreview
	reconciliationStateSaving
	reconciliationStateResult
)

type ReconciliationModel struct {
	service  *reconciliation.Service
	branches *branch.Service
	operator uuid.UUID

	state    reconciliationState
	cashiers []*branch.Cashier
	form     *huh.Form
	fields   *reconciliationForm

	input   reconciliation.Input
	date    time.Time
	figures reconciliation.Figures

	saved *reconciliation.Reconciliation
	err   error
}

type reconciliationForm struct {
	cashierID uuid.UUID
	date      string
	opening   string
	sales     string
	pos       string
	cashTxn   string
	in        string
	out       string
	discounts string
	refunds   string
	withdrawn string
	atHand    string
	notes     string
}

func NewReconciliationModel(svc *reconciliation.Service, branches *branch.Service, operator uuid.UUID) ReconciliationModel {
	return ReconciliationModel{
		service:  svc,
		branches: branches,
		operator: operator,
		state:    reconciliationStateLoading,
		fields:   &reconciliationForm{date: time.Now().Format(time.DateOnly)},
	}
}

func (m ReconciliationModel) Title() string { return "New Reconciliation" }

func (m ReconciliationModel) ShortHelp() string {
	switch m.state {
	case reconciliationStatePreview:
		return "Enter: save | e: edit | Esc: cancel"
	case reconciliationStateResult:
		return "Esc: back to menu | n: another"
	}

	return "Esc: back"
}

func (m ReconciliationModel) Init() tea.Cmd {
	return m.loadCashiersCmd()
}

func (m ReconciliationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCashiersMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = reconciliationStateResult
			return m, nil
		}

		if len(msg.cashiers) == 0 {
			m.err = fmt.Errorf("no active cashiers; add one first")
			m.state = reconciliationStateResult
			return m, nil
		}

		m.cashiers = msg.cashiers
		m.form = m.buildForm()
		m.state = reconciliationStateForm
		return m, m.form.Init()

	case saveReconciliationMsg:
		m.saved = msg.reconciliation
		m.err = msg.err
		m.state = reconciliationStateResult
		return m, nil
	}

	switch m.state {
	case reconciliationStateForm:
		return m.updateForm(msg)
	case reconciliationStatePreview:
		return m.updatePreview(msg)
	case reconciliationStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ReconciliationModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.input = m.fields.input()
	m.date, _ = time.Parse(time.DateOnly, strings.TrimSpace(m.fields.date))

	figures, err := m.service.Preview(m.input)
	if err != nil {
		m.err = err
		m.state = reconciliationStateResult
		return m, nil
	}

	m.figures = figures
	m.state = reconciliationStatePreview
	return m, nil
}

func (m ReconciliationModel) updatePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "e":
		m.form = m.buildForm()
		m.state = reconciliationStateForm
		return m, m.form.Init()
	case "enter":
		m.state = reconciliationStateSaving
		return m, m.saveCmd()
	}

	return m, nil
}

func (m ReconciliationModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "n":
		next := NewReconciliationModel(m.service, m.branches, m.operator)
		return next, next.Init()
	}

	return m, nil
}

func (m ReconciliationModel) buildForm() *huh.Form {
	options := make([]huh.Option[uuid.UUID], 0, len(m.cashiers))
	for _, c := range m.cashiers {
		options = append(options, huh.NewOption(c.Name, c.ID))
	}

	f := m.fields

	amount := func(title string, v *string) *huh.Input {
		return huh.NewInput().Title(title).Placeholder("0.00").Value(v).Validate(validateAmount)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().
				Title("Cashier").
				Options(options...).
				Value(&f.cashierID),

			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),

			amount("Actual Opening Balance", &f.opening),
			amount("Total Sales", &f.sales),
		),
		huh.NewGroup(
			amount("POS Transactions", &f.pos),
			amount("Cash Transaction", &f.cashTxn),
			amount("Transfers In", &f.in),
			amount("Transfers Out", &f.out),
			amount("Discounts Given", &f.discounts),
		),
		huh.NewGroup(
			amount("Refunds Issued", &f.refunds),
			amount("Cash Withdrawn", &f.withdrawn),
			huh.NewInput().
				Title("Cash At Hand").
				Placeholder("0.00").
				Value(&f.atHand).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("cash at hand is required")
					}
					return validateAmount(s)
				}),
			huh.NewText().Title("Notes").Value(&f.notes),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (f *reconciliationForm) input() reconciliation.Input {
	return reconciliation.Input{
		ActualOpeningBalance:  parseAmount(f.opening),
		TotalSales:            parseAmount(f.sales),
		POSTransactionsAmount: parseAmount(f.pos),
		CashTransaction:       parseAmount(f.cashTxn),
		TransfersIn:           parseAmount(f.in),
		TransfersOut:          parseAmount(f.out),
		DiscountsGiven:        parseAmount(f.discounts),
		RefundsIssued:         parseAmount(f.refunds),
		CashWithdrawn:         parseAmount(f.withdrawn),
		CashAtHand:            parseAmount(f.atHand),
	}
}

func (m ReconciliationModel) View() string {
	switch m.state {
	case reconciliationStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading cashiers...")
	case reconciliationStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case reconciliationStatePreview:
		return m.viewPreview()
	case reconciliationStateSaving:
		return lipgloss.NewStyle().Padding(2).Render("Saving...")
	case reconciliationStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ReconciliationModel) viewPreview() string {
	cashier := ""
	for _, c := range m.cashiers {
		if c.ID == m.fields.cashierID {
			cashier = c.Name
		}
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s on %s", cashier, FormatDate(m.date))),
		"",
		fmt.Sprintf("%-26s %16s", "Turnover", FormatAmount(m.figures.TurnOver)),
		fmt.Sprintf("%-26s %16s", "Expected closing balance", FormatAmount(m.figures.ExpectedClosingBalance)),
		fmt.Sprintf("%-26s %16s", "Cash at hand", FormatAmount(m.input.CashAtHand)),
		fmt.Sprintf("%-26s %16s", "Overage / shortage", FormatAmount(m.figures.OverageShortage)),
		"",
		"Variance: " + varianceStyle(m.figures.VarianceCategory),
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(strings.Join(lines, "\n"))
}

func (m ReconciliationModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)",
		)
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Reconciliation Saved")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			fmt.Sprintf("Serial:   %s", m.saved.SerialNumber),
			fmt.Sprintf("Variance: %s (%s)", FormatAmount(m.saved.OverageShortage), varianceStyle(m.saved.VarianceCategory)),
			"",
			"(n for another, Esc to go back)",
		),
	)
}

func varianceStyle(c reconciliation.VarianceCategory) string {
	color := "46"

	switch c {
	case reconciliation.MinorShortage, reconciliation.MinorOverage:
		color = "226"
	case reconciliation.MajorShortage, reconciliation.MajorOverage:
		color = "208"
	case reconciliation.CriticalShortage, reconciliation.CriticalOverage:
		color = "196"
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(c))
}

type loadCashiersMsg struct {
	cashiers []*branch.Cashier
	err      error
}

type saveReconciliationMsg struct {
	reconciliation *reconciliation.Reconciliation
	err            error
}

func (m ReconciliationModel) loadCashiersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		all, err := m.branches.ListCashiers(ctx, nil)
		if err != nil {
			return loadCashiersMsg{err: err}
		}

		active := make([]*branch.Cashier, 0, len(all))
		for _, c := range all {
			if c.Active {
				active = append(active, c)
			}
		}

		return loadCashiersMsg{cashiers: active}
	}
}

func (m ReconciliationModel) saveCmd() tea.Cmd {
	params := reconciliation.CreateParams{
		CashierID: m.fields.cashierID,
		Date:      m.date,
		Input:     m.input,
		Notes:     strings.TrimSpace(m.fields.notes),
		CreatedBy: m.operator,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rec, err := m.service.Create(ctx, params)
		return saveReconciliationMsg{reconciliation: rec, err: err}
	}
}
