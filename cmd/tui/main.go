package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/findules/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/findules/internal/branch"
	branchStore "github.com/MrJamesThe3rd/findules/internal/branch/store"
	"github.com/MrJamesThe3rd/findules/internal/branchbalance"
	balanceStore "github.com/MrJamesThe3rd/findules/internal/branchbalance/store"
	"github.com/MrJamesThe3rd/findules/internal/category"
	categoryStore "github.com/MrJamesThe3rd/findules/internal/category/store"
	"github.com/MrJamesThe3rd/findules/internal/config"
	"github.com/MrJamesThe3rd/findules/internal/database"
	"github.com/MrJamesThe3rd/findules/internal/export"
	"github.com/MrJamesThe3rd/findules/internal/imprest"
	imprestStore "github.com/MrJamesThe3rd/findules/internal/imprest/store"
	"github.com/MrJamesThe3rd/findules/internal/reconciliation"
	recStore "github.com/MrJamesThe3rd/findules/internal/reconciliation/store"
)

type model struct {
	branchService  *branch.Service
	balanceService *branchbalance.Service
	recService     *reconciliation.Service
	imprestService *imprest.Service
	exportService  *export.Service
	operator       uuid.UUID

	currentView View

	imprestsView       view.ImprestsModel
	reconciliationView view.ReconciliationModel
	balancesView       view.BalancesModel
	exportView         view.ExportModel
}

type View int

const (
	ViewMenu           View = 0
	ViewImprests       View = 1
	ViewReconciliation View = 2
	ViewBalances       View = 3
	ViewExport         View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	operator, err := uuid.Parse(cfg.TUI.Operator)
	if err != nil {
		slog.Error("TUI_OPERATOR must be the id of an existing user", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	branchSvc := branch.NewService(branchStore.New(db))
	recSvc := reconciliation.NewService(recStore.New(db), branchSvc)
	imprestSvc := imprest.NewService(imprestStore.New(db), category.NewService(categoryStore.New(db)), cfg.Imprest.OverdueAfter)

	return model{
		branchService:  branchSvc,
		balanceService: branchbalance.NewService(balanceStore.New(db), branchSvc),
		recService:     recSvc,
		imprestService: imprestSvc,
		exportService:  export.NewService(recSvc, imprestSvc),
		operator:       operator,
		currentView:    ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImprests
				m.imprestsView = view.NewImprestsModel(m.imprestService, m.operator)

				return m, m.imprestsView.Init()
			case "2":
				m.currentView = ViewReconciliation
				m.reconciliationView = view.NewReconciliationModel(m.recService, m.branchService, m.operator)

				return m, m.reconciliationView.Init()
			case "3":
				m.currentView = ViewBalances
				m.balancesView = view.NewBalancesModel(m.balanceService, m.branchService, m.operator)

				return m, m.balancesView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService, m.branchService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImprests:
		var newModel tea.Model
		newModel, cmd = m.imprestsView.Update(msg)
		m.imprestsView = newModel.(view.ImprestsModel)
	case ViewReconciliation:
		var newModel tea.Model
		newModel, cmd = m.reconciliationView.Update(msg)
		m.reconciliationView = newModel.(view.ReconciliationModel)
	case ViewBalances:
		var newModel tea.Model
		newModel, cmd = m.balancesView.Update(msg)
		m.balancesView = newModel.(view.BalancesModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Findules\n\n" +
				"1. Imprests\n" +
				"2. New Reconciliation\n" +
				"3. Branch Balances\n" +
				"4. Export Reports\n\n" +
				"q. Quit",
		)
	case ViewImprests:
		current = m.imprestsView
	case ViewReconciliation:
		current = m.reconciliationView
	case ViewBalances:
		current = m.balancesView
	case ViewExport:
		current = m.exportView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
