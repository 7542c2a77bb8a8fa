package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/branch"
	"github.com/MrJamesThe3rd/findules/internal/export"
)

type exportState int

const (
	exportStateTimeframe exportState = iota
	exportStateOptions
	exportStateExporting
	exportStateResult
)

type ExportModel struct {
	exportService *export.Service
	branches      *branch.Service

	state           exportState
	err             error
	timeframePicker TimeframePicker
	branchList      []*branch.Branch

	startDate time.Time
	endDate   time.Time
	allTime   bool

	form    *huh.Form
	options *exportOptions
	spinner spinner.Model
	paths   []string
}

type exportOptions struct {
	path     string
	branchID uuid.UUID
	formats  []export.Format
}

func NewExportModel(svc *export.Service, branches *branch.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService:   svc,
		branches:        branches,
		state:           exportStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeToday),
		options:         &exportOptions{path: "./exports", formats: []export.Format{export.FormatXLSX, export.FormatPDF}},
		spinner:         s,
	}
}

func (m ExportModel) Title() string { return "Export Reports" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}
	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.loadBranchesCmd()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportBranchesMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = exportStateResult
			return m, nil
		}

		m.branchList = msg.branches
		return m, nil

	case TimeframeSelectedMsg:
		m.startDate = msg.Start
		m.endDate = msg.End
		m.allTime = msg.All
		m.form = m.buildOptionsForm()
		m.state = exportStateOptions
		return m, m.form.Init()
	}

	switch m.state {
	case exportStateTimeframe:
		return m.updateTimeframe(msg)
	case exportStateOptions:
		return m.updateOptions(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)
	return m, cmd
}

func (m ExportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = exportStateTimeframe
			m.timeframePicker.Reset()
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

	m.state = exportStateExporting
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.runExportCmd())
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.paths = result.paths
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}
	return m, nil
}

func (m ExportModel) buildOptionsForm() *huh.Form {
	branchOptions := []huh.Option[uuid.UUID]{huh.NewOption("All branches", uuid.Nil)}
	for _, b := range m.branchList {
		branchOptions = append(branchOptions, huh.NewOption(b.Name, b.ID))
	}

	formatOptions := make([]huh.Option[export.Format], 0, len(export.Formats))
	for _, f := range export.Formats {
		formatOptions = append(formatOptions, huh.NewOption(strings.ToUpper(string(f)), f))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().
				Title("Branch").
				Options(branchOptions...).
				Value(&m.options.branchID),

			huh.NewMultiSelect[export.Format]().
				Title("Formats").
				Options(formatOptions...).
				Value(&m.options.formats).
				Validate(func(v []export.Format) error {
					if len(v) == 0 {
						return fmt.Errorf("pick at least one format")
					}
					return nil
				}),

			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.options.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case exportStateOptions:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Rendering reconciliation and imprest reports...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	period := "All time"
	if !m.allTime {
		period = fmt.Sprintf("%s to %s", FormatDate(m.startDate), FormatDate(m.endDate))
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Period: "+period,
			"",
			strings.Join(m.paths, "\n"),
		),
	)
}

type exportBranchesMsg struct {
	branches []*branch.Branch
	err      error
}

type exportResultMsg struct {
	paths []string
	err   error
}

const exportTimeout = 2 * time.Minute

func (m ExportModel) loadBranchesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		branches, err := m.branches.ListBranches(ctx)
		return exportBranchesMsg{branches: branches, err: err}
	}
}

func (m ExportModel) runExportCmd() tea.Cmd {
	filter := export.Filter{}
	if !m.allTime {
		start, end := m.startDate, m.endDate
		filter.StartDate = &start
		filter.EndDate = &end
	}

	if m.options.branchID != uuid.Nil {
		filter.BranchID = new(m.options.branchID)
	}

	path := strings.TrimSpace(m.options.path)
	if path == "" {
		path = "./exports"
	}

	formats := m.options.formats

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		paths, err := m.exportService.ToDir(ctx, filter, path, formats...)
		return exportResultMsg{paths: paths, err: err}
	}
}
