package view

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fundly/internal/settlement"
)

const importTimeout = 2 * time.Minute

type settlementState int

const (
	settlementStateFilePick settlementState = iota
	settlementStateImporting
	settlementStateResult
)

// SettlementModel feeds a payment provider settlement file through the
// donation confirmation path.
type SettlementModel struct {
	CommonModel
	svc *settlement.Service

	state      settlementState
	filePicker filepicker.Model
	spinner    spinner.Model
	rows       table.Model

	path   string
	report *settlement.Report
	err    error
}

func NewSettlementModel(svc *settlement.Service) SettlementModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return SettlementModel{
		svc:        svc,
		filePicker: fp,
		spinner:    sp,
		rows: newTable([]table.Column{
			{Title: "Line", Width: 6},
			{Title: "Transaction", Width: 24},
			{Title: "Status", Width: 10},
			{Title: "Outcome", Width: 20},
			{Title: "Allocations", Width: 12},
			{Title: "Error", Width: 40},
		}, 12),
	}
}

func (m SettlementModel) Title() string { return "Import Settlement" }

func (m SettlementModel) ShortHelp() string {
	if m.state == settlementStateResult {
		return "Esc: pick another file | arrows: scroll rows"
	}

	return "Esc: back | Enter: select"
}

func (m SettlementModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m SettlementModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case settlementResultMsg:
		m.state = settlementStateResult
		m.report = msg.report
		m.err = msg.err

		if msg.report != nil {
			m.refreshRows()
		}

		return m, nil

	case spinner.TickMsg:
		if m.state != settlementStateImporting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.state {
	case settlementStateResult:
		var cmd tea.Cmd
		m.rows, cmd = m.rows.Update(msg)

		return m, cmd
	case settlementStateImporting:
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = settlementStateImporting
		m.path = path

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	return m, cmd
}

func (m SettlementModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case settlementStateResult:
		m.state = settlementStateFilePick
		m.report = nil
		m.err = nil

		return m, m.filePicker.Init()
	case settlementStateImporting:
		// The import runs to completion regardless.
		return m, nil
	}

	return m, Back
}

func (m SettlementModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case settlementStateFilePick:
		return style.Render("Select settlement file:\n\n" + m.filePicker.View())
	case settlementStateImporting:
		return style.Render(fmt.Sprintf("%s Importing %s...", m.spinner.View(), m.path))
	case settlementStateResult:
		return style.Render(m.viewResult())
	}

	return ""
}

func (m SettlementModel) viewResult() string {
	if m.err != nil && m.report == nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)"
	}

	r := m.report

	summary := fmt.Sprintf("%s (%s, %s): %d applied, %d failed", m.path, r.Format, r.Charset, r.Applied, r.Failed)
	if r.Failed == 0 {
		summary = successStyle.Render(summary)
	} else {
		summary = errorStyle.Render(summary)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		summary,
		"",
		framed(m.rows.View()),
		"",
		faintStyle.Render(m.ShortHelp()),
	)
}

func (m *SettlementModel) refreshRows() {
	rows := make([]table.Row, 0, len(m.report.Rows))
	for _, row := range m.report.Rows {
		rows = append(rows, table.Row{
			strconv.Itoa(row.Line),
			row.TransactionID,
			row.Status,
			string(row.Outcome),
			strconv.Itoa(row.Allocations),
			row.Error,
		})
	}

	m.rows.SetRows(rows)
}

// Messages

type settlementResultMsg struct {
	report *settlement.Report
	err    error
}

func (m SettlementModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return settlementResultMsg{err: fmt.Errorf("opening file: %w", err)}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		report, err := m.svc.Import(ctx, f)

		return settlementResultMsg{report: report, err: err}
	}
}
