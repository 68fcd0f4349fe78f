package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fundly/internal/campaign"
	"github.com/MrJamesThe3rd/fundly/internal/donation"
	"github.com/MrJamesThe3rd/fundly/internal/expense"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
	"github.com/MrJamesThe3rd/fundly/internal/report"
)

// CloseLedgerMsg returns from a campaign ledger to the campaign list.
type CloseLedgerMsg struct{}

type ledgerTab int

const (
	tabDonations ledgerTab = iota
	tabExpenses
	tabAllocations

	tabCount
)

func (t ledgerTab) String() string {
	switch t {
	case tabDonations:
		return "Donations"
	case tabExpenses:
		return "Expenses"
	case tabAllocations:
		return "Allocations"
	}

	return ""
}

// LedgerServices groups what the ledger screen reads from and writes to.
type LedgerServices struct {
	Campaigns *campaign.Service
	Donations *donation.Service
	Expenses  *expense.Service
	Reports   *report.Service
	Engine    *ledger.Engine
}

type LedgerModel struct {
	CommonModel
	svc LedgerServices

	campaign *ledger.Campaign
	tab      ledgerTab
	tables   [tabCount]table.Model

	donations []*ledger.Donation
	expenses  []*ledger.Expense
	lines     []report.Line

	timeframe Timeframe
	now       func() time.Time

	form          *huh.Form
	formDesc      string
	formAmount    string
	formReceipt   string
	reconcileNote string

	loading bool
	err     error
	status  string
}

func NewLedgerModel(svc LedgerServices, c *ledger.Campaign) LedgerModel {
	m := LedgerModel{
		svc:      svc,
		campaign: c,
		now:      time.Now,
		loading:  true,
	}

	m.tables[tabDonations] = newTable([]table.Column{
		{Title: "ID", Width: 10},
		{Title: "Date", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Amount", Width: 12},
		{Title: "Allocated", Width: 12},
		{Title: "Remaining", Width: 12},
		{Title: "Donor", Width: 16},
	}, 12)

	m.tables[tabExpenses] = newTable([]table.Column{
		{Title: "ID", Width: 10},
		{Title: "Date", Width: 12},
		{Title: "Description", Width: 30},
		{Title: "Amount", Width: 12},
		{Title: "Covered", Width: 12},
		{Title: "Need", Width: 12},
		{Title: "Receipt", Width: 8},
	}, 12)

	m.tables[tabAllocations] = newTable([]table.Column{
		{Title: "Date", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Donation", Width: 10},
		{Title: "Placement", Width: 16},
		{Title: "Expense", Width: 30},
	}, 12)

	return m
}

func (m LedgerModel) Title() string { return m.campaign.Title }

func (m LedgerModel) ShortHelp() string {
	if m.form != nil {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Tab: switch table | n: new expense | t: timeframe | c: reconcile | R: reconcile and repair | r: refresh"
}

func (m LedgerModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadLedgerMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.campaign = msg.campaign
			m.donations = msg.donations
			m.expenses = msg.expenses
			m.lines = msg.lines
			m.refreshTables()
		}

		return m, nil

	case expenseSavedMsg:
		m.form = nil
		m.tables[m.tab].Focus()

		switch {
		case msg.expense == nil:
			m.status = fmt.Sprintf("Error: %v", msg.err)
		case msg.err != nil:
			m.status = fmt.Sprintf("Recorded %q; allocation pending: %v", msg.expense.Description, msg.err)
		default:
			m.status = fmt.Sprintf("Recorded %q, covered %s of %s", msg.expense.Description, msg.expense.Allocated, msg.expense.Amount)
		}

		return m, m.loadCmd()

	case reconcileMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.reconcileNote = describeReconcile(msg.report)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		for i := range m.tables {
			m.tables[i].SetHeight(max(msg.Height-16, 5))
		}

		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m LedgerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, func() tea.Msg { return CloseLedgerMsg{} }
		case "tab":
			m.tables[m.tab].Blur()
			m.tab = (m.tab + 1) % tabCount
			m.tables[m.tab].Focus()

			return m, nil
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			m.timeframe = m.timeframe.Next()
			m.refreshTables()

			return m, nil
		case "c":
			return m, m.reconcileCmd(false)
		case "R":
			return m, m.reconcileCmd(true)
		case "n":
			return m.openExpenseForm()
		}
	}

	var cmd tea.Cmd
	m.tables[m.tab], cmd = m.tables[m.tab].Update(msg)

	return m, cmd
}

func (m LedgerModel) openExpenseForm() (tea.Model, tea.Cmd) {
	m.formDesc, m.formAmount, m.formReceipt = "", "", ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDesc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&m.formAmount).
				Validate(func(s string) error {
					amt, err := money.Parse(s)
					if err != nil {
						return err
					}

					if !amt.IsPositive() {
						return errors.New("amount must be positive")
					}

					return nil
				}),

			huh.NewInput().
				Key("receipt").
				Title("Receipt URL").
				Description("An uploaded receipt's storage URL").
				Placeholder("optional").
				Value(&m.formReceipt),
		),
	).WithWidth(45).WithShowHelp(false)

	m.tables[m.tab].Blur()

	return m, m.form.Init()
}

func (m LedgerModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		m.tables[m.tab].Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveExpenseCmd()
}

func (m LedgerModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading ledger...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	c := m.campaign

	summary := fmt.Sprintf(
		"%s  (%s)\nGoal %s | Donated %s | Unallocated %s",
		lipgloss.NewStyle().Bold(true).Render(c.Title),
		c.OrganizerID,
		FormatAmount(c.GoalAmount),
		FormatAmount(c.TotalDonated),
		FormatAmount(c.UnallocatedAmount),
	)

	tabs := make([]string, 0, tabCount)
	for t := range tabCount {
		label := t.String()
		if t == m.tab {
			label = activeStyle("[" + label + "]")
		}

		tabs = append(tabs, label)
	}

	header := strings.Join(tabs, "  ") + fmt.Sprintf("    [t] %s", activeStyle(m.timeframe.String()))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(summary),
		header,
		framed(m.tables[m.tab].View()),
	)

	if m.form != nil {
		panel := panelStyle.Width(48).Render("New Expense\n\n" + m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.reconcileNote != "" {
		content += "\n\n" + m.reconcileNote
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + faintStyle.Render(m.ShortHelp()))
}

func (m *LedgerModel) refreshTables() {
	now := m.now()

	donations := make([]table.Row, 0, len(m.donations))
	for _, d := range m.donations {
		if !m.timeframe.Contains(d.Timestamp, now) {
			continue
		}

		donor := "anonymous"
		if d.DonorID != nil {
			donor = *d.DonorID
		}

		donations = append(donations, table.Row{
			ShortID(d.ExternalID),
			FormatDate(d.Timestamp),
			string(d.Status),
			FormatAmount(d.Amount),
			FormatAmount(d.Allocated),
			FormatAmount(d.Remaining()),
			donor,
		})
	}

	expenses := make([]table.Row, 0, len(m.expenses))
	for _, e := range m.expenses {
		if !m.timeframe.Contains(e.Timestamp, now) {
			continue
		}

		expenses = append(expenses, table.Row{
			ShortID(e.ExternalID),
			FormatDate(e.Timestamp),
			e.Description,
			FormatAmount(e.Amount),
			FormatAmount(e.Allocated),
			FormatAmount(e.Need()),
			yesNo(e.ReceiptURL != ""),
		})
	}

	lines := make([]table.Row, 0, len(m.lines))
	for _, l := range m.lines {
		if !m.timeframe.Contains(l.AllocatedAt, now) {
			continue
		}

		desc := l.ExpenseDesc
		if l.ExpenseDeleted {
			desc += " (deleted)"
		}

		lines = append(lines, table.Row{
			FormatDate(l.AllocatedAt),
			FormatAmount(l.Amount),
			ShortID(l.DonationID),
			orDash(l.PlacementName),
			desc,
		})
	}

	m.tables[tabDonations].SetRows(donations)
	m.tables[tabExpenses].SetRows(expenses)
	m.tables[tabAllocations].SetRows(lines)
}

func describeReconcile(r *ledger.ReconcileReport) string {
	t := r.Totals

	body := fmt.Sprintf(
		"Ledger: donated %s, allocated %s, withdrawn %s, unallocated %s\nCached: donated %s, unallocated %s",
		t.Donated, t.Allocated, t.Withdrawn, t.Unallocated(),
		r.CachedDonated, r.CachedUnallocated,
	)

	switch {
	case !r.Drift:
		return successStyle.Render("Balances match the ledger.") + "\n" + body
	case r.Repaired:
		return successStyle.Render("Drift found and repaired.") + "\n" + body
	default:
		return errorStyle.Render("Drift found. Press R to repair.") + "\n" + body
	}
}

// Messages

type loadLedgerMsg struct {
	campaign  *ledger.Campaign
	donations []*ledger.Donation
	expenses  []*ledger.Expense
	lines     []report.Line
	err       error
}

func (m LedgerModel) loadCmd() tea.Cmd {
	extID := m.campaign.ExternalID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.svc.Campaigns.Get(ctx, extID)
		if err != nil {
			return loadLedgerMsg{err: err}
		}

		donations, err := m.svc.Donations.List(ctx, donation.ListFilter{CampaignID: &c.ID})
		if err != nil {
			return loadLedgerMsg{err: err}
		}

		expenses, err := m.svc.Expenses.List(ctx, c.ID)
		if err != nil {
			return loadLedgerMsg{err: err}
		}

		lines, err := m.svc.Reports.History(ctx, ledger.AllocationFilter{CampaignID: &c.ID})
		if err != nil {
			return loadLedgerMsg{err: err}
		}

		return loadLedgerMsg{campaign: c, donations: donations, expenses: expenses, lines: lines}
	}
}

type expenseSavedMsg struct {
	expense *ledger.Expense
	err     error
}

func (m LedgerModel) saveExpenseCmd() tea.Cmd {
	c := m.campaign
	desc := m.formDesc
	receipt := strings.TrimSpace(m.formReceipt)

	amount, err := money.Parse(m.formAmount)
	if err != nil {
		return func() tea.Msg { return expenseSavedMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		// Operators record expenses on the organizer's behalf.
		e, _, err := m.svc.Expenses.Create(ctx, expense.CreateParams{
			CampaignID:  c.ExternalID,
			CreatedBy:   c.OrganizerID,
			Description: desc,
			Amount:      amount,
			ReceiptURL:  receipt,
		})

		return expenseSavedMsg{expense: e, err: err}
	}
}

type reconcileMsg struct {
	report *ledger.ReconcileReport
	err    error
}

func (m LedgerModel) reconcileCmd(repair bool) tea.Cmd {
	id := m.campaign.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		r, err := m.svc.Engine.Reconcile(ctx, id, repair)

		return reconcileMsg{report: r, err: err}
	}
}
