package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fundly/internal/campaign"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
)

// OpenLedgerMsg asks the program to show the ledger of a campaign.
type OpenLedgerMsg struct {
	Campaign *ledger.Campaign
}

type CampaignsModel struct {
	CommonModel
	svc *campaign.Service

	table     table.Model
	search    textinput.Model
	searching bool
	campaigns []*ledger.Campaign

	// Verified filter cycles through all, verified and unverified.
	verifiedIdx int
	activeOnly  bool

	loading bool
	err     error
	status  string
}

func NewCampaignsModel(svc *campaign.Service) CampaignsModel {
	columns := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Title", Width: 30},
		{Title: "Organizer", Width: 14},
		{Title: "Goal", Width: 12},
		{Title: "Donated", Width: 12},
		{Title: "Unallocated", Width: 12},
		{Title: "Active", Width: 7},
		{Title: "Verified", Width: 9},
	}

	si := textinput.New()
	si.Placeholder = "title or description"
	si.Prompt = "Search: "
	si.Width = 40

	return CampaignsModel{
		svc:     svc,
		table:   newTable(columns, 15),
		search:  si,
		loading: true,
	}
}

func (m CampaignsModel) Title() string { return "Campaigns" }

func (m CampaignsModel) ShortHelp() string {
	if m.searching {
		return "Enter: apply | Esc: cancel"
	}

	return "Esc: back | Enter: ledger | /: search | v: verified filter | a: active only | V: toggle verification | r: refresh"
}

func (m CampaignsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CampaignsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCampaignsMsg:
		m.loading = false
		m.err = msg.err
		m.campaigns = msg.campaigns
		m.refreshTable()

		return m, nil

	case verifyResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("%s is now %s", msg.campaign.Title, verifiedLabel(msg.campaign.Verified))

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	if m.searching {
		return m.updateSearch(msg)
	}

	return m.updateBrowse(msg)
}

func (m CampaignsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.searching = false
			m.search.Blur()
			m.table.Focus()

			return m, nil
		case tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			m.table.Focus()
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m CampaignsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "/":
			m.searching = true
			m.table.Blur()

			return m, m.search.Focus()
		case "v":
			m.verifiedIdx = (m.verifiedIdx + 1) % 3
			return m, m.loadCmd()
		case "a":
			m.activeOnly = !m.activeOnly
			return m, m.loadCmd()
		case "V":
			if c := m.selected(); c != nil {
				return m, m.verifyCmd(c)
			}

			return m, nil
		case "enter":
			if c := m.selected(); c != nil {
				return m, func() tea.Msg { return OpenLedgerMsg{Campaign: c} }
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CampaignsModel) selected() *ledger.Campaign {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.campaigns) {
		return nil
	}

	return m.campaigns[idx]
}

func (m CampaignsModel) filter() campaign.ListFilter {
	f := campaign.ListFilter{
		Search:     m.search.Value(),
		OrderBy:    campaign.OrderStartDate,
		Descending: true,
	}

	switch m.verifiedIdx {
	case 1:
		f.Verified = new(true)
	case 2:
		f.Verified = new(false)
	}

	if m.activeOnly {
		f.IsActive = new(true)
	}

	return f
}

func (m CampaignsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading campaigns...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	verifiedLabels := []string{"All", "Verified", "Unverified"}
	activeLabel := "All"
	if m.activeOnly {
		activeLabel = "Active"
	}

	header := fmt.Sprintf(
		"Filter: [v] %s | [a] %s | [/] %s",
		activeStyle(verifiedLabels[m.verifiedIdx]),
		activeStyle(activeLabel),
		activeStyle(orDash(m.search.Value())),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		framed(m.table.View()),
	)

	if m.searching {
		content = lipgloss.JoinVertical(lipgloss.Left, m.search.View(), "", content)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + faintStyle.Render(m.ShortHelp()))
}

func (m *CampaignsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.campaigns))
	for _, c := range m.campaigns {
		rows = append(rows, table.Row{
			ShortID(c.ExternalID),
			c.Title,
			c.OrganizerID,
			FormatAmount(c.GoalAmount),
			FormatAmount(c.TotalDonated),
			FormatAmount(c.UnallocatedAmount),
			yesNo(c.IsActive),
			yesNo(c.Verified),
		})
	}

	m.table.SetRows(rows)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

func verifiedLabel(b bool) string {
	if b {
		return "verified"
	}

	return "unverified"
}

// Messages

type loadCampaignsMsg struct {
	campaigns []*ledger.Campaign
	err       error
}

func (m CampaignsModel) loadCmd() tea.Cmd {
	filter := m.filter()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cs, err := m.svc.Browse(ctx, filter)

		return loadCampaignsMsg{campaigns: cs, err: err}
	}
}

type verifyResultMsg struct {
	campaign *ledger.Campaign
	err      error
}

func (m CampaignsModel) verifyCmd(c *ledger.Campaign) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := m.svc.Verify(ctx, c.ExternalID, !c.Verified)

		return verifyResultMsg{campaign: updated, err: err}
	}
}
