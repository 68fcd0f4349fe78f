package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fundly/internal/campaign"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/withdrawal"
)

type decision string

const (
	decisionApprove decision = "approve"
	decisionReject  decision = "reject"
	decisionSkip    decision = "skip"
)

// WithdrawalsModel walks the pending withdrawal requests one at a time,
// oldest first.
type WithdrawalsModel struct {
	CommonModel
	svc       *withdrawal.Service
	campaigns *campaign.Service
	reviewer  string

	queue    []*withdrawal.Request
	current  *withdrawal.Request
	campaign *ledger.Campaign
	reviewed int

	form         *huh.Form
	formDecision decision
	formNote     string

	loading bool
	err     error
	status  string
}

func NewWithdrawalsModel(svc *withdrawal.Service, campaigns *campaign.Service, reviewer string) WithdrawalsModel {
	return WithdrawalsModel{
		svc:       svc,
		campaigns: campaigns,
		reviewer:  reviewer,
		loading:   true,
	}
}

func (m WithdrawalsModel) Title() string { return "Review Withdrawals" }

func (m WithdrawalsModel) ShortHelp() string {
	return "Esc: back | Enter/Tab: navigate form"
}

func (m WithdrawalsModel) Init() tea.Cmd {
	return m.loadQueueCmd()
}

func (m WithdrawalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadQueueMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.queue = msg.queue

		return m.next()

	case loadRequestCampaignMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading campaign: %v", msg.err)
		}

		m.campaign = msg.campaign

		return m, nil

	case reviewResultMsg:
		if msg.err != nil {
			// Leave the request in place so the operator can try again.
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m.openForm()
		}

		m.reviewed++
		m.status = fmt.Sprintf("%s %s withdrawal of %s", titleCase(string(msg.request.Status)), ShortID(msg.request.ExternalID), msg.request.Amount)

		return m.next()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.formDecision == decisionSkip {
		m.status = fmt.Sprintf("Skipped %s", ShortID(m.current.ExternalID))
		return m.next()
	}

	return m, m.reviewCmd(m.current, m.formDecision, m.formNote)
}

// next pops the following request off the queue and opens the review form.
func (m WithdrawalsModel) next() (tea.Model, tea.Cmd) {
	m.form = nil
	m.campaign = nil

	if len(m.queue) == 0 {
		m.current = nil
		return m, nil
	}

	m.current = m.queue[0]
	m.queue = m.queue[1:]

	mm, formCmd := m.openForm()

	return mm, tea.Batch(formCmd, m.loadCampaignCmd(m.current.CampaignID))
}

func (m WithdrawalsModel) openForm() (tea.Model, tea.Cmd) {
	m.formDecision = decisionApprove
	m.formNote = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[decision]().
				Title("Decision").
				Options(
					huh.NewOption("Approve", decisionApprove),
					huh.NewOption("Reject", decisionReject),
					huh.NewOption("Skip for now", decisionSkip),
				).
				Value(&m.formDecision),

			huh.NewText().
				Title("Note").
				Placeholder("Shown to the organizer").
				CharLimit(500).
				Value(&m.formNote),
		),
	).WithWidth(50).WithShowHelp(false)

	return m, m.form.Init()
}

func (m WithdrawalsModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.loading {
		return style.Render("Loading pending withdrawals...")
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	status := ""
	if m.status != "" {
		status = faintStyle.Render(m.status) + "\n\n"
	}

	if m.current == nil {
		return style.Render(status + successStyle.Render(fmt.Sprintf("No pending withdrawals. Reviewed %d.", m.reviewed)) + "\n\n(Esc to go back)")
	}

	r := m.current

	title, balance := "loading...", ""
	if m.campaign != nil {
		title = m.campaign.Title
		balance = FormatAmount(m.campaign.UnallocatedAmount)
	}

	details := fmt.Sprintf(
		"Request:      %s\nCampaign:     %s\nUnallocated:  %s\nAmount:       %s\nRequested by: %s on %s\nReason:       %s",
		ShortID(r.ExternalID),
		title,
		orDash(balance),
		activeStyle(FormatAmount(r.Amount)),
		r.RequestedBy,
		FormatDate(r.CreatedAt),
		orDash(r.Reason),
	)

	if m.campaign != nil && m.campaign.UnallocatedAmount.LessThan(r.Amount) {
		details += "\n\n" + errorStyle.Render("Amount exceeds the unallocated balance; approval will fail.")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Width(60).Render(details),
		"  ",
		m.form.View(),
	)

	header := fmt.Sprintf("Pending: %d remaining after this one\n\n", len(m.queue))

	return style.Render(status + header + body)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

// Messages

type loadQueueMsg struct {
	queue []*withdrawal.Request
	err   error
}

func (m WithdrawalsModel) loadQueueCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		queue, err := m.svc.ListPending(ctx)

		return loadQueueMsg{queue: queue, err: err}
	}
}

type loadRequestCampaignMsg struct {
	campaign *ledger.Campaign
	err      error
}

func (m WithdrawalsModel) loadCampaignCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.campaigns.GetByID(ctx, id)

		return loadRequestCampaignMsg{campaign: c, err: err}
	}
}

type reviewResultMsg struct {
	request *withdrawal.Request
	err     error
}

func (m WithdrawalsModel) reviewCmd(r *withdrawal.Request, d decision, note string) tea.Cmd {
	review := m.svc.Approve
	if d == decisionReject {
		review = m.svc.Reject
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := review(ctx, r.ExternalID, m.reviewer, strings.TrimSpace(note))

		return reviewResultMsg{request: updated, err: err}
	}
}
