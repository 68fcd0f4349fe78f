package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/fundly/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/fundly/internal/asset"
	"github.com/MrJamesThe3rd/fundly/internal/campaign"
	campaignStore "github.com/MrJamesThe3rd/fundly/internal/campaign/store"
	"github.com/MrJamesThe3rd/fundly/internal/config"
	"github.com/MrJamesThe3rd/fundly/internal/database"
	"github.com/MrJamesThe3rd/fundly/internal/donation"
	donationStore "github.com/MrJamesThe3rd/fundly/internal/donation/store"
	"github.com/MrJamesThe3rd/fundly/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/fundly/internal/expense/store"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/fundly/internal/ledger/store"
	"github.com/MrJamesThe3rd/fundly/internal/report"
	reportStore "github.com/MrJamesThe3rd/fundly/internal/report/store"
	"github.com/MrJamesThe3rd/fundly/internal/settlement"
	"github.com/MrJamesThe3rd/fundly/internal/storage"
	"github.com/MrJamesThe3rd/fundly/internal/withdrawal"
	withdrawalStore "github.com/MrJamesThe3rd/fundly/internal/withdrawal/store"
	"github.com/MrJamesThe3rd/fundly/internal/worker"
)

type model struct {
	ledgerSvc     view.LedgerServices
	withdrawalSvc *withdrawal.Service
	settlementSvc *settlement.Service
	operator      string

	currentView View

	campaignsView   view.CampaignsModel
	ledgerView      view.LedgerModel
	withdrawalsView view.WithdrawalsModel
	settlementView  view.SettlementModel
}

type View int

const (
	ViewMenu        View = 0
	ViewCampaigns   View = 1
	ViewLedger      View = 2
	ViewWithdrawals View = 3
	ViewSettlement  View = 4
)

// services holds what the console needs to close on exit.
type services struct {
	db   *sql.DB
	pool *worker.Pool
}

func (s services) close() {
	if err := s.pool.Stop(context.Background()); err != nil {
		slog.Error("failed to drain worker pool", "error", err)
	}

	_ = s.db.Close()
}

func initialModel() (model, services) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	blobs, err := storage.New(context.Background(), storage.Config{
		Driver:   cfg.Storage.Driver,
		LocalDir: cfg.Storage.LocalDir,
		BaseURL:  cfg.Storage.BaseURL,
		Bucket:   cfg.Storage.Bucket,
		Region:   cfg.Storage.Region,
	})
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}

	// The console never creates placements, so one asset worker is enough.
	pool := worker.NewPool(1, 16)

	var (
		campaigns = campaignStore.New(db)
		engine    = ledger.NewEngine(ledgerStore.New(db, cfg.Ledger.LockTimeout))
		retries   = cfg.Ledger.Retries
		backoff   = cfg.Ledger.Backoff
	)

	campaignSvc := campaign.NewService(campaigns, asset.NewService(campaigns, blobs, pool), cfg.App.PublicBaseURL)
	donationSvc := donation.NewService(donationStore.New(db), engine, donation.WithRetries(retries, backoff))

	ledgerSvc := view.LedgerServices{
		Campaigns: campaignSvc,
		Donations: donationSvc,
		Expenses:  expense.NewService(expenseStore.New(db), engine, blobs, expense.WithRetries(retries, backoff)),
		Reports:   report.NewService(reportStore.New(db)),
		Engine:    engine,
	}

	withdrawalSvc := withdrawal.NewService(withdrawalStore.New(db, cfg.Ledger.LockTimeout), withdrawal.WithRetries(retries))
	settlementSvc := settlement.NewService(donationSvc)

	return model{
		ledgerSvc:     ledgerSvc,
		withdrawalSvc: withdrawalSvc,
		settlementSvc: settlementSvc,
		operator:      cfg.Console.Operator,
		currentView:   ViewMenu,
	}, services{db: db, pool: pool}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCampaigns
				m.campaignsView = view.NewCampaignsModel(m.ledgerSvc.Campaigns)

				return m, m.campaignsView.Init()
			case "2":
				m.currentView = ViewWithdrawals
				m.withdrawalsView = view.NewWithdrawalsModel(m.withdrawalSvc, m.ledgerSvc.Campaigns, m.operator)

				return m, m.withdrawalsView.Init()
			case "3":
				m.currentView = ViewSettlement
				m.settlementView = view.NewSettlementModel(m.settlementSvc)

				return m, m.settlementView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	case view.OpenLedgerMsg:
		m.currentView = ViewLedger
		m.ledgerView = view.NewLedgerModel(m.ledgerSvc, msg.Campaign)

		return m, m.ledgerView.Init()
	case view.CloseLedgerMsg:
		// Balances may have moved while the ledger was open.
		m.currentView = ViewCampaigns
		return m, m.campaignsView.Init()
	}

	switch m.currentView {
	case ViewCampaigns:
		var newModel tea.Model
		newModel, cmd = m.campaignsView.Update(msg)
		m.campaignsView = newModel.(view.CampaignsModel)
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	case ViewWithdrawals:
		var newModel tea.Model
		newModel, cmd = m.withdrawalsView.Update(msg)
		m.withdrawalsView = newModel.(view.WithdrawalsModel)
	case ViewSettlement:
		var newModel tea.Model
		newModel, cmd = m.settlementView.Update(msg)
		m.settlementView = newModel.(view.SettlementModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Fundly Console\n\n" +
				"1. Campaigns and Ledgers\n" +
				"2. Review Withdrawals\n" +
				"3. Import Settlement\n\n" +
				"q. Quit",
		)
	case ViewCampaigns:
		return m.campaignsView.View()
	case ViewLedger:
		return m.ledgerView.View()
	case ViewWithdrawals:
		return m.withdrawalsView.View()
	case ViewSettlement:
		return m.settlementView.View()
	}

	return "Unknown View"
}

func main() {
	m, svc := initialModel()

	p := tea.NewProgram(m)
	_, err := p.Run()

	svc.close()

	if err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
