package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/stash/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/stash/internal/analytics"
	"github.com/MrJamesThe3rd/stash/internal/asset"
	assetStore "github.com/MrJamesThe3rd/stash/internal/asset/store"
	"github.com/MrJamesThe3rd/stash/internal/cash"
	cashStore "github.com/MrJamesThe3rd/stash/internal/cash/store"
	"github.com/MrJamesThe3rd/stash/internal/chart"
	"github.com/MrJamesThe3rd/stash/internal/config"
	"github.com/MrJamesThe3rd/stash/internal/database"
	"github.com/MrJamesThe3rd/stash/internal/export"
	"github.com/MrJamesThe3rd/stash/internal/importer"
	"github.com/MrJamesThe3rd/stash/internal/performance"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	portfolioStore "github.com/MrJamesThe3rd/stash/internal/portfolio/store"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
	txStore "github.com/MrJamesThe3rd/stash/internal/transaction/store"
)

type model struct {
	cfg *config.Config

	assetService       *asset.Service
	portfolioService   *portfolio.Service
	cashService        *cash.Service
	txService          *transaction.Service
	importService      *importer.Service
	performanceService *performance.Service
	chartService       *chart.Service
	exportService      *export.Service
	analyticsService   *analytics.Service

	currentView View

	dashboardView view.DashboardModel
	chartView     view.ChartModel
	listView      view.ListModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewChart     View = 2
	ViewList      View = 3
	ViewImport    View = 4
	ViewExport    View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	assetSvc := asset.NewService(assetStore.New(db))
	portfolioSvc := portfolio.NewService(portfolioStore.New(db))
	txSvc := transaction.NewService(txStore.New(db))
	cashSvc := cash.NewService(cashStore.New(db), txSvc)
	perfSvc := performance.NewService(portfolioSvc, txSvc, cfg.Performance.XIRRGuess)

	return model{
		cfg:                cfg,
		assetService:       assetSvc,
		portfolioService:   portfolioSvc,
		cashService:        cashSvc,
		txService:          txSvc,
		importService:      importer.NewService(),
		performanceService: perfSvc,
		chartService:       chart.NewService(perfSvc),
		exportService:      export.NewService(perfSvc, cfg.Performance.XIRRGuess),
		analyticsService: analytics.NewService(
			portfolioSvc, perfSvc, cashSvc, cfg.Performance.AnalyticsConcurrency),
		currentView: ViewMenu,
	}
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
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(
					m.analyticsService, m.portfolioService, m.performanceService, m.assetService)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.txService, m.portfolioService, m.cashService)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.txService, m.importService, m.portfolioService, m.cashService)

				return m, m.importView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService, m.portfolioService, m.cfg.Export.Dir)

				return m, m.exportView.Init()
			}

			return m, nil
		}
	case view.OpenChartMsg:
		m.currentView = ViewChart
		m.chartView = view.NewChartModel(m.chartService, msg.PortfolioID, msg.Currency)

		return m, m.chartView.Init()
	case view.BackMsg:
		if m.currentView == ViewChart {
			m.currentView = ViewDashboard
			return m, nil
		}

		m.currentView = ViewMenu

		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewChart:
		var newModel tea.Model
		newModel, cmd = m.chartView.Update(msg)
		m.chartView = newModel.(view.ChartModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Stash\n\n" +
				"1. Dashboard\n" +
				"2. Ledger\n" +
				"3. Import Ledger CSV\n" +
				"4. Export Portfolio\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewChart:
		return m.chartView.View()
	case ViewList:
		return m.listView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
