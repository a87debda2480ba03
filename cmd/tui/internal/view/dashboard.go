package view

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/stash/internal/analytics"
	"github.com/MrJamesThe3rd/stash/internal/asset"
	"github.com/MrJamesThe3rd/stash/internal/currency"
	"github.com/MrJamesThe3rd/stash/internal/performance"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
)

// OpenChartMsg asks the app to show the chart of a portfolio.
type OpenChartMsg struct {
	PortfolioID uuid.UUID
	Currency    string
}

type dashboardRow struct {
	portfolio *portfolio.Portfolio
	summary   *performance.Summary
	err       error
}

type DashboardModel struct {
	CommonModel
	analyticsService   *analytics.Service
	portfolioService   *portfolio.Service
	performanceService *performance.Service
	assetService       *asset.Service

	table     table.Model
	filters   []string
	filterIdx int

	summary *analytics.Summary
	rows    []dashboardRow

	loading bool
	err     error
}

func NewDashboardModel(
	analyticsSvc *analytics.Service,
	portfolioSvc *portfolio.Service,
	performanceSvc *performance.Service,
	assetSvc *asset.Service,
) DashboardModel {
	columns := []table.Column{
		{Title: "Portfolio", Width: 24},
		{Title: "Asset", Width: 12},
		{Title: "Invested", Width: 18},
		{Title: "Value", Width: 18},
		{Title: "Profit", Width: 10},
		{Title: "XIRR", Width: 10},
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

	return DashboardModel{
		analyticsService:   analyticsSvc,
		portfolioService:   portfolioSvc,
		performanceService: performanceSvc,
		assetService:       assetSvc,
		table:              t,
		filters:            []string{analytics.FilterAll, analytics.FilterCash},
		loading:            true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: back | f: filter | Enter: chart | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.loadFiltersCmd(), m.loadCmd())
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardFiltersMsg:
		m.filters = append([]string{analytics.FilterAll, analytics.FilterCash}, msg.assets...)
		return m, nil

	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.summary = msg.summary
		m.rows = msg.rows
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 16)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "f":
			m.filterIdx = (m.filterIdx + 1) % len(m.filters)
			m.loading = true

			return m, m.loadCmd()
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.rows) {
				return m, nil
			}

			p := m.rows[idx].portfolio

			return m, func() tea.Msg { return OpenChartMsg{PortfolioID: p.ID, Currency: p.Currency} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DashboardModel) filter() string {
	return m.filters[m.filterIdx]
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Filter: [f] %s", activeStyle(m.filter()))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		m.viewTotals(),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m DashboardModel) viewTotals() string {
	s := m.summary
	if s == nil {
		return ""
	}

	profit := gainStyle
	if s.ProfitLoss.IsNegative() {
		profit = lossStyle
	}

	return lipgloss.NewStyle().PaddingBottom(1).Render(fmt.Sprintf(
		"Net worth:  %s\nInvested:   %s\nProfit:     %s\nAvg XIRR:   %s\nPortfolios: %d  Cash accounts: %d",
		FormatAmount(s.TotalNetWorth, currency.Default),
		FormatAmount(s.TotalInvested, currency.Default),
		profit.Render(fmt.Sprintf("%s (%s%%)",
			FormatAmount(s.ProfitLoss, currency.Default), s.ProfitLossPercentage.StringFixed(2))),
		FormatPercent(&s.AverageXIRR),
		s.PortfolioCount, s.CashAccountCount,
	))
}

func (m *DashboardModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))

	for _, r := range m.rows {
		p := r.portfolio

		if r.err != nil {
			note := "error"
			if errors.Is(r.err, performance.ErrNAVUnavailable) {
				note = "no prices"
			}

			rows = append(rows, table.Row{p.Name, p.AssetName, "", note, "", ""})

			continue
		}

		rows = append(rows, table.Row{
			p.Name,
			p.AssetName,
			FormatAmount(r.summary.TotalInvested, p.Currency),
			FormatAmount(r.summary.CurrentNAV, p.Currency),
			FormatPercent(new(r.summary.ProfitPercentage)),
			FormatPercent(r.summary.XIRR),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type dashboardFiltersMsg struct {
	assets []string
}

type dashboardLoadedMsg struct {
	summary *analytics.Summary
	rows    []dashboardRow
	err     error
}

func (m DashboardModel) loadFiltersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		assets, err := m.assetService.List(ctx)
		if err != nil {
			return dashboardFiltersMsg{}
		}

		names := make([]string, 0, len(assets))
		for _, a := range assets {
			names = append(names, a.Name)
		}

		return dashboardFiltersMsg{assets: names}
	}
}

func (m DashboardModel) loadCmd() tea.Cmd {
	filter := m.filter()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := m.analyticsService.Summary(ctx, filter)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		portfolios, err := m.portfolioService.List(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		var rows []dashboardRow

		for _, p := range portfolios {
			if !analytics.IncludesPortfolio(summary.Filter, p.AssetName) {
				continue
			}

			s, err := m.performanceService.Calculate(ctx, p.ID)
			rows = append(rows, dashboardRow{portfolio: p, summary: s, err: err})
		}

		return dashboardLoadedMsg{summary: summary, rows: rows}
	}
}
