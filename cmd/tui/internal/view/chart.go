package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/chart"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

type ChartModel struct {
	CommonModel
	chartService *chart.Service
	portfolioID  uuid.UUID
	currency     string

	rangeIdx int
	chart    *chart.Chart
	table    table.Model

	loading bool
	err     error
}

func NewChartModel(svc *chart.Service, portfolioID uuid.UUID, currency string) ChartModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Invested", Width: 18},
			{Title: "Withdrawn", Width: 18},
			{Title: "Value", Width: 18},
			{Title: "Equity", Width: 18},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	return ChartModel{
		chartService: svc,
		portfolioID:  portfolioID,
		currency:     currency,
		rangeIdx:     len(chart.Ranges) - 1,
		table:        t,
		loading:      true,
	}
}

func (m ChartModel) Title() string { return "Portfolio Chart" }

func (m ChartModel) ShortHelp() string { return "Esc: back | r: range" }

func (m ChartModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ChartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case chartLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.chart = msg.chart
		m.refreshTable()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.rangeIdx = (m.rangeIdx + 1) % len(chart.Ranges)
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ChartModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading chart...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	c := m.chart
	header := fmt.Sprintf("%s  Range: [r] %s", lipgloss.NewStyle().Bold(true).Render(c.PortfolioName),
		activeStyle(string(chart.Ranges[m.rangeIdx])))

	if !c.HasData {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + c.Message)
	}

	equity := make([]decimal.Decimal, len(c.Data))
	for i, p := range c.Data {
		equity[i] = p.TotalEquity
	}

	var summary string
	if s := c.Summary; s != nil {
		summary = fmt.Sprintf("As of %s  Value %s  Equity %s  Profit %s",
			s.Date,
			FormatAmount(s.CurrentNAV, m.currency),
			FormatAmount(s.TotalEquity, m.currency),
			FormatAmount(s.Profit, m.currency))
	}

	if c.Message != "" {
		summary += "\n" + errorStyle.Render(c.Message)
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		summary,
		"",
		activeStyle(Sparkline(equity)),
		"",
		m.table.View(),
	))
}

// Sparkline draws values as a single line of block characters.
func Sparkline(values []decimal.Decimal) string {
	if len(values) == 0 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = decimal.Min(lo, v)
		hi = decimal.Max(hi, v)
	}

	spread := hi.Sub(lo)
	top := decimal.NewFromInt(int64(len(sparkBlocks) - 1))

	var sb strings.Builder

	for _, v := range values {
		idx := 0
		if spread.IsPositive() {
			idx = int(v.Sub(lo).Div(spread).Mul(top).Round(0).IntPart())
		}

		sb.WriteRune(sparkBlocks[idx])
	}

	return sb.String()
}

func (m *ChartModel) refreshTable() {
	if m.chart == nil {
		m.table.SetRows(nil)
		return
	}

	rows := make([]table.Row, 0, len(m.chart.Data))

	// newest first
	for i := len(m.chart.Data) - 1; i >= 0; i-- {
		p := m.chart.Data[i]
		rows = append(rows, table.Row{
			FormatDate(p.Date),
			FormatAmount(p.TotalInvested, m.currency),
			FormatAmount(p.TotalWithdrawn, m.currency),
			FormatAmount(p.CurrentNAV, m.currency),
			FormatAmount(p.TotalEquity, m.currency),
		})
	}

	m.table.SetRows(rows)
}

type chartLoadedMsg struct {
	chart *chart.Chart
	err   error
}

func (m ChartModel) loadCmd() tea.Cmd {
	r := chart.Ranges[m.rangeIdx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.chartService.Get(ctx, m.portfolioID, r)

		return chartLoadedMsg{chart: c, err: err}
	}
}
