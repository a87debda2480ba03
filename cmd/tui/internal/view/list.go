package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/stash/internal/cash"
	"github.com/MrJamesThe3rd/stash/internal/chart"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

type listState int

const (
	listStateOwner listState = iota
	listStateBrowse
	listStateAdd
)

var typeFilters = []transaction.Type{
	"",
	transaction.TypeDeposit,
	transaction.TypeWithdraw,
	transaction.TypeTransfer,
	transaction.TypeBuy,
	transaction.TypeSell,
	transaction.TypeFee,
}

// ListModel browses and records the ledger of one portfolio or cash account.
type ListModel struct {
	CommonModel
	txService *transaction.Service

	state  listState
	picker OwnerPicker
	owner  Owner

	table table.Model
	txs   []*transaction.Transaction
	form  *huh.Form

	typeFilterIdx int
	rangeIdx      int

	filter  transaction.ListFilter
	loading bool
	err     error
	status  string

	fields *txFields
}

// txFields is shared by model copies so the form's bindings stay valid.
type txFields struct {
	typ      transaction.Type
	date     string
	amount   string
	ticker   string
	quantity string
	gold     transaction.GoldType
	chi      string
	note     string
}

func NewListModel(txSvc *transaction.Service, portfolioSvc *portfolio.Service, cashSvc *cash.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 10},
		{Title: "Amount", Width: 18},
		{Title: "Ticker", Width: 8},
		{Title: "Qty", Width: 10},
		{Title: "Note", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
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

	return ListModel{
		txService: txSvc,
		picker:    NewOwnerPicker(portfolioSvc, cashSvc, true),
		table:     t,
		rangeIdx:  len(chart.Ranges) - 1,
	}
}

func (m ListModel) Title() string { return "Ledger" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateOwner:
		return "Esc: back | Enter: select"
	case listStateAdd:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | t: type filter | d: date filter | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OwnerSelectedMsg:
		m.owner = msg.Owner
		m.state = listStateBrowse
		m.applyFilter()
		m.loading = true

		return m, m.loadTxsCmd()

	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.txs = msg.txs
		m.refreshTable()

		return m, nil

	case listSaveMsg:
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = "Saved."

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateOwner:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateAdd:
		return m.updateAdd(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.state = listStateOwner
			m.err = nil
			m.status = ""

			return m, m.picker.Init()
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "a":
			return m.enterAddMode()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(typeFilters)
			m.applyFilter()

			return m, m.loadTxsCmd()
		case "d":
			m.rangeIdx = (m.rangeIdx + 1) % len(chart.Ranges)
			m.applyFilter()

			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.fields = &txFields{typ: transaction.TypeDeposit, date: FormatDate(time.Now())}
	m.form = buildAddForm(m.fields)
	m.state = listStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func buildAddForm(f *txFields) *huh.Form {
	typeOptions := make([]huh.Option[transaction.Type], 0, len(typeFilters)-1)
	for _, t := range typeFilters[1:] {
		typeOptions = append(typeOptions, huh.NewOption(string(t), t))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[transaction.Type]().
				Title("Type").
				Options(typeOptions...).
				Value(&f.typ),

			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(func(s string) error {
					_, err := time.Parse(time.DateOnly, s)
					return err
				}),

			huh.NewInput().
				Title("Amount").
				Description("Sign is applied from the type").
				Value(&f.amount).
				Validate(requiredDecimal),

			huh.NewInput().
				Title("Note").
				Value(&f.note),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Ticker").
				Value(&f.ticker),

			huh.NewInput().
				Title("Quantity").
				Value(&f.quantity).
				Validate(optionalDecimal),

			huh.NewSelect[transaction.GoldType]().
				Title("Gold type").
				Options(
					huh.NewOption("none", transaction.GoldType("")),
					huh.NewOption("branded", transaction.GoldBranded),
					huh.NewOption("private", transaction.GoldPrivate),
				).
				Value(&f.gold),

			huh.NewInput().
				Title("Quantity (chỉ)").
				Value(&f.chi).
				Validate(optionalDecimal),
		).Title("Optional"),
	).WithWidth(45).WithShowHelp(false)
}

func requiredDecimal(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("amount is required")
	}

	_, err := decimal.NewFromString(strings.TrimSpace(s))

	return err
}

func optionalDecimal(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	_, err := decimal.NewFromString(strings.TrimSpace(s))

	return err
}

func nullDecimal(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(d)
}

func (m ListModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()

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

	return m, m.saveCmd()
}

func (m ListModel) View() string {
	if m.state == listStateOwner {
		return lipgloss.NewStyle().Padding(2).Render(m.picker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	typeLabel := "All"
	if t := typeFilters[m.typeFilterIdx]; t != "" {
		typeLabel = string(t)
	}

	header := fmt.Sprintf(
		"%s (%s)  Filter: [t] Type: %s | [d] Date: %s",
		lipgloss.NewStyle().Bold(true).Render(m.owner.Name),
		m.owner.Kind,
		activeStyle(typeLabel),
		activeStyle(string(chart.Ranges[m.rangeIdx])),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateAdd && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Add Transaction\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ListModel) applyFilter() {
	m.filter = transaction.ListFilter{
		PortfolioID:   m.owner.Endpoint.PortfolioID,
		CashAccountID: m.owner.Endpoint.CashAccountID,
	}

	if t := typeFilters[m.typeFilterIdx]; t != "" {
		m.filter.Type = new(t)
	}

	if cutoff, ok := chart.Ranges[m.rangeIdx].Cutoff(time.Now()); ok {
		m.filter.StartDate = &cutoff
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))

	for _, tx := range m.txs {
		qty := ""
		switch {
		case tx.Quantity.Valid:
			qty = tx.Quantity.Decimal.String()
		case tx.QuantityChi.Valid:
			qty = tx.QuantityChi.Decimal.String() + " chỉ"
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			FormatAmount(tx.Amount, m.owner.Currency),
			tx.Ticker,
			qty,
			tx.Note,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, filter)

		return loadListMsg{txs: txs, err: err}
	}
}

type listSaveMsg struct {
	err error
}

func (m ListModel) saveCmd() tea.Cmd {
	f := m.fields

	date, err := time.Parse(time.DateOnly, f.date)
	if err != nil {
		return func() tea.Msg { return listSaveMsg{err: err} }
	}

	params := transaction.CreateParams{
		PortfolioID:   m.owner.Endpoint.PortfolioID,
		CashAccountID: m.owner.Endpoint.CashAccountID,
		Type:          f.typ,
		Amount:        nullDecimal(f.amount).Decimal,
		Date:          date,
		Ticker:        strings.ToUpper(strings.TrimSpace(f.ticker)),
		Quantity:      nullDecimal(f.quantity),
		GoldType:      f.gold,
		QuantityChi:   nullDecimal(f.chi),
		Note:          strings.TrimSpace(f.note),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.Create(ctx, params)

		return listSaveMsg{err: err}
	}
}
