package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/stash/internal/cash"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
	"github.com/MrJamesThe3rd/stash/internal/transaction"
)

// Owner is a portfolio or cash account the user picked.
type Owner struct {
	Endpoint transaction.Endpoint
	Name     string
	Kind     string
	Currency string
}

// OwnerSelectedMsg is emitted when the user confirms an owner.
type OwnerSelectedMsg struct {
	Owner Owner
}

type ownersLoadedMsg struct {
	owners []Owner
	err    error
}

// OwnerPicker lists portfolios and, optionally, cash accounts.
type OwnerPicker struct {
	portfolioService *portfolio.Service
	cashService      *cash.Service
	withCash         bool

	owners []Owner
	cursor int
	err    error
}

func NewOwnerPicker(portfolioSvc *portfolio.Service, cashSvc *cash.Service, withCash bool) OwnerPicker {
	return OwnerPicker{
		portfolioService: portfolioSvc,
		cashService:      cashSvc,
		withCash:         withCash,
	}
}

func (m OwnerPicker) Init() tea.Cmd {
	return m.loadCmd()
}

func (m OwnerPicker) Update(msg tea.Msg) (OwnerPicker, tea.Cmd) {
	switch msg := msg.(type) {
	case ownersLoadedMsg:
		m.owners = msg.owners
		m.err = msg.err
		m.cursor = 0

		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyDown:
			if m.cursor < len(m.owners)-1 {
				m.cursor++
			}
		case tea.KeyEnter:
			if len(m.owners) == 0 {
				return m, nil
			}

			owner := m.owners[m.cursor]

			return m, func() tea.Msg { return OwnerSelectedMsg{Owner: owner} }
		}
	}

	return m, nil
}

func (m OwnerPicker) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	if len(m.owners) == 0 {
		return "Nothing to select yet. Create a portfolio or cash account first."
	}

	var sb strings.Builder

	sb.WriteString("Select account:\n\n")

	for i, o := range m.owners {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		fmt.Fprintf(&sb, "%s %-30s %s\n", cursor, o.Name, o.Kind)
	}

	return sb.String()
}

func (m OwnerPicker) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		portfolios, err := m.portfolioService.List(ctx)
		if err != nil {
			return ownersLoadedMsg{err: err}
		}

		owners := make([]Owner, 0, len(portfolios))
		for _, p := range portfolios {
			owners = append(owners, Owner{
				Endpoint: transaction.Endpoint{PortfolioID: new(p.ID)},
				Name:     p.Name,
				Kind:     p.AssetName,
				Currency: p.Currency,
			})
		}

		if !m.withCash {
			return ownersLoadedMsg{owners: owners}
		}

		accounts, err := m.cashService.List(ctx)
		if err != nil {
			return ownersLoadedMsg{err: err}
		}

		for _, a := range accounts {
			owners = append(owners, Owner{
				Endpoint: transaction.Endpoint{CashAccountID: new(a.ID)},
				Name:     a.Name,
				Kind:     "cash",
				Currency: a.Currency,
			})
		}

		return ownersLoadedMsg{owners: owners}
	}
}
