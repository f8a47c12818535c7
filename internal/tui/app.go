package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jask/marsestate/internal/config"
	"github.com/jask/marsestate/internal/listing"
	"github.com/jask/marsestate/internal/live"
	"github.com/jask/marsestate/internal/overview"
)

// App is the bubbletea model for the overview and detail screens.
type App struct {
	ctrl   *overview.Controller
	bridge *Bridge
	log    zerolog.Logger
	keys   keyMap

	state     appState
	status    listing.LoadStatus
	hasStatus bool
	items     []listing.Listing
	detail    listing.Listing
	table     table.Model
	currency  string
	searching bool
	query     string
	notice    string
	width     int

	unsubscribe []func()
}

type appState string

const (
	viewOverview appState = "overview"
	viewDetail   appState = "detail"
)

// New subscribes the app to ctrl. The controller must dispatch through bridge so
// observer callbacks run inside Update.
func New(ctrl *overview.Controller, bridge *Bridge, cfg config.Config, log zerolog.Logger) *App {
	a := &App{
		ctrl:     ctrl,
		bridge:   bridge,
		log:      log,
		keys:     newKeyMap(),
		state:    viewOverview,
		currency: cfg.UI.CurrencySymbol,
		table: table.New(
			table.WithColumns(columns(0)),
			table.WithFocused(true),
			table.WithHeight(12),
			table.WithWidth(60),
		),
	}
	a.unsubscribe = append(a.unsubscribe,
		ctrl.Status().Observe(a.onStatus),
		ctrl.Items().Observe(a.onItems),
		ctrl.Selected().Observe(a.onSelected),
	)
	return a
}

// Close detaches the app's observers.
func (a *App) Close() {
	for _, fn := range a.unsubscribe {
		fn()
	}
	a.unsubscribe = nil
}

func (a *App) Init() tea.Cmd {
	return a.bridge.Listen()
}

func (a *App) onStatus(s listing.LoadStatus) {
	a.status, a.hasStatus = s, true
	if s == listing.StatusError {
		a.log.Debug().AnErr("cause", a.ctrl.LastError()).Msg("showing error state")
	}
}

func (a *App) onItems(items []listing.Listing) {
	a.items = items
	rows := make([]table.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, table.Row{it.ID, it.DisplayType(), it.DisplayPrice(a.currency)})
	}
	a.table.SetRows(rows)
	if a.table.Cursor() >= len(rows) || a.table.Cursor() < 0 {
		a.table.SetCursor(0)
	}
}

// onSelected is the navigation consumer: it acts on an event once, then tells
// the controller the navigation is complete.
func (a *App) onSelected(ev *live.Event[listing.Listing]) {
	l, ok := ev.Take()
	if !ok {
		return
	}
	a.detail = l
	a.state = viewDetail
	a.ctrl.CompleteSelection()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case dispatchMsg:
		for _, fn := range m {
			fn()
		}
		return a, a.bridge.Listen()
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.table.SetColumns(columns(m.Width))
		a.table.SetWidth(m.Width)
		if h := m.Height - 8; h > 3 {
			a.table.SetHeight(h)
		}
	case tea.KeyMsg:
		if a.searching {
			return a.handleSearchKey(m)
		}
		if a.state == viewDetail {
			return a.handleDetailKey(m)
		}
		return a.handleOverviewKey(m)
	}
	return a, nil
}

func (a *App) handleOverviewKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.notice = ""
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.All):
		a.ctrl.UpdateFilter(listing.ShowAll)
	case key.Matches(m, a.keys.Rent):
		a.ctrl.UpdateFilter(listing.ShowRent)
	case key.Matches(m, a.keys.Buy):
		a.ctrl.UpdateFilter(listing.ShowBuy)
	case key.Matches(m, a.keys.Reload):
		a.ctrl.Reload()
	case key.Matches(m, a.keys.Search):
		if len(a.items) > 0 {
			a.searching = true
			a.query = ""
		}
	case key.Matches(m, a.keys.Select):
		if i := a.table.Cursor(); i >= 0 && i < len(a.items) {
			a.ctrl.SelectListing(a.items[i])
		}
	default:
		var cmd tea.Cmd
		a.table, cmd = a.table.Update(m)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleDetailKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Back):
		a.state = viewOverview
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.searching = false
		a.query = ""
	case tea.KeyEnter:
		a.searching = false
		if i, ok := listing.Closest(a.items, a.query); ok {
			a.table.SetCursor(i)
		} else {
			a.notice = "no listing matches " + a.query
		}
		a.query = ""
	case tea.KeyBackspace:
		if len(a.query) > 0 {
			a.query = a.query[:len(a.query)-1]
		}
	case tea.KeyRunes:
		a.query += string(m.Runes)
	case tea.KeyCtrlC:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) View() string {
	if a.state == viewDetail {
		return a.renderDetail()
	}
	return a.renderOverview()
}

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	tabStyle    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeStyle = tabStyle.Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 2)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (a *App) renderOverview() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Mars Real Estate"))
	b.WriteString("\n")
	b.WriteString(a.renderFilters())
	b.WriteString("\n\n")

	switch {
	case !a.hasStatus || a.status == listing.StatusLoading:
		b.WriteString(statusStyle.Render("Loading listings..."))
	case a.status == listing.StatusError:
		b.WriteString(errorStyle.Render("Could not load listings."))
		b.WriteString(statusStyle.Render("  Press R to try again."))
	case len(a.items) == 0:
		b.WriteString(statusStyle.Render("No listings match this filter."))
	default:
		b.WriteString(a.table.View())
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(fmt.Sprintf("%d listings", len(a.items))))
	}

	b.WriteString("\n")
	switch {
	case a.searching:
		b.WriteString("find id: " + a.query + "_")
	case a.notice != "":
		b.WriteString(statusStyle.Render(a.notice))
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(helpLine(a.keys.ShortHelp())))
	return b.String()
}

func (a *App) renderFilters() string {
	current := a.ctrl.Filter()
	tabs := []struct {
		f     listing.Filter
		label string
	}{
		{listing.ShowAll, "All"},
		{listing.ShowRent, "Rent"},
		{listing.ShowBuy, "Buy"},
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.f == current {
			parts = append(parts, activeStyle.Render(t.label))
		} else {
			parts = append(parts, tabStyle.Render(t.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) renderDetail() string {
	l := a.detail
	lines := []string{
		titleStyle.Render("Listing " + l.ID),
		"",
		l.DisplayType(),
		l.DisplayPrice(a.currency),
		"",
		"Image: " + l.ImgSrc,
	}
	if strings.TrimSpace(l.Description) != "" {
		lines = append(lines, "", l.Description)
	}
	card := cardStyle.Render(strings.Join(lines, "\n"))
	return card + "\n" + footerStyle.Render(helpLine(a.keys.DetailHelp()))
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	return strings.Join(parts, "  ")
}

func columns(width int) []table.Column {
	idW, typeW := 10, 10
	priceW := 18
	if extra := width - idW - typeW - priceW - 8; extra > 0 {
		priceW += extra / 2
	}
	return []table.Column{
		{Title: "ID", Width: idW},
		{Title: "Type", Width: typeW},
		{Title: "Price", Width: priceW},
	}
}
