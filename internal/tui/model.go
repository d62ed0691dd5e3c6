// Package tui is the terminal front-end of the vibedex catalog browser.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vibedex/vibedex/internal/catalog"
)

const (
	minListRows  = 5
	chromeRows   = 16
	listMinWidth = 28
)

// stateChangedMsg is posted whenever the controller commits new state.
type stateChangedMsg struct{}

// flowDoneMsg is returned by a flow command once it has finished.
type flowDoneMsg struct{}

// Notifier forwards controller commits to a running program. Register
// OnChange with catalog.WithOnChange and Attach the program once created.
type Notifier struct {
	program atomic.Pointer[tea.Program]
}

// Attach sets the program that receives change notifications.
func (n *Notifier) Attach(p *tea.Program) {
	n.program.Store(p)
}

// OnChange posts a refresh to the attached program. Commits can happen
// inside Update, so the send must not block the caller.
func (n *Notifier) OnChange(catalog.State) {
	if p := n.program.Load(); p != nil {
		go p.Send(stateChangedMsg{})
	}
}

// Model is the bubbletea model of the catalog browser.
type Model struct {
	ctx       context.Context
	ctl       *catalog.Controller
	keys      KeyMap
	styles    Styles
	search    textinput.Model
	searching bool
	cursor    int
	width     int
	height    int
}

// NewModel creates a browser model over ctl. ctx bounds every network flow.
func NewModel(ctx context.Context, ctl *catalog.Controller) Model {
	search := textinput.New()
	search.Placeholder = "e.g. pikachu"
	search.Prompt = "Search name: "
	search.CharLimit = 64

	return Model{
		ctx:    ctx,
		ctl:    ctl,
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
		search: search,
	}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return m.loadMoreCmd()
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case stateChangedMsg, flowDoneMsg:
		m.clampCursor(len(m.ctl.Visible()))
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctl.SetSearch(m.search.Value())
	m.clampCursor(len(m.ctl.Visible()))
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.ctl.Visible())-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.SortName):
		m.ctl.ToggleSort(catalog.SortByName)
		return m, nil
	case key.Matches(msg, m.keys.SortNumber):
		m.ctl.ToggleSort(catalog.SortByNumber)
		return m, nil
	case key.Matches(msg, m.keys.LoadMore):
		return m, m.loadMoreCmd()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Demo):
		return m, m.demoCmd()
	case key.Matches(msg, m.keys.Select):
		visible := m.ctl.Visible()
		if m.cursor < 0 || m.cursor >= len(visible) {
			return m, nil
		}
		return m, m.selectCmd(visible[m.cursor].URL)
	}
	return m, nil
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) loadMoreCmd() tea.Cmd {
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		ctl.LoadMore(ctx)
		return flowDoneMsg{}
	}
}

func (m Model) selectCmd(url string) tea.Cmd {
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		ctl.Select(ctx, url)
		return flowDoneMsg{}
	}
}

func (m Model) demoCmd() tea.Cmd {
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		ctl.RunProtectedDemo(ctx)
		return flowDoneMsg{}
	}
}

// View renders the browser.
func (m Model) View() string {
	s := m.ctl.State()
	visible := catalog.Visible(s)

	sections := []string{
		m.renderHeader(s),
		m.renderListStatus(s),
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(s, visible), " ", m.renderDetail(s)),
		m.renderDemo(s),
		m.renderHelp(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(s catalog.State) string {
	nameLabel, numberLabel := catalog.SortLabels(s)
	nameStyle, numberStyle := m.styles.Control, m.styles.Control
	if s.SortMode == catalog.SortByName {
		nameStyle = m.styles.Active
	} else {
		numberStyle = m.styles.Active
	}

	controls := lipgloss.JoinHorizontal(lipgloss.Center,
		nameStyle.Render(nameLabel), " ",
		numberStyle.Render(numberLabel), " ",
		m.styles.Muted.Render(catalog.LoadedCount(s)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Eyebrow.Render("VibeDex Catalog"),
		m.styles.Title.Render("Pokemon Catalog"),
		m.styles.Subtitle.Render("Catch up with the latest creatures, one page at a time."),
		m.search.View(),
		controls,
	)
}

func (m Model) renderListStatus(s catalog.State) string {
	status := catalog.ListStatus(s)
	switch {
	case s.ListLoading:
		return m.styles.Loading.Render(status)
	case s.ListError != "":
		return m.styles.Error.Render(status)
	default:
		return status
	}
}

func (m Model) renderList(s catalog.State, visible []catalog.Item) string {
	width := listMinWidth
	if m.width > 0 && m.width/3 > width {
		width = m.width / 3
	}

	if len(visible) == 0 {
		return m.styles.Pane.Width(width).Render(m.styles.Muted.Render(catalog.EmptyListMessage(s, visible)))
	}

	rows := m.listRows()
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(visible))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item := visible[i]
		line := catalog.ItemLabel(item)
		if item.URL == s.SelectedURL {
			line = m.styles.Selected.Render(line)
		}
		if i == m.cursor {
			line = m.styles.Cursor.Render(line)
		}
		lines = append(lines, line)
	}
	return m.styles.Pane.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) listRows() int {
	if m.height <= chromeRows+minListRows {
		return minListRows
	}
	return m.height - chromeRows
}

func (m Model) renderDetail(s catalog.State) string {
	summary := catalog.DetailSummary(s)
	switch {
	case s.DetailError != "":
		summary = m.styles.Error.Render(summary)
	case s.Detail == nil:
		summary = m.styles.Muted.Render(summary)
	}
	return m.styles.Pane.Render(summary)
}

func (m Model) renderDemo(s catalog.State) string {
	status, output := catalog.DemoStatus(s)
	switch {
	case s.DemoLoading:
		status = m.styles.Loading.Render(status)
	case s.DemoError != "":
		status = m.styles.Error.Render(status)
	}
	return m.styles.Pane.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Eyebrow.Render("Protected API Demo"),
		m.styles.Muted.Render("Calls the local proxy so secrets stay on the server."),
		status,
		output,
	))
}

func (m Model) renderHelp() string {
	bindings := m.keys.ShortHelp()
	if m.searching {
		bindings = []key.Binding{m.keys.Back}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return m.styles.Help.Render(strings.Join(parts, " • "))
}
