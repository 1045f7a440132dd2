package tui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/presenter"
	"waypoint-cli/internal/render"
	"waypoint-cli/internal/store"
	"waypoint-cli/internal/trip"
	"waypoint-cli/internal/view"
	"waypoint-cli/internal/watch"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// storeChangedMsg arrives when another process wrote the trip directory.
type storeChangedMsg struct{}

type appModel struct {
	store     store.Store
	cfg       *store.GlobalConfig
	points    *trip.PointsModel
	filters   *trip.FiltersModel
	board     *presenter.Board
	container *render.Container
	doc       *render.Document
	watcher   *watch.Watcher

	keys keyMap
	help help.Model

	width  int
	height int

	cursor     int
	selectedID string

	status    string
	statusErr bool

	now func() time.Time
}

func newAppModel(s store.Store, cfg *store.GlobalConfig, points *trip.PointsModel) *appModel {
	m := &appModel{
		store:     s,
		cfg:       cfg,
		points:    points,
		filters:   trip.NewFiltersModel(),
		container: render.NewContainer(),
		doc:       render.NewDocument(),
		keys:      newKeyMap(),
		help:      help.New(),
		now:       time.Now,
	}
	m.help.ShortSeparator = " · "

	sortBy := model.SortDay
	if st, err := s.LoadTUIState(); err == nil {
		if f, ok := model.ParseFilterType(st.Filter); ok {
			m.filters.SetFilter(model.Major, f)
		}
		if so, ok := model.ParseSortType(st.Sort); ok {
			sortBy = so
		}
		m.selectedID = st.SelectedPointID
	}
	m.buildBoard(sortBy)
	return m
}

func (m *appModel) buildBoard(sortBy model.SortType) {
	if m.board != nil {
		m.board.Destroy()
	}
	b := presenter.NewBoard(m.container, m.doc, m.points, m.filters, presenter.Options{
		DateFormat: m.cfg.TUI.DateFormat,
		Width:      m.rowWidth(),
	})
	b.Now = func() time.Time { return m.now() }
	b.OnError(m.setError)
	b.Init()
	b.SetSort(sortBy)
	m.board = b
	m.syncSelection()
}

func (m *appModel) rowWidth() int {
	if m.width <= 4 {
		return 0
	}
	return m.width - 4
}

func (m *appModel) Init() tea.Cmd { return m.waitForChange() }

func (m *appModel) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ch := m.watcher.Changes()
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		prev := m.rowWidth()
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.rowWidth() != prev && !m.board.Editing() {
			m.buildBoard(m.board.Sort())
		}
		return m, nil

	case storeChangedMsg:
		if err := m.points.Reload(); err != nil {
			m.setError(err)
		}
		m.syncSelection()
		return m, m.waitForChange()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status, m.statusErr = "", false

	// An open form gets every key first; Esc falls through to the document listeners.
	if el := m.board.ActiveElement(); el != nil {
		if msg.Type == tea.KeyCtrlC {
			return m, m.quit()
		}
		if !el.HandleKey(msg) {
			m.doc.DispatchKey(msg)
		}
		m.syncSelection()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.open):
		m.clickSelected(view.TargetRollup)
	case key.Matches(msg, m.keys.favorite):
		m.clickSelected(view.TargetFavorite)
	case key.Matches(msg, m.keys.newPoint):
		m.board.CreatePoint()
	case key.Matches(msg, m.keys.filter):
		idx := int(msg.String()[0] - '1')
		m.filters.SetFilter(model.Major, model.FilterTypes[idx])
		m.saveState()
	case key.Matches(msg, m.keys.sort):
		m.board.SetSort(nextSort(m.board.Sort()))
		m.saveState()
	case key.Matches(msg, m.keys.copyID):
		if m.selectedID == "" {
			break
		}
		if err := copyToClipboard(m.selectedID); err != nil {
			m.setError(fmt.Errorf("copy: %w", err))
			break
		}
		m.status = "Copied " + m.selectedID
	case key.Matches(msg, m.keys.reload):
		if err := m.points.Reload(); err != nil {
			m.setError(err)
			break
		}
		m.status = "Reloaded"
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.syncSelection()
	return m, nil
}

func (m *appModel) quit() tea.Cmd {
	m.saveState()
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	return tea.Quit
}

func nextSort(s model.SortType) model.SortType {
	for i, so := range model.SortTypes {
		if so == s {
			return model.SortTypes[(i+1)%len(model.SortTypes)]
		}
	}
	return model.SortDay
}

func (m *appModel) clickSelected(target string) {
	p, ok := m.board.Presenter(m.selectedID)
	if !ok {
		return
	}
	if el := p.Element(); el != nil {
		el.Dispatch(render.Event{Type: render.Click, Target: target})
	}
}

func (m *appModel) moveCursor(delta int) {
	ps := m.board.Presenters()
	if len(ps) == 0 {
		return
	}
	m.cursor = max(0, min(len(ps)-1, m.cursor+delta))
	m.selectedID = ps[m.cursor].Point().ID
}

// syncSelection keeps the cursor on the selected point across re-renders, or clamps it when the
// point is gone.
func (m *appModel) syncSelection() {
	ps := m.board.Presenters()
	if len(ps) == 0 {
		m.cursor = 0
		m.selectedID = ""
		return
	}
	for i, p := range ps {
		if p.Point().ID == m.selectedID {
			m.cursor = i
			return
		}
	}
	m.cursor = max(0, min(len(ps)-1, m.cursor))
	m.selectedID = ps[m.cursor].Point().ID
}

func (m *appModel) setError(err error) {
	if err == nil {
		return
	}
	log.Printf("tui: %v", err)
	m.status = err.Error()
	m.statusErr = true
}

func (m *appModel) saveState() {
	st := &store.TUIState{
		Version:         1,
		Filter:          string(m.filters.Filter()),
		Sort:            string(m.board.Sort()),
		SelectedPointID: m.selectedID,
	}
	if err := m.store.SaveTUIState(st); err != nil {
		log.Printf("tui: save state: %v", err)
	}
}

func (m *appModel) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.tabsView())
	b.WriteString("\n\n")

	footer := m.footerView()
	listHeight := 0
	if m.height > 0 {
		listHeight = max(1, m.height-lipgloss.Height(b.String())-lipgloss.Height(footer))
	}
	b.WriteString(m.listView(listHeight))
	b.WriteString("\n")
	b.WriteString(footer)
	return fitWidth(b.String(), m.width)
}

func (m *appModel) headerView() string {
	info := m.board.Trip()
	title := styleHeader().Render("Waypoint")
	if info.Route == "" {
		return title
	}
	parts := []string{title, info.Route, styleMuted().Render(info.Dates()), fmt.Sprintf("Total: €%d", info.Cost)}
	return strings.Join(parts, "  ")
}

func (m *appModel) tabsView() string {
	var tabs []string
	for i, f := range model.FilterTypes {
		label := fmt.Sprintf("%d %s", i+1, titleCase(string(f)))
		tabs = append(tabs, styleTab(f == m.filters.Filter()).Render(label))
	}
	var sorts []string
	for _, s := range model.SortTypes {
		sorts = append(sorts, styleTab(s == m.board.Sort()).Render(titleCase(string(s))))
	}
	return strings.Join(tabs, "  ") + styleMuted().Render("   sort: ") + strings.Join(sorts, " ")
}

func (m *appModel) listView(height int) string {
	if m.board.Empty() {
		return styleMuted().Render(m.board.EmptyMessage())
	}
	selected := -1
	if el := m.board.ActiveElement(); el != nil {
		selected = m.container.IndexOf(el)
	} else if p, ok := m.board.Presenter(m.selectedID); ok {
		selected = m.container.IndexOf(p.Element())
	}

	children := m.container.Children()
	blocks := make([]string, 0, len(children))
	for i, el := range children {
		marker := "  "
		if i == selected {
			marker = lipgloss.NewStyle().Foreground(colorCursor).Render("› ")
		}
		lines := strings.Split(el.View(), "\n")
		for j := range lines {
			if j == 0 {
				lines[j] = marker + lines[j]
			} else {
				lines[j] = "  " + lines[j]
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return scrollBlocks(blocks, selected, height)
}

func (m *appModel) footerView() string {
	status := ""
	if m.status != "" {
		status = styleStatus(m.statusErr).Render(m.status)
	}
	var keys help.KeyMap = m.keys
	if m.board.Editing() {
		keys = formKeys{m.keys}
	}
	return status + "\n" + m.help.View(keys)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
