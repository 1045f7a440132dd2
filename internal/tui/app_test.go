package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/store"
	"waypoint-cli/internal/trip"
	"waypoint-cli/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testStore(t *testing.T) store.Store {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := store.Seed(db, store.SeedOpts{Now: now}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	dest := db.Destinations[0].ID
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 10, 0, 0, 0, time.UTC) }
	db.Points = []model.Point{
		{ID: "pt-1", Type: model.PointTypeTaxi, Destination: dest, DateFrom: day(2030, 1, 1), DateTo: day(2030, 1, 1).Add(time.Hour), BasePrice: 10, Offers: []int{}},
		{ID: "pt-2", Type: model.PointTypeTaxi, Destination: dest, DateFrom: day(2030, 1, 2), DateTo: day(2030, 1, 2).Add(3 * time.Hour), BasePrice: 500, Offers: []int{}},
		{ID: "pt-3", Type: model.PointTypeTaxi, Destination: dest, DateFrom: day(2020, 1, 1), DateTo: day(2020, 1, 1).Add(2 * time.Hour), BasePrice: 50, Offers: []int{}},
	}
	if err := s.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return s
}

func newTestApp(t *testing.T, s store.Store) *appModel {
	t.Helper()
	points := trip.NewPointsModel(s)
	if err := points.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	m := newAppModel(s, &store.GlobalConfig{}, points)
	m.now = func() time.Time { return now }
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	t.Cleanup(m.board.Destroy)
	return m
}

func press(m *appModel, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func order(m *appModel) []string {
	var ids []string
	for _, p := range m.board.Presenters() {
		ids = append(ids, p.Point().ID)
	}
	return ids
}

func TestApp_CursorAndEditor(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, testStore(t))
	if got := strings.Join(order(m), ","); got != "pt-3,pt-1,pt-2" {
		t.Fatalf("order = %s", got)
	}
	if m.selectedID != "pt-3" {
		t.Fatalf("selected = %q", m.selectedID)
	}

	press(m, "down", "j")
	if m.selectedID != "pt-2" || m.cursor != 2 {
		t.Fatalf("selected = %q cursor = %d", m.selectedID, m.cursor)
	}
	press(m, "j")
	if m.cursor != 2 {
		t.Fatalf("cursor ran past the end: %d", m.cursor)
	}

	press(m, "enter")
	if el := m.board.ActiveElement(); el == nil {
		t.Fatalf("enter did not open the editor")
	}
	// List keys are swallowed while the form is open.
	press(m, "k", "q")
	if m.selectedID != "pt-2" || m.board.ActiveElement() == nil {
		t.Fatalf("list keys leaked into the open form")
	}
	press(m, "esc")
	if m.board.Editing() {
		t.Fatalf("esc did not close the editor")
	}
}

func TestApp_NewPoint(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	m := newTestApp(t, s)

	press(m, "n")
	if !m.board.CreatingPoint() {
		t.Fatalf("n did not open the form")
	}
	if !strings.Contains(m.View(), "ctrl+s") {
		t.Fatalf("form help not shown:\n%s", m.View())
	}
	press(m, "esc")
	if m.board.CreatingPoint() {
		t.Fatalf("esc did not cancel")
	}

	press(m, "n", "ctrl+s")
	if m.board.CreatingPoint() {
		t.Fatalf("form still open: %s", m.status)
	}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(db.Points) != 4 {
		t.Fatalf("points = %d, want 4", len(db.Points))
	}
}

func TestApp_Favorite(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	m := newTestApp(t, s)
	press(m, "f")

	p, ok := m.points.Point("pt-3")
	if !ok || !p.IsFavorite {
		t.Fatalf("favorite not toggled: %+v", p)
	}
	db, _ := s.Load()
	for _, pt := range db.Points {
		if pt.ID == "pt-3" && !pt.IsFavorite {
			t.Fatalf("favorite not saved")
		}
	}
	if m.selectedID != "pt-3" {
		t.Fatalf("selection moved to %q", m.selectedID)
	}
}

func TestApp_FilterAndSort(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, testStore(t))

	press(m, "2")
	if got := strings.Join(order(m), ","); got != "pt-1,pt-2" {
		t.Fatalf("future = %s", got)
	}
	press(m, "3")
	if !m.board.Empty() || !strings.Contains(m.View(), trip.EmptyMessage(model.FilterPresent)) {
		t.Fatalf("present filter should be empty")
	}

	press(m, "1", "s")
	if m.board.Sort() != model.SortTime {
		t.Fatalf("sort = %s", m.board.Sort())
	}
	if got := strings.Join(order(m), ","); got != "pt-2,pt-3,pt-1" {
		t.Fatalf("time order = %s", got)
	}
	press(m, "s")
	if got := strings.Join(order(m), ","); got != "pt-2,pt-3,pt-1" {
		t.Fatalf("price order = %s", got)
	}
	press(m, "s")
	if m.board.Sort() != model.SortDay {
		t.Fatalf("sort did not wrap: %s", m.board.Sort())
	}

	// A filter change resets the sort.
	press(m, "s", "2")
	if m.board.Sort() != model.SortDay {
		t.Fatalf("filter change kept sort %s", m.board.Sort())
	}
}

func TestApp_StatePersists(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	m := newTestApp(t, s)
	press(m, "4", "s")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("q did not quit")
	}

	st, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if st.Filter != string(model.FilterPast) || st.Sort != string(model.SortTime) || st.SelectedPointID != "pt-3" {
		t.Fatalf("state = %+v", st)
	}

	again := newTestApp(t, s)
	if again.filters.Filter() != model.FilterPast || again.board.Sort() != model.SortTime || again.selectedID != "pt-3" {
		t.Fatalf("restored filter=%s sort=%s selected=%s", again.filters.Filter(), again.board.Sort(), again.selectedID)
	}
}

func TestApp_StoreChangedReloads(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	m := newTestApp(t, s)

	// Another process deletes the selected point.
	other := trip.NewPointsModel(s)
	if err := other.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	p, _ := other.Point("pt-3")
	if err := other.DeletePoint(model.Minor, p); err != nil {
		t.Fatalf("DeletePoint: %v", err)
	}

	m.Update(storeChangedMsg{})
	if got := strings.Join(order(m), ","); got != "pt-1,pt-2" {
		t.Fatalf("order after reload = %s", got)
	}
	if m.selectedID != "pt-1" {
		t.Fatalf("selection = %q", m.selectedID)
	}
}

func TestApp_WaitForChangeEndsOnQuit(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	m := newTestApp(t, s)
	w, err := watch.New(s.Dir, "state.sqlite", 0)
	if err != nil {
		t.Fatalf("watch.New: %v", err)
	}
	m.watcher = w

	cmd := m.waitForChange()
	got := make(chan tea.Msg, 1)
	go func() { got <- cmd() }()

	m.quit()
	select {
	case msg := <-got:
		if msg != nil {
			t.Fatalf("msg = %#v, want nil", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("waitForChange still blocked after quit")
	}
}

func TestApp_CopyID(t *testing.T) {
	var copied string
	prev := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = prev })

	m := newTestApp(t, testStore(t))
	press(m, "y")
	if copied != "pt-3" || !strings.Contains(m.status, "pt-3") {
		t.Fatalf("copied = %q status = %q", copied, m.status)
	}

	copyToClipboard = func(string) error { return errors.New("no clipboard") }
	press(m, "y")
	if !m.statusErr {
		t.Fatalf("copy failure not reported")
	}
}

func TestScrollBlocks(t *testing.T) {
	t.Parallel()

	blocks := []string{"a1\na2", "b1\nb2", "c1\nc2"}
	tests := []struct {
		selected, height int
		want             string
	}{
		{0, 0, "a1\na2\nb1\nb2\nc1\nc2"},
		{0, 3, "a1\na2\nb1"},
		{2, 3, "b2\nc1\nc2"},
		{1, 2, "b1\nb2"},
	}
	for _, tt := range tests {
		if got := scrollBlocks(blocks, tt.selected, tt.height); got != tt.want {
			t.Fatalf("scrollBlocks(%d,%d) = %q, want %q", tt.selected, tt.height, got, tt.want)
		}
	}
}

func TestFitWidth(t *testing.T) {
	t.Parallel()

	if got := fitWidth("abcdef\nab", 4); got != "abc…\nab" {
		t.Fatalf("fitWidth = %q", got)
	}
	if got := fitWidth("abcdef", 0); got != "abcdef" {
		t.Fatalf("zero width cut the line: %q", got)
	}
}

// Not parallel: profiles change lipgloss globals.
func TestApplyAppearance(t *testing.T) {
	for _, p := range knownProfiles {
		if p == profileMono {
			continue
		}
		if !applyAppearance(p) {
			t.Fatalf("%s rejected", p)
		}
	}
	if applyAppearance("neon") {
		t.Fatalf("unknown profile accepted")
	}
}
