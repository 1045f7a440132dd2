package trip

import (
	"errors"
	"testing"
	"time"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/mutate"
	"waypoint-cli/internal/store"
)

var base = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type memBackend struct {
	db      *store.DB
	events  []string
	saveErr error
}

func (b *memBackend) Load() (*store.DB, error) { return b.db.Clone(), nil }

func (b *memBackend) Save(db *store.DB) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.db = db.Clone()
	return nil
}

func (b *memBackend) AppendEvent(typ, entityID string, payload any) error {
	b.events = append(b.events, typ+":"+entityID)
	return nil
}

func newBackend() *memBackend {
	return &memBackend{db: &store.DB{
		Destinations: []model.Destination{{ID: 1, Name: "Amsterdam"}, {ID: 2, Name: "Geneva"}, {ID: 3, Name: "Chamonix"}, {ID: 4, Name: "Helsinki"}},
		OfferGroups: []model.OfferGroup{
			{Type: model.PointTypeTaxi, Offers: []model.Offer{{ID: 1, Title: "Upgrade", Price: 50}}},
			{Type: model.PointTypeFlight, Offers: []model.Offer{{ID: 2, Title: "Meal", Price: 15}}},
		},
		Points: []model.Point{
			{ID: "pt-past", Type: model.PointTypeTaxi, Destination: 1, DateFrom: base.Add(-48 * time.Hour), DateTo: base.Add(-47 * time.Hour), BasePrice: 30, Offers: []int{1}},
			{ID: "pt-now", Type: model.PointTypeFlight, Destination: 2, DateFrom: base.Add(-time.Hour), DateTo: base.Add(5 * time.Hour), BasePrice: 400, Offers: []int{}},
			{ID: "pt-next", Type: model.PointTypeTaxi, Destination: 3, DateFrom: base.Add(24 * time.Hour), DateTo: base.Add(24*time.Hour + 10*time.Minute), BasePrice: 15, Offers: []int{}},
		},
	}}
}

type received struct {
	scope model.UpdateScope
	id    string
}

func loadedModel(t *testing.T) (*PointsModel, *memBackend, *[]received) {
	t.Helper()
	b := newBackend()
	m := NewPointsModel(b)
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	var got []received
	m.Subscribe(func(scope model.UpdateScope, p model.Point) {
		got = append(got, received{scope: scope, id: p.ID})
	})
	return m, b, &got
}

func ids(points []model.Point) []string {
	out := make([]string, 0, len(points))
	for _, p := range points {
		out = append(out, p.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterPoints(t *testing.T) {
	t.Parallel()

	points := newBackend().db.Points
	cases := []struct {
		f    model.FilterType
		want []string
	}{
		{model.FilterEverything, []string{"pt-past", "pt-now", "pt-next"}},
		{model.FilterFuture, []string{"pt-next"}},
		{model.FilterPresent, []string{"pt-now"}},
		{model.FilterPast, []string{"pt-past"}},
	}
	for _, tc := range cases {
		if got := ids(FilterPoints(points, tc.f, base)); !equalIDs(got, tc.want) {
			t.Fatalf("filter %s: got %v want %v", tc.f, got, tc.want)
		}
	}
}

func TestSortPoints(t *testing.T) {
	t.Parallel()

	points := newBackend().db.Points
	// Reverse input so day order has to do work.
	rev := []model.Point{points[2], points[1], points[0]}

	cases := []struct {
		s    model.SortType
		want []string
	}{
		{model.SortDay, []string{"pt-past", "pt-now", "pt-next"}},
		{model.SortTime, []string{"pt-now", "pt-past", "pt-next"}},
		{model.SortPrice, []string{"pt-now", "pt-past", "pt-next"}},
	}
	for _, tc := range cases {
		if got := ids(SortPoints(rev, tc.s)); !equalIDs(got, tc.want) {
			t.Fatalf("sort %s: got %v want %v", tc.s, got, tc.want)
		}
	}
	if rev[0].ID != "pt-next" {
		t.Fatalf("SortPoints modified its input")
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	b := newBackend()
	info := Summarize(b.db.Points, b.db.Destinations, b.db.OfferGroups)
	if info.Route != "Amsterdam — Geneva — Chamonix" {
		t.Fatalf("route = %q", info.Route)
	}
	if info.Cost != 30+50+400+15 {
		t.Fatalf("cost = %d", info.Cost)
	}
	if !info.Start.Equal(base.Add(-48*time.Hour)) || !info.End.Equal(base.Add(24*time.Hour+10*time.Minute)) {
		t.Fatalf("span = %v .. %v", info.Start, info.End)
	}

	long := append(b.db.Points, model.Point{ID: "pt-x", Type: model.PointTypeTaxi, Destination: 4, DateFrom: base.Add(72 * time.Hour), DateTo: base.Add(73 * time.Hour)})
	if got := Summarize(long, b.db.Destinations, b.db.OfferGroups).Route; got != "Amsterdam — … — Helsinki" {
		t.Fatalf("long route = %q", got)
	}
	if got := Summarize(nil, nil, nil); got.Route != "" || got.Cost != 0 || got.Dates() != "" {
		t.Fatalf("empty summary = %+v", got)
	}
}

func TestFiltersModel_Notifies(t *testing.T) {
	t.Parallel()

	m := NewFiltersModel()
	if m.Filter() != model.FilterEverything {
		t.Fatalf("default filter = %s", m.Filter())
	}
	var got []model.FilterType
	m.Subscribe(func(scope model.UpdateScope, f model.FilterType) {
		if scope != model.Major {
			t.Fatalf("scope = %s", scope)
		}
		got = append(got, f)
	})
	m.SetFilter(model.Major, model.FilterPast)
	if m.Filter() != model.FilterPast || len(got) != 1 || got[0] != model.FilterPast {
		t.Fatalf("filter=%s got=%v", m.Filter(), got)
	}
}

func TestPointsModel_UpdateNotifiesWithScope(t *testing.T) {
	t.Parallel()

	m, b, got := loadedModel(t)
	p, _ := m.Point("pt-now")
	p.IsFavorite = true
	if err := m.UpdatePoint(model.Patch, p); err != nil {
		t.Fatalf("UpdatePoint: %v", err)
	}
	if len(*got) != 1 || (*got)[0] != (received{model.Patch, "pt-now"}) {
		t.Fatalf("notifications = %v", *got)
	}
	if stored, _ := b.db.FindPoint("pt-now"); !stored.IsFavorite {
		t.Fatalf("update not persisted")
	}
	if len(b.events) != 1 || b.events[0] != store.EventPointUpdate+":pt-now" {
		t.Fatalf("events = %v", b.events)
	}

	// Unchanged update is silent.
	if err := m.UpdatePoint(model.Patch, p); err != nil {
		t.Fatalf("UpdatePoint: %v", err)
	}
	if len(*got) != 1 {
		t.Fatalf("no-op update notified")
	}
}

func TestPointsModel_EmptyIDIsANoOp(t *testing.T) {
	t.Parallel()

	m, b, got := loadedModel(t)
	b.saveErr = errors.New("must not save")

	if err := m.DeletePoint(model.Minor, model.Point{}); err != nil {
		t.Fatalf("DeletePoint: %v", err)
	}
	if _, err := m.ToggleFavorite(model.Patch, " "); err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if len(*got) != 0 || len(b.events) != 0 {
		t.Fatalf("notifications=%v events=%v", *got, b.events)
	}
	if len(m.Points()) != 3 {
		t.Fatalf("points = %d", len(m.Points()))
	}
}

func TestPointsModel_AddAndDelete(t *testing.T) {
	t.Parallel()

	m, b, got := loadedModel(t)
	added, err := m.AddPoint(model.Minor, model.Point{Type: model.PointTypeTaxi, Destination: 4, DateFrom: base, DateTo: base.Add(time.Hour)})
	if err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	if !store.IsPointID(added.ID) {
		t.Fatalf("id = %q", added.ID)
	}
	if len(m.Points()) != 4 || len(b.db.Points) != 4 {
		t.Fatalf("point not added")
	}
	if err := m.DeletePoint(model.Minor, added); err != nil {
		t.Fatalf("DeletePoint: %v", err)
	}
	if _, ok := m.Point(added.ID); ok {
		t.Fatalf("point still present")
	}
	want := []received{{model.Minor, added.ID}, {model.Minor, added.ID}}
	if len(*got) != 2 || (*got)[0] != want[0] || (*got)[1] != want[1] {
		t.Fatalf("notifications = %v", *got)
	}
}

func TestPointsModel_RejectedMutationKeepsState(t *testing.T) {
	t.Parallel()

	m, b, got := loadedModel(t)
	p, _ := m.Point("pt-next")
	p.DateTo = p.DateFrom.Add(-time.Hour)
	if err := m.UpdatePoint(model.Minor, p); !errors.Is(err, mutate.ErrInvalidDates) {
		t.Fatalf("expected ErrInvalidDates, got %v", err)
	}

	b.saveErr = errors.New("disk full")
	p, _ = m.Point("pt-next")
	p.BasePrice = 999
	if err := m.UpdatePoint(model.Minor, p); err == nil {
		t.Fatalf("expected save error")
	}
	if cur, _ := m.Point("pt-next"); cur.BasePrice != 15 {
		t.Fatalf("failed save changed the model: %d", cur.BasePrice)
	}
	if len(*got) != 0 {
		t.Fatalf("rejected mutations notified: %v", *got)
	}
}

func TestPointsModel_ReloadDiffs(t *testing.T) {
	t.Parallel()

	m, b, got := loadedModel(t)

	// Outside change: one edit, one delete, two adds.
	b.db.Points[0].BasePrice = 31
	b.db.Points = append(b.db.Points[:1], b.db.Points[2:]...)
	b.db.Points = append(b.db.Points,
		model.Point{ID: "pt-new1", Type: model.PointTypeTaxi, Destination: 1, DateFrom: base, DateTo: base},
		model.Point{ID: "pt-new2", Type: model.PointTypeTaxi, Destination: 1, DateFrom: base, DateTo: base},
	)

	if err := m.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	want := []received{{model.Patch, "pt-past"}, {model.Patch, "pt-now"}, {model.Minor, "pt-new1"}}
	if len(*got) != len(want) {
		t.Fatalf("notifications = %v, want %v", *got, want)
	}
	for i := range want {
		if (*got)[i] != want[i] {
			t.Fatalf("notifications = %v, want %v", *got, want)
		}
	}
	if _, ok := m.Point("pt-now"); ok {
		t.Fatalf("deleted point still visible")
	}
}

func TestPointsModel_ReloadReferenceDataIsMajor(t *testing.T) {
	t.Parallel()

	m, b, got := loadedModel(t)
	b.db.Destinations = append(b.db.Destinations, model.Destination{ID: 9, Name: "Oslo"})
	if err := m.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(*got) != 1 || (*got)[0].scope != model.Major {
		t.Fatalf("notifications = %v", *got)
	}
}

func TestEmptyMessage(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, f := range model.FilterTypes {
		msg := EmptyMessage(f)
		if msg == "" || seen[msg] {
			t.Fatalf("empty message for %s is %q", f, msg)
		}
		seen[msg] = true
	}
}

func TestPointsModel_ToggleFavorite(t *testing.T) {
	t.Parallel()

	m, b, got := loadedModel(t)
	p, err := m.ToggleFavorite(model.Patch, "pt-past")
	if err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if !p.IsFavorite || len(*got) != 1 || (*got)[0] != (received{model.Patch, "pt-past"}) {
		t.Fatalf("point=%+v notifications=%v", p, *got)
	}
	if stored, _ := b.db.FindPoint("pt-past"); !stored.IsFavorite {
		t.Fatalf("favorite not persisted")
	}
	var nf mutate.NotFoundError
	if _, err := m.ToggleFavorite(model.Patch, "pt-missing"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
