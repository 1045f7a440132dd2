package render

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type countingWidget struct{ destroyed int }

func (w *countingWidget) Destroy() { w.destroyed++ }

type stubView struct {
	label string
	el    *Element
}

func (v *stubView) Element() *Element {
	if v.el == nil {
		label := v.label
		v.el = NewElement(func() string { return label })
	}
	return v.el
}

func (v *stubView) CurrentElement() *Element { return v.el }

func (v *stubView) RemoveElement() {
	v.el.Release()
	v.el = nil
}

func TestContainer_ReplaceKeepsPosition(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	a, b, x := &stubView{label: "a"}, &stubView{label: "b"}, &stubView{label: "c"}
	RenderTo(a, c, BeforeEnd)
	RenderTo(b, c, BeforeEnd)
	RenderTo(x, c, BeforeEnd)

	repl := &stubView{label: "B"}
	if err := Replace(repl, b); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got := c.View(","); got != "a,B,c" {
		t.Fatalf("expected a,B,c; got %q", got)
	}
	if b.el.Parent() != nil {
		t.Fatalf("expected replaced element to be detached")
	}
	if repl.el.Parent() != c {
		t.Fatalf("expected new element to be attached to the same container")
	}
}

func TestReplace_UnmountedIsError(t *testing.T) {
	t.Parallel()

	err := Replace(&stubView{label: "n"}, &stubView{label: "o"})
	if !errors.Is(err, ErrNotMounted) {
		t.Fatalf("expected ErrNotMounted, got %v", err)
	}
}

func TestRenderAfterBegin(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	RenderTo(&stubView{label: "a"}, c, BeforeEnd)
	RenderTo(&stubView{label: "new"}, c, AfterBegin)
	if got := c.View(","); got != "new,a" {
		t.Fatalf("expected new,a; got %q", got)
	}
}

func TestRemove_ReleasesWidgetsOnce(t *testing.T) {
	t.Parallel()

	c := NewContainer()
	v := &stubView{label: "a"}
	RenderTo(v, c, BeforeEnd)
	w := &countingWidget{}
	el := v.Element()
	el.Attach(w)

	Remove(v)
	el.Release()
	Remove(v)

	if w.destroyed != 1 {
		t.Fatalf("expected widget destroyed once, got %d", w.destroyed)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty container, got %d children", c.Len())
	}
	if el.Dispatch(Event{Type: Click, Target: "x"}) {
		t.Fatalf("released element must not dispatch")
	}
}

func TestElement_OnReplacesSameTarget(t *testing.T) {
	t.Parallel()

	el := NewElement(func() string { return "" })
	calls := 0
	el.On("btn", Click, func(Event) { calls += 10 })
	el.On("btn", Click, func(Event) { calls++ })

	if el.HandlerCount() != 1 {
		t.Fatalf("expected 1 handler, got %d", el.HandlerCount())
	}
	if !el.Dispatch(Event{Type: Click, Target: "btn"}) {
		t.Fatalf("expected dispatch to be handled")
	}
	if calls != 1 {
		t.Fatalf("expected only the latest handler to run, got %d", calls)
	}
	if el.Dispatch(Event{Type: Change, Target: "btn"}) {
		t.Fatalf("unexpected handler for change")
	}
}

func TestAttachAfterReleaseDestroysImmediately(t *testing.T) {
	t.Parallel()

	el := NewElement(nil)
	el.Release()
	w := &countingWidget{}
	el.Attach(w)
	if w.destroyed != 1 {
		t.Fatalf("expected immediate destroy, got %d", w.destroyed)
	}
}

func TestDocument_KeyListenersNeverDuplicate(t *testing.T) {
	t.Parallel()

	d := NewDocument()
	owner := &struct{ n int }{}
	calls := 0
	fn := func(tea.KeyMsg) bool { calls++; return true }

	for i := 0; i < 3; i++ {
		d.AddKeyListener(owner, fn)
	}
	if d.KeyListeners() != 1 {
		t.Fatalf("expected 1 listener, got %d", d.KeyListeners())
	}
	if !d.DispatchKey(tea.KeyMsg{Type: tea.KeyEsc}) {
		t.Fatalf("expected key handled")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}

	d.RemoveKeyListener(owner)
	d.RemoveKeyListener(owner)
	if d.KeyListeners() != 0 || d.HasKeyListener(owner) {
		t.Fatalf("expected listener removed")
	}
	if d.DispatchKey(tea.KeyMsg{Type: tea.KeyEsc}) {
		t.Fatalf("expected key unhandled with no listeners")
	}
}

func TestDocument_ListenerMayRemoveItself(t *testing.T) {
	t.Parallel()

	d := NewDocument()
	a, b := &struct{ n int }{}, &struct{ n int }{}
	var order []string
	d.AddKeyListener(a, func(tea.KeyMsg) bool {
		order = append(order, "a")
		d.RemoveKeyListener(a)
		return true
	})
	d.AddKeyListener(b, func(tea.KeyMsg) bool {
		order = append(order, "b")
		return false
	})

	d.DispatchKey(tea.KeyMsg{Type: tea.KeyEsc})
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected dispatch order %v", order)
	}
	if d.KeyListeners() != 1 {
		t.Fatalf("expected 1 listener left, got %d", d.KeyListeners())
	}
}
