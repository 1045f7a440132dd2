// Package render is the element tree the TUI draws from.
//
// An Element is a rendered node: a draw func, the handlers bound to it and the widgets embedded in
// it. Containers keep elements in order so a node can be swapped in place. Views build elements
// lazily and the helpers in view.go mount, replace and remove them.
package render

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type EventType string

const (
	Click  EventType = "click"
	Change EventType = "change"
	Submit EventType = "submit"
	// Pick is emitted by embedded date pickers.
	Pick EventType = "pick"
)

type Event struct {
	Type   EventType
	Target string
	Value  string
	Time   time.Time
}

type Handler func(Event)

type KeyHandler func(tea.KeyMsg) bool

// Widget is an embedded resource whose lifetime ends with its element.
type Widget interface {
	Destroy()
}

type handlerKey struct {
	target string
	typ    EventType
}

var ErrNotMounted = errors.New("element is not mounted")

type Element struct {
	parent   *Container
	draw     func() string
	handlers map[handlerKey]Handler
	keys     KeyHandler
	widgets  []Widget
	released bool
}

func NewElement(draw func() string) *Element {
	return &Element{
		draw:     draw,
		handlers: map[handlerKey]Handler{},
	}
}

func (e *Element) View() string {
	if e == nil || e.released || e.draw == nil {
		return ""
	}
	return e.draw()
}

func (e *Element) Parent() *Container { return e.parent }

func (e *Element) Released() bool { return e.released }

// On binds h to (target, typ). Binding the same pair again replaces the previous handler.
func (e *Element) On(target string, typ EventType, h Handler) {
	if e.released || h == nil {
		return
	}
	e.handlers[handlerKey{target: target, typ: typ}] = h
}

func (e *Element) Off(target string, typ EventType) {
	delete(e.handlers, handlerKey{target: target, typ: typ})
}

func (e *Element) HasHandler(target string, typ EventType) bool {
	_, ok := e.handlers[handlerKey{target: target, typ: typ}]
	return ok
}

func (e *Element) HandlerCount() int { return len(e.handlers) }

// Dispatch reports whether a handler consumed ev.
func (e *Element) Dispatch(ev Event) bool {
	if e == nil || e.released {
		return false
	}
	h, ok := e.handlers[handlerKey{target: ev.Target, typ: ev.Type}]
	if !ok {
		return false
	}
	h(ev)
	return true
}

func (e *Element) OnKey(h KeyHandler) {
	if e.released {
		return
	}
	e.keys = h
}

// Interactive elements take keyboard input directly (forms).
func (e *Element) Interactive() bool {
	return e != nil && !e.released && e.keys != nil
}

func (e *Element) HandleKey(msg tea.KeyMsg) bool {
	if !e.Interactive() {
		return false
	}
	return e.keys(msg)
}

func (e *Element) Attach(w Widget) {
	if w == nil {
		return
	}
	if e.released {
		w.Destroy()
		return
	}
	e.widgets = append(e.widgets, w)
}

func (e *Element) Widgets() int { return len(e.widgets) }

// Release tears down widgets and handlers. Only the first call has any effect.
func (e *Element) Release() {
	if e == nil || e.released {
		return
	}
	e.released = true
	widgets := e.widgets
	e.widgets = nil
	for _, w := range widgets {
		w.Destroy()
	}
	e.handlers = map[handlerKey]Handler{}
	e.keys = nil
}
