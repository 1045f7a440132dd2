package render

import tea "github.com/charmbracelet/bubbletea"

// View is anything that owns a lazily built element.
type View interface {
	// Element builds the element on first use.
	Element() *Element
	// CurrentElement returns the built element or nil.
	CurrentElement() *Element
	RemoveElement()
}

func RenderTo(v View, c *Container, pos Position) {
	c.Insert(v.Element(), pos)
}

// Replace swaps prev's element for next's element in prev's container.
func Replace(next, prev View) error {
	if next == nil || prev == nil {
		return ErrNotMounted
	}
	old := prev.CurrentElement()
	if old == nil || old.Parent() == nil {
		return ErrNotMounted
	}
	return old.Parent().ReplaceChild(next.Element(), old)
}

// Remove detaches v's element (if any) and releases it. A nil view is ignored.
func Remove(v View) {
	if v == nil {
		return
	}
	if el := v.CurrentElement(); el != nil && el.Parent() != nil {
		el.Parent().RemoveChild(el)
	}
	v.RemoveElement()
}

type keyListener struct {
	owner any
	fn    func(tea.KeyMsg) bool
}

// Document holds the global key listeners.
type Document struct {
	listeners []keyListener
}

func NewDocument() *Document { return &Document{} }

// AddKeyListener registers fn for owner. An owner has at most one listener; adding again replaces it.
// owner must be comparable (a pointer in practice).
func (d *Document) AddKeyListener(owner any, fn func(tea.KeyMsg) bool) {
	if fn == nil {
		return
	}
	for i := range d.listeners {
		if d.listeners[i].owner == owner {
			d.listeners[i].fn = fn
			return
		}
	}
	d.listeners = append(d.listeners, keyListener{owner: owner, fn: fn})
}

func (d *Document) RemoveKeyListener(owner any) {
	for i := range d.listeners {
		if d.listeners[i].owner == owner {
			next := make([]keyListener, 0, len(d.listeners)-1)
			next = append(next, d.listeners[:i]...)
			d.listeners = append(next, d.listeners[i+1:]...)
			return
		}
	}
}

func (d *Document) HasKeyListener(owner any) bool {
	for _, l := range d.listeners {
		if l.owner == owner {
			return true
		}
	}
	return false
}

func (d *Document) KeyListeners() int { return len(d.listeners) }

// DispatchKey offers msg to every listener and reports whether any handled it.
func (d *Document) DispatchKey(msg tea.KeyMsg) bool {
	handled := false
	for _, l := range d.listeners {
		if l.fn(msg) {
			handled = true
		}
	}
	return handled
}
