package render

import "strings"

type Position int

const (
	BeforeEnd Position = iota
	AfterBegin
)

// Container is an ordered parent of elements (the list body, the header, ...).
type Container struct {
	children []*Element
}

func NewContainer() *Container { return &Container{} }

func (c *Container) Insert(e *Element, pos Position) {
	if e == nil {
		return
	}
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
	e.parent = c
	if pos == AfterBegin {
		c.children = append([]*Element{e}, c.children...)
		return
	}
	c.children = append(c.children, e)
}

// ReplaceChild puts next where prev is. prev is detached but not released.
func (c *Container) ReplaceChild(next, prev *Element) error {
	if next == nil || prev == nil {
		return ErrNotMounted
	}
	idx := c.IndexOf(prev)
	if idx < 0 {
		return ErrNotMounted
	}
	if next == prev {
		return nil
	}
	if next.parent != nil {
		next.parent.RemoveChild(next)
		// Removing next may have shifted prev.
		idx = c.IndexOf(prev)
	}
	c.children[idx] = next
	next.parent = c
	prev.parent = nil
	return nil
}

func (c *Container) RemoveChild(e *Element) {
	idx := c.IndexOf(e)
	if idx < 0 {
		return
	}
	c.children = append(c.children[:idx:idx], c.children[idx+1:]...)
	e.parent = nil
}

func (c *Container) IndexOf(e *Element) int {
	for i, ch := range c.children {
		if ch == e {
			return i
		}
	}
	return -1
}

func (c *Container) Children() []*Element {
	return append([]*Element(nil), c.children...)
}

func (c *Container) Len() int { return len(c.children) }

func (c *Container) At(i int) *Element {
	if i < 0 || i >= len(c.children) {
		return nil
	}
	return c.children[i]
}

// View joins child views with sep.
func (c *Container) View(sep string) string {
	parts := make([]string, 0, len(c.children))
	for _, ch := range c.children {
		parts = append(parts, ch.View())
	}
	return strings.Join(parts, sep)
}
