// Package view holds the renderable components of the board: the point summary row, the edit form
// and the base types they share.
package view

import "waypoint-cli/internal/render"

// Abstract builds its element lazily from a template and runs the bind routine on every fresh
// element, so handlers never outlive the element they were bound to.
type Abstract struct {
	el       *render.Element
	template func() *render.Element
	bind     func(*render.Element)
	builds   int
}

func (a *Abstract) setup(template func() *render.Element, bind func(*render.Element)) {
	a.template = template
	a.bind = bind
}

func (a *Abstract) Element() *render.Element {
	if a.el == nil {
		a.el = a.template()
		a.builds++
		if a.bind != nil {
			a.bind(a.el)
		}
	}
	return a.el
}

func (a *Abstract) CurrentElement() *render.Element { return a.el }

// RemoveElement releases the element (and its widgets). The next Element call builds a new one.
func (a *Abstract) RemoveElement() {
	if a.el == nil {
		return
	}
	a.el.Release()
	a.el = nil
}

// Builds counts how many elements this view has built.
func (a *Abstract) Builds() int { return a.builds }

// Stateful keeps component state apart from the element drawn from it.
type Stateful[S any] struct {
	Abstract
	state S
}

func (v *Stateful[S]) State() S { return v.state }

// SetState applies patch without touching the element.
func (v *Stateful[S]) SetState(patch func(*S)) {
	if patch == nil {
		return
	}
	patch(&v.state)
}

// UpdateElement applies patch and swaps the element for one built from the new state.
func (v *Stateful[S]) UpdateElement(patch func(*S)) {
	if patch == nil {
		return
	}
	v.SetState(patch)
	v.rerender()
}

func (v *Stateful[S]) rerender() {
	prev := v.el
	if prev == nil {
		return
	}
	parent := prev.Parent()
	v.RemoveElement()
	next := v.Element()
	if parent != nil {
		_ = parent.ReplaceChild(next, prev)
	}
}
