package memdom

import (
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Dispatch delivers e to the listener h registered for e.Type and reports
// whether one was called. e.Target is set to h; events do not bubble.
func (d *Document) Dispatch(h vdom.Handle, e vdom.Event) bool {
	d.mu.Lock()
	n := d.nodes[h]
	var fn vdom.Handler
	if n != nil {
		fn = n.listeners[e.Type]
	}
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	e.Target = h
	fn(e)
	return true
}

// Type simulates a user typing into an input: the runtime value changes
// without a logged mutation and an "input" event is dispatched.
func (d *Document) Type(h vdom.Handle, value string) {
	d.mu.Lock()
	n := d.nodes[h]
	if n == nil {
		d.mu.Unlock()
		return
	}
	d.setProp(n, "value", vdom.String(value))
	d.mu.Unlock()
	d.Dispatch(h, vdom.Event{Type: "input", Target: h, Value: value})
}

// SetChecked simulates a user toggling a checkbox and dispatches "change".
func (d *Document) SetChecked(h vdom.Handle, checked bool) {
	d.mu.Lock()
	n := d.nodes[h]
	if n == nil {
		d.mu.Unlock()
		return
	}
	d.setProp(n, "checked", vdom.Bool(checked))
	d.mu.Unlock()
	d.Dispatch(h, vdom.Event{Type: "change", Target: h})
}

// Find returns the first element under the body whose id attribute is id.
func (d *Document) Find(id string) vdom.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	var found vdom.Handle
	var walk func(h vdom.Handle) bool
	walk = func(h vdom.Handle) bool {
		n := d.nodes[h]
		if i := n.attrIndex("id"); i >= 0 && n.attrs[i].value == id {
			found = h
			return true
		}
		for _, c := range n.children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(d.body)
	return found
}
