package memdom

import (
	"github.com/vango-dev/vtree/pkg/vdom"
)

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) vdom.Handle {
	d.mu.Lock()
	h := d.alloc(&node{kind: vdom.KindElement, tag: tag})
	m := d.record(Mutation{Op: OpCreateElement, Target: h, Name: tag})
	d.mu.Unlock()
	d.notify(m)
	return h
}

// CreateText creates a detached text node.
func (d *Document) CreateText(text string) vdom.Handle {
	d.mu.Lock()
	h := d.alloc(&node{kind: vdom.KindText, text: text})
	m := d.record(Mutation{Op: OpCreateText, Target: h, Value: text})
	d.mu.Unlock()
	d.notify(m)
	return h
}

// NodeKind returns the kind of h. Unknown handles report KindElement.
func (d *Document) NodeKind(h vdom.Handle) vdom.Kind {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := d.nodes[h]; n != nil {
		return n.kind
	}
	return vdom.KindElement
}

// TagName returns the tag of an element, "" for text nodes.
func (d *Document) TagName(h vdom.Handle) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := d.nodes[h]; n != nil {
		return n.tag
	}
	return ""
}

// Text returns the content of a text node.
func (d *Document) Text(h vdom.Handle) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := d.nodes[h]; n != nil {
		return n.text
	}
	return ""
}

// SetText replaces the content of a text node.
func (d *Document) SetText(h vdom.Handle, text string) {
	d.mu.Lock()
	n := d.nodes[h]
	if n == nil || n.kind != vdom.KindText {
		d.mu.Unlock()
		return
	}
	n.text = text
	m := d.record(Mutation{Op: OpSetText, Target: h, Value: text})
	d.mu.Unlock()
	d.notify(m)
}

// Attribute returns an attribute value.
func (d *Document) Attribute(h vdom.Handle, name string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.nodes[h]
	if n == nil {
		return "", false
	}
	if i := n.attrIndex(name); i >= 0 {
		return n.attrs[i].value, true
	}
	return "", false
}

// SetAttribute sets an attribute, keeping its position if it already exists.
func (d *Document) SetAttribute(h vdom.Handle, name, value string) {
	d.mu.Lock()
	n := d.nodes[h]
	if n == nil || n.kind != vdom.KindElement {
		d.mu.Unlock()
		return
	}
	if i := n.attrIndex(name); i >= 0 {
		n.attrs[i].value = value
	} else {
		n.attrs = append(n.attrs, attribute{name: name, value: value})
	}
	m := d.record(Mutation{Op: OpSetAttr, Target: h, Name: name, Value: value})
	d.mu.Unlock()
	d.notify(m)
}

// RemoveAttribute removes an attribute. Removing a missing attribute is a no-op.
func (d *Document) RemoveAttribute(h vdom.Handle, name string) {
	d.mu.Lock()
	n := d.nodes[h]
	if n == nil {
		d.mu.Unlock()
		return
	}
	i := n.attrIndex(name)
	if i < 0 {
		d.mu.Unlock()
		return
	}
	n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
	m := d.record(Mutation{Op: OpRemoveAttr, Target: h, Name: name})
	d.mu.Unlock()
	d.notify(m)
}

// HasAttributes reports whether the element has any attribute.
func (d *Document) HasAttributes(h vdom.Handle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.nodes[h]
	return n != nil && len(n.attrs) > 0
}

// Attributes returns the element's attributes in insertion order.
func (d *Document) Attributes(h vdom.Handle) []vdom.Attr {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.nodes[h]
	if n == nil || len(n.attrs) == 0 {
		return nil
	}
	out := make([]vdom.Attr, len(n.attrs))
	for i, a := range n.attrs {
		out[i] = vdom.Attr{Key: a.name, Value: vdom.String(a.value)}
	}
	return out
}

// AddListener registers fn for event, replacing any previous listener.
func (d *Document) AddListener(h vdom.Handle, event string, fn vdom.Handler) {
	d.mu.Lock()
	n := d.nodes[h]
	if n == nil {
		d.mu.Unlock()
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string]vdom.Handler)
	}
	n.listeners[event] = fn
	m := d.record(Mutation{Op: OpAddListener, Target: h, Name: event})
	d.mu.Unlock()
	d.notify(m)
}

// RemoveListener unregisters the listener for event.
func (d *Document) RemoveListener(h vdom.Handle, event string) {
	d.mu.Lock()
	n := d.nodes[h]
	if n == nil || n.listeners[event] == nil {
		d.mu.Unlock()
		return
	}
	delete(n.listeners, event)
	m := d.record(Mutation{Op: OpRemoveListener, Target: h, Name: event})
	d.mu.Unlock()
	d.notify(m)
}

// Listeners returns the events h listens for.
func (d *Document) Listeners(h vdom.Handle) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.nodes[h]
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.listeners))
	for ev := range n.listeners {
		out = append(out, ev)
	}
	return out
}

// Parent returns the parent of h, 0 if detached.
func (d *Document) Parent(h vdom.Handle) vdom.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := d.nodes[h]; n != nil {
		return n.parent
	}
	return 0
}

// Children returns a copy of h's child list.
func (d *Document) Children(h vdom.Handle) []vdom.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.nodes[h]
	if n == nil {
		return nil
	}
	return append([]vdom.Handle(nil), n.children...)
}

// NextSibling returns the node following h in its parent, 0 if none.
func (d *Document) NextSibling(h vdom.Handle) vdom.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.nodes[h]
	if n == nil || n.parent == 0 {
		return 0
	}
	p := d.nodes[n.parent]
	i := p.childIndex(h)
	if i < 0 || i+1 >= len(p.children) {
		return 0
	}
	return p.children[i+1]
}

// InsertBefore inserts child into parent before ref. A zero ref, or a ref
// that is not a child of parent, appends. A child attached elsewhere is moved.
func (d *Document) InsertBefore(parent, child, ref vdom.Handle) {
	d.mu.Lock()
	p, c := d.nodes[parent], d.nodes[child]
	if p == nil || c == nil || child == ref || p.kind != vdom.KindElement || d.isAncestor(child, parent) {
		d.mu.Unlock()
		return
	}
	d.detach(c)
	i := -1
	if ref != 0 {
		i = p.childIndex(ref)
	}
	if i < 0 {
		p.children = append(p.children, child)
		ref = 0
	} else {
		p.children = append(p.children, 0)
		copy(p.children[i+1:], p.children[i:])
		p.children[i] = child
	}
	c.parent = parent
	m := d.record(Mutation{Op: OpInsert, Target: child, Parent: parent, Ref: ref})
	d.mu.Unlock()
	d.notify(m)
}

// AppendChild appends child to parent.
func (d *Document) AppendChild(parent, child vdom.Handle) {
	d.InsertBefore(parent, child, 0)
}

// RemoveChild detaches child from parent. The node stays addressable until
// Collect is called.
func (d *Document) RemoveChild(parent, child vdom.Handle) {
	d.mu.Lock()
	c := d.nodes[child]
	if c == nil || c.parent != parent || parent == 0 {
		d.mu.Unlock()
		return
	}
	d.detach(c)
	m := d.record(Mutation{Op: OpRemove, Target: child, Parent: parent})
	d.mu.Unlock()
	d.notify(m)
}

// detach must be called with d.mu held.
func (d *Document) detach(c *node) {
	if c.parent == 0 {
		return
	}
	if p := d.nodes[c.parent]; p != nil {
		if i := p.childIndex(c.id); i >= 0 {
			p.children = append(p.children[:i], p.children[i+1:]...)
		}
	}
	c.parent = 0
}

// isAncestor reports whether a is h or one of its ancestors. Must be called
// with d.mu held.
func (d *Document) isAncestor(a, h vdom.Handle) bool {
	for h != 0 {
		if h == a {
			return true
		}
		n := d.nodes[h]
		if n == nil {
			return false
		}
		h = n.parent
	}
	return false
}

// Property returns the runtime value of a property. "value" falls back to
// the attribute, "checked" and "selected" to attribute presence.
func (d *Document) Property(h vdom.Handle, name string) vdom.Value {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.nodes[h]
	if n == nil {
		return vdom.Absent()
	}
	if v, ok := n.props[name]; ok {
		return v
	}
	i := n.attrIndex(name)
	switch name {
	case "value":
		if i >= 0 {
			return vdom.String(n.attrs[i].value)
		}
		return vdom.String("")
	case "checked", "selected":
		return vdom.Bool(i >= 0)
	}
	if i >= 0 {
		return vdom.String(n.attrs[i].value)
	}
	return vdom.Absent()
}

// SetProperty writes a runtime property.
func (d *Document) SetProperty(h vdom.Handle, name string, v vdom.Value) {
	d.mu.Lock()
	n := d.nodes[h]
	if n == nil {
		d.mu.Unlock()
		return
	}
	d.setProp(n, name, v)
	m := d.record(Mutation{Op: OpSetProperty, Target: h, Name: name, Value: v.String()})
	d.mu.Unlock()
	d.notify(m)
}

func (d *Document) setProp(n *node, name string, v vdom.Value) {
	if n.props == nil {
		n.props = make(map[string]vdom.Value)
	}
	n.props[name] = v
}
