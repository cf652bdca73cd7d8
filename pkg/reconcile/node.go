package reconcile

import (
	"errors"
	"fmt"

	"github.com/vango-dev/vtree/pkg/vdom"
)

var errNilNode = errors.New("nil node")

// reconcile makes the live counterpart of old match next under parent and
// returns the live node now representing next, or 0 if it failed. anchor is
// where a freshly created node goes when old is nil.
func (p *pass) reconcile(parent vdom.Handle, old, next *vdom.VNode, anchor vdom.Handle, path string) vdom.Handle {
	if next == nil {
		p.report(structural(path, errNilNode))
		return 0
	}
	if old == next {
		p.stats.Skipped++
		h := p.liveOf(next)
		p.r.bind(h, next)
		return h
	}
	if err := next.Validate(); err != nil {
		p.report(structural(path, err))
		return 0
	}

	switch {
	case old != nil && old.IsText() && next.IsText():
		h := p.liveOf(old)
		if h == 0 {
			p.report(missingLive(path, fmt.Sprintf("text %s was never rendered", old)))
			return 0
		}
		if p.r.surface.Text(h) != next.Name {
			p.r.surface.SetText(h, next.Name)
			p.stats.TextUpdates++
		}
		p.r.bind(h, next)
		return h

	case old == nil || old.Kind != next.Kind || old.Name != next.Name:
		return p.replace(parent, old, next, anchor, path)

	default:
		if !p.update(old, next, path) {
			return 0
		}
		h := p.liveOf(old)
		p.r.bind(h, next)
		return h
	}
}

// update patches a same-tag element in place. It does not bind.
func (p *pass) update(old, next *vdom.VNode, path string) bool {
	h := p.liveOf(old)
	if h == 0 {
		p.report(missingLive(path, fmt.Sprintf("element %s was never rendered", old)))
		return false
	}
	p.applyProps(h, old.Props, next.Props, path)
	p.children(h, old.Children, next.Children, path)
	return true
}

// replace builds next from scratch and swaps it in for old. If old is nil
// the new subtree is inserted before anchor.
func (p *pass) replace(parent vdom.Handle, old, next *vdom.VNode, anchor vdom.Handle, path string) vdom.Handle {
	ref := anchor
	if old != nil {
		ref = p.liveOf(old)
		if ref == 0 {
			p.report(missingLive(path, fmt.Sprintf("cannot replace %s: never rendered", old)))
			return 0
		}
	}

	h := p.create(next, path)
	if h == 0 {
		return 0
	}
	p.r.surface.InsertBefore(parent, h, ref)
	p.stats.Inserted++
	if old != nil {
		p.stats.Replaced++
		p.remove(parent, old)
	}
	return h
}

// create builds the live subtree for n and binds every node in it.
func (p *pass) create(n *vdom.VNode, path string) vdom.Handle {
	if n == nil {
		p.report(structural(path, errNilNode))
		return 0
	}
	if err := n.Validate(); err != nil {
		p.report(structural(path, err))
		return 0
	}

	s := p.r.surface
	if n.IsText() {
		h := s.CreateText(n.Name)
		p.stats.Created++
		p.r.bind(h, n)
		return h
	}

	h := s.CreateElement(n.Name)
	p.stats.Created++
	p.applyProps(h, nil, n.Props, path)
	for i, c := range n.Children {
		ch := p.create(c, childPath(path, i))
		if ch == 0 {
			continue
		}
		s.AppendChild(h, ch)
	}
	p.r.bind(h, n)
	return h
}

// remove detaches old's live node from parent and forgets its subtree.
func (p *pass) remove(parent vdom.Handle, old *vdom.VNode) {
	h := p.liveOf(old)
	if h == 0 {
		return
	}
	p.r.release(h)
	p.r.surface.RemoveChild(parent, h)
	p.stats.Removed++
}
