package reconcile

import "github.com/vango-dev/vtree/pkg/vdom"

// children reconciles the child lists of live element parent. It walks both
// lists once with cursors i (old) and j (next). Keyed identity beats
// position: a keyed old child is reused wherever its key reappears.
func (p *pass) children(parent vdom.Handle, oldList, next []*vdom.VNode, path string) {
	s := p.r.surface

	old := make([]*vdom.VNode, 0, len(oldList))
	for _, o := range oldList {
		if o != nil {
			old = append(old, o)
		}
	}

	// tail is the live node right after the old list, so appends land in
	// place even when parent has children the lists do not describe.
	var tail vdom.Handle
	if n := len(old); n > 0 {
		if h := p.liveOf(old[n-1]); h != 0 {
			tail = s.NextSibling(h)
		}
	}

	keyed := make(map[vdom.NodeKey]*vdom.VNode)
	for _, o := range old {
		if o.Key.IsSet() {
			keyed[o.Key] = o
		}
	}
	wanted := make(map[vdom.NodeKey]bool)
	for _, n := range next {
		if n != nil && n.Key.IsSet() {
			wanted[n.Key] = true
		}
	}
	consumed := make(map[vdom.NodeKey]bool)
	settled := make(map[*vdom.VNode]bool)

	// anchorOf returns the live node that new content at cursor i goes
	// before. Settled old nodes past the cursor were moved up already.
	anchorOf := func(i int) vdom.Handle {
		for ; i < len(old); i++ {
			if settled[old[i]] {
				continue
			}
			if h := p.liveOf(old[i]); h != 0 {
				return h
			}
		}
		return tail
	}

	i, j := 0, 0
	for j < len(next) {
		n := next[j]
		cp := childPath(path, j)
		if n == nil {
			p.report(structural(cp, errNilNode))
			j++
			continue
		}

		var o *vdom.VNode
		if i < len(old) {
			o = old[i]
		}

		switch {
		case o != nil && o.Key.IsSet() && (consumed[o.Key] || settled[o]):
			i++

		case o != nil && o.Key.IsSet() && !wanted[o.Key]:
			p.remove(parent, o)
			settled[o] = true
			i++

		case o != nil && !o.Key.IsSet() && !n.Key.IsSet():
			p.reconcile(parent, o, n, 0, cp)
			settled[o] = true
			i++
			j++

		case o != nil && n.Key.IsSet() && o.Key == n.Key && keyed[n.Key] == o:
			p.reconcile(parent, o, n, 0, cp)
			settled[o] = true
			consumed[n.Key] = true
			i++
			j++

		case n.Key.IsSet():
			anchor := anchorOf(i)
			if m := keyed[n.Key]; m != nil && !consumed[n.Key] && !settled[m] {
				h := p.reconcile(parent, m, n, anchor, cp)
				if h != 0 && h != anchor && s.NextSibling(h) != anchor {
					s.InsertBefore(parent, h, anchor)
					p.stats.Moved++
				}
				settled[m] = true
			} else {
				p.reconcile(parent, nil, n, anchor, cp)
			}
			consumed[n.Key] = true
			j++

		default:
			// Unkeyed new child facing a keyed old child or the end of the
			// old list.
			p.reconcile(parent, nil, n, anchorOf(i), cp)
			j++
		}
	}

	for ; i < len(old); i++ {
		if o := old[i]; !o.Key.IsSet() && !settled[o] {
			p.remove(parent, o)
			settled[o] = true
		}
	}
	for _, o := range old {
		if !settled[o] {
			p.remove(parent, o)
			settled[o] = true
		}
	}
}
