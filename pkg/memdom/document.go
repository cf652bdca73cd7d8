package memdom

import (
	"slices"
	"sync"

	"github.com/vango-dev/vtree/pkg/vdom"
)

type attribute struct {
	name  string
	value string
}

type node struct {
	id        vdom.Handle
	kind      vdom.Kind
	tag       string
	text      string
	attrs     []attribute
	props     map[string]vdom.Value
	listeners map[string]vdom.Handler
	parent    vdom.Handle
	children  []vdom.Handle
}

func (n *node) attrIndex(name string) int {
	for i, a := range n.attrs {
		if a.name == name {
			return i
		}
	}
	return -1
}

func (n *node) childIndex(h vdom.Handle) int {
	for i, c := range n.children {
		if c == h {
			return i
		}
	}
	return -1
}

// Document is an in-memory live tree. It is safe for concurrent use;
// listeners and mutation observers run outside the internal lock.
type Document struct {
	mu        sync.Mutex
	nodes     map[vdom.Handle]*node
	next      vdom.Handle
	body      vdom.Handle
	seq       uint64
	log       []Mutation
	counts    map[Op]int
	observers []func(Mutation)
}

// New returns a document holding an empty <body>.
func New() *Document {
	d := &Document{
		nodes:  make(map[vdom.Handle]*node),
		counts: make(map[Op]int),
	}
	d.body = d.alloc(&node{kind: vdom.KindElement, tag: "body"})
	return d
}

// Body returns the document's root element.
func (d *Document) Body() vdom.Handle {
	return d.body
}

func (d *Document) alloc(n *node) vdom.Handle {
	d.next++
	n.id = d.next
	d.nodes[n.id] = n
	return n.id
}

// record must be called with d.mu held.
func (d *Document) record(m Mutation) Mutation {
	d.seq++
	m.Seq = d.seq
	d.log = append(d.log, m)
	d.counts[m.Op]++
	return m
}

func (d *Document) notify(m Mutation) {
	d.mu.Lock()
	observers := slices.Clone(d.observers)
	d.mu.Unlock()
	for _, fn := range observers {
		fn(m)
	}
}

// OnMutation registers fn to be called after every logged mutation.
func (d *Document) OnMutation(fn func(Mutation)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, fn)
}

// Mutations returns a copy of the mutation log.
func (d *Document) Mutations() []Mutation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Mutation(nil), d.log...)
}

// Count returns how many mutations of op were logged since the last reset.
func (d *Document) Count(op Op) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[op]
}

// Counts returns per-op mutation counts since the last reset.
func (d *Document) Counts() map[Op]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[Op]int, len(d.counts))
	for op, n := range d.counts {
		out[op] = n
	}
	return out
}

// ResetLog clears the mutation log and counters.
func (d *Document) ResetLog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = nil
	d.counts = make(map[Op]int)
}

// Contains reports whether h names a node of this document.
func (d *Document) Contains(h vdom.Handle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.nodes[h]
	return ok
}

// Attached reports whether h is reachable from the body.
func (d *Document) Attached(h vdom.Handle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for h != 0 {
		if h == d.body {
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

// Len returns the number of nodes held, attached or not.
func (d *Document) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.nodes)
}

// Collect drops every node that is not reachable from the body and returns
// how many were dropped.
func (d *Document) Collect() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	live := make(map[vdom.Handle]bool, len(d.nodes))
	var mark func(h vdom.Handle)
	mark = func(h vdom.Handle) {
		live[h] = true
		for _, c := range d.nodes[h].children {
			mark(c)
		}
	}
	mark(d.body)

	dropped := 0
	for h := range d.nodes {
		if !live[h] {
			delete(d.nodes, h)
			dropped++
		}
	}
	return dropped
}
