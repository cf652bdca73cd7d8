package reconcile

import (
	"fmt"
	"sort"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// applyProps brings the properties of live element h from old to next.
// Names are visited in sorted order so that mutation sequences are stable.
func (p *pass) applyProps(h vdom.Handle, old, next vdom.Props, path string) {
	for _, name := range propNames(old, next) {
		if name == "key" {
			continue
		}
		ov, nv := old[name], next[name]
		switch {
		case vdom.IsEventProp(name):
			p.applyHandler(h, vdom.EventName(name), nv, path)
		case vdom.IsControlled(name):
			p.applyControlled(h, name, nv)
		default:
			p.applyAttr(h, name, ov, nv, path)
		}
	}
}

func propNames(old, next vdom.Props) []string {
	names := make([]string, 0, len(old)+len(next))
	for name := range old {
		names = append(names, name)
	}
	for name := range next {
		if _, ok := old[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// applyHandler updates the handler table entry for event. The surface only
// ever sees the renderer's dispatcher, registered once per event.
func (p *pass) applyHandler(h vdom.Handle, event string, nv vdom.Value, path string) {
	r := p.r
	prev, had := r.handler(h, event)

	if nv.Empty() {
		if had {
			r.setHandler(h, event, nil)
			r.surface.RemoveListener(h, event)
			p.stats.ListenersRemoved++
		}
		return
	}
	if nv.Kind() != vdom.ValueHandler {
		p.report(structural(path, fmt.Errorf("event property on%s holds a %s, not a handler", event, nv.Kind())))
		return
	}

	r.setHandler(h, event, nv.Handler())
	if !had {
		r.surface.AddListener(h, event, r.dispatch)
		p.stats.ListenersAdded++
	} else if !vdom.HandlerValue(prev).Equal(nv) {
		p.stats.HandlersRebound++
	}
}

// applyControlled compares against the runtime property rather than the
// previous virtual value, since user input changes it behind our back.
func (p *pass) applyControlled(h vdom.Handle, name string, nv vdom.Value) {
	live := p.r.surface.Property(h, name)
	var same bool
	if name == "value" {
		same = live.Text() == nv.Text()
	} else {
		same = live.Truthy() == nv.Truthy()
	}
	if same {
		return
	}
	p.r.surface.SetProperty(h, name, nv)
	p.stats.PropsWritten++
}

func (p *pass) applyAttr(h vdom.Handle, name string, ov, nv vdom.Value, path string) {
	if nv.Kind() == vdom.ValueHandler {
		p.report(structural(path, fmt.Errorf("handler assigned to non-event property %q", name)))
		return
	}
	if nv.Empty() {
		if !ov.Empty() {
			p.r.surface.RemoveAttribute(h, name)
			p.stats.AttrsRemoved++
		}
		return
	}
	if !ov.Empty() && ov.Kind() != vdom.ValueHandler && ov.Text() == nv.Text() {
		return
	}
	p.r.surface.SetAttribute(h, name, nv.Text())
	p.stats.AttrsSet++
}
