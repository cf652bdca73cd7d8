package reconcile

import "github.com/vango-dev/vtree/pkg/vdom"

// Extract returns the virtual tree for the live node h. A node that was
// rendered before yields the VNode it is bound to; anything else is read
// from the surface: text as-is, elements with every attribute as a string
// property. Handlers cannot be read back. Extraction never binds.
func (r *Renderer) Extract(h vdom.Handle) *vdom.VNode {
	if h == 0 {
		return nil
	}
	if n := r.bound[h]; n != nil {
		return n
	}

	if r.surface.NodeKind(h) == vdom.KindText {
		n := vdom.Text(r.surface.Text(h))
		n.SetLive(h)
		return n
	}

	n := &vdom.VNode{
		Kind:  vdom.KindElement,
		Name:  r.surface.TagName(h),
		Props: make(vdom.Props),
	}
	if r.surface.HasAttributes(h) {
		for _, a := range r.surface.Attributes(h) {
			n.Props[a.Key] = a.Value
		}
	}
	for _, c := range r.surface.Children(h) {
		n.Children = append(n.Children, r.Extract(c))
	}
	n.SetLive(h)
	return n
}
