package reconcile

import "github.com/vango-dev/vtree/pkg/vdom"

// Surface is the live presentation layer the renderer mutates.
type Surface interface {
	CreateElement(tag string) vdom.Handle
	CreateText(text string) vdom.Handle

	NodeKind(h vdom.Handle) vdom.Kind
	TagName(h vdom.Handle) string
	Text(h vdom.Handle) string
	SetText(h vdom.Handle, text string)

	SetAttribute(h vdom.Handle, name, value string)
	RemoveAttribute(h vdom.Handle, name string)
	HasAttributes(h vdom.Handle) bool
	Attributes(h vdom.Handle) []vdom.Attr

	// AddListener registers fn for a bare event name. The renderer registers
	// at most one listener per element and event.
	AddListener(h vdom.Handle, event string, fn vdom.Handler)
	RemoveListener(h vdom.Handle, event string)

	Parent(h vdom.Handle) vdom.Handle
	Children(h vdom.Handle) []vdom.Handle
	NextSibling(h vdom.Handle) vdom.Handle
	// InsertBefore inserts or moves child before ref; a zero ref appends.
	InsertBefore(parent, child, ref vdom.Handle)
	AppendChild(parent, child vdom.Handle)
	RemoveChild(parent, child vdom.Handle)

	// Property reads the runtime value of value, checked or selected, which
	// user interaction can change independently of attributes.
	Property(h vdom.Handle, name string) vdom.Value
	SetProperty(h vdom.Handle, name string, v vdom.Value)
}
