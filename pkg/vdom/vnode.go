package vdom

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <button>, etc.
	KindText                // Plain text node
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Handle identifies a live node owned by a surface. Zero means no node.
type Handle uint64

// NodeKey is an identity token used to match children across reorders.
// The zero NodeKey means "no key". String and numeric keys never compare equal.
type NodeKey struct {
	text    string
	num     float64
	numeric bool
	set     bool
}

// StringKey returns a string key.
func StringKey(s string) NodeKey { return NodeKey{text: s, set: true} }

// NumberKey returns a numeric key.
func NumberKey(n float64) NodeKey { return NodeKey{num: n, numeric: true, set: true} }

// IsSet reports whether the key carries an identity.
func (k NodeKey) IsSet() bool { return k.set }

// String returns the key as text.
func (k NodeKey) String() string {
	switch {
	case !k.set:
		return ""
	case k.numeric:
		return strconv.FormatFloat(k.num, 'f', -1, 64)
	default:
		return k.text
	}
}

// Number returns the numeric key and whether the key is numeric.
func (k NodeKey) Number() (float64, bool) { return k.num, k.numeric }

// keyFromValue derives a key from a "key" property.
func keyFromValue(v Value) NodeKey {
	switch v.Kind() {
	case ValueString:
		return StringKey(v.str)
	case ValueNumber:
		return NumberKey(v.num)
	default:
		return NodeKey{}
	}
}

// VNode is a virtual node.
type VNode struct {
	Kind     Kind     // Node type
	Name     string   // Tag name for elements, content for text nodes
	Props    Props    // Attributes and event handlers
	Children []*VNode // Child nodes
	Key      NodeKey  // Reconciliation key

	live Handle
}

// Live returns the live node this VNode was last rendered into.
func (v *VNode) Live() Handle {
	if v == nil {
		return 0
	}
	return v.live
}

// SetLive records the live node for this VNode. Only the renderer and
// extraction should call it; the renderer keeps the reverse link.
func (v *VNode) SetLive(h Handle) {
	v.live = h
}

// IsText reports whether the node is a text node.
func (v *VNode) IsText() bool {
	return v != nil && v.Kind == KindText
}

// Validate checks the node's own shape (not its children).
func (v *VNode) Validate() error {
	switch {
	case v == nil:
		return fmt.Errorf("nil node")
	case v.Kind == KindText:
		if len(v.Children) > 0 {
			return fmt.Errorf("text node %q has %d children", v.Name, len(v.Children))
		}
		if len(v.Props) > 0 {
			return fmt.Errorf("text node %q has %d props", v.Name, len(v.Props))
		}
	case v.Kind == KindElement:
		if v.Name == "" {
			return fmt.Errorf("element without a tag name")
		}
	default:
		return fmt.Errorf("unknown node kind %d", v.Kind)
	}
	return nil
}

// String returns a short description of the node, e.g. `<li key=2>` or `"hi"`.
func (v *VNode) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.Kind == KindText {
		return strconv.Quote(v.Name)
	}
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(v.Name)
	if v.Key.IsSet() {
		b.WriteString(" key=")
		b.WriteString(v.Key.String())
	}
	b.WriteString(">")
	return b.String()
}

// Attr represents a single property.
type Attr struct {
	Key   string
	Value Value
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Event is delivered to handlers.
type Event struct {
	Type   string // Bare event name, e.g. "click"
	Target Handle // Live node the event was dispatched to
	Value  string // Payload for input-like events
}

// Handler handles an event.
type Handler func(Event)

// EventHandler pairs an event property name with its handler.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler Handler
}

// IsEventProp reports whether a property name binds an event handler.
func IsEventProp(name string) bool {
	return len(name) > 2 && strings.EqualFold(name[:2], "on")
}

// EventName returns the bare event name of an event property ("onClick" -> "click").
func EventName(prop string) string {
	if !IsEventProp(prop) {
		return ""
	}
	return strings.ToLower(prop[2:])
}
