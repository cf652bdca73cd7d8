package vdom

import "fmt"

// H creates an element node. String children become text nodes, []*VNode
// children are flattened and nil children are skipped. The key is read from
// props["key"].
func H(name string, props Props, children ...any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Name:  name,
		Props: props,
	}
	if node.Props == nil {
		node.Props = make(Props)
	}
	if k, ok := node.Props["key"]; ok {
		node.Key = keyFromValue(k)
	}
	for _, child := range children {
		node.appendChild(child)
	}
	return node
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Name: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

func (v *VNode) appendChild(child any) {
	switch c := child.(type) {
	case nil:
	case *VNode:
		if c != nil {
			v.Children = append(v.Children, c)
		}
	case []*VNode:
		for _, n := range c {
			if n != nil {
				v.Children = append(v.Children, n)
			}
		}
	case string:
		v.Children = append(v.Children, Text(c))
	}
}

// setProp stores a property, keeping Key in sync.
func (v *VNode) setProp(name string, value Value) {
	if name == "" {
		return
	}
	v.Props[name] = value
	if name == "key" {
		v.Key = keyFromValue(value)
	}
}

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, string, EventHandler.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Name:  tag,
		Props: make(Props),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			node.setProp(v.Key, v.Value)
		case []Attr:
			for _, a := range v {
				node.setProp(a.Key, a.Value)
			}
		case EventHandler:
			node.setProp(v.Event, HandlerValue(v.Handler))
		default:
			node.appendChild(v)
		}
	}

	return node
}
