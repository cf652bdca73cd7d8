// Package vdom provides the virtual node model for vtree.
//
// A VNode describes one node of the desired UI: an element with a tag name,
// typed properties and children, or a text node. Trees are cheap to build and
// are handed to reconcile.Renderer, which diffs them against the previous
// render and mutates the live surface.
//
// # Core Types
//
// VNode is the building block. Props maps property names to Value, a tagged
// variant over string, bool, number and event handler. NodeKey identifies a child
// across reorders. Handle names a live node owned by the surface.
//
// # Building Trees
//
// H is the general constructor:
//
//	H("ul", Props{"class": String("list")},
//	    H("li", Props{"key": Int(1)}, "one"),
//	    H("li", Props{"key": Int(2)}, "two"),
//	)
//
// The element helpers take variadic arguments for the same result:
//
//	Ul(Class("list"),
//	    Li(Key(1), "one"),
//	    Li(Key(2), "two"),
//	    OnClick(func(e Event) { ... }),
//	)
//
// # Events
//
// Properties whose name starts with "on" bind event handlers. The bare event
// name is the lower-cased remainder, so "onClick" and "onclick" both listen
// for "click".
package vdom
