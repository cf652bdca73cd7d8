package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value Value) Attr {
	return Attr{Key: key, Value: value}
}

// Prop creates an arbitrary property from a Go value (see ValueOf).
func Prop(name string, value any) Attr { return attr(name, ValueOf(value)) }

// Key sets the reconciliation key. Strings and numbers are kept distinct.
func Key(key any) Attr {
	if s, ok := key.(string); ok {
		return attr("key", String(s))
	}
	return attr("key", ValueOf(key))
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", String(id)) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", String(strings.Join(classes, " "))) }

// StyleAttr sets the style attribute.
func StyleAttr(style string) Attr { return attr("style", String(style)) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, String(value)) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", String(role)) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", String(label)) }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return attr("title", String(title)) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return attr("tabindex", Int(index)) }

// Hidden sets or clears the hidden attribute.
func Hidden(hidden bool) Attr { return attr("hidden", Bool(hidden)) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", String(url)) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", String(url)) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", String(text)) }

// Form attributes

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", String(t)) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", String(name)) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", String(text)) }

// Disabled sets or clears the disabled attribute.
func Disabled(disabled bool) Attr { return attr("disabled", Bool(disabled)) }

// Controlled properties. These are compared against the live element's
// runtime state, not against the previous render.

// ValueAttr sets the value property.
func ValueAttr(value string) Attr { return attr("value", String(value)) }

// Checked sets the checked property.
func Checked(checked bool) Attr { return attr("checked", Bool(checked)) }

// Selected sets the selected property.
func Selected(selected bool) Attr { return attr("selected", Bool(selected)) }

// IsControlled reports whether a property reflects live user-editable state.
func IsControlled(name string) bool {
	switch name {
	case "value", "checked", "selected":
		return true
	}
	return false
}
