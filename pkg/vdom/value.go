package vdom

import (
	"reflect"
	"strconv"
)

// ValueKind discriminates Value.
type ValueKind uint8

const (
	ValueAbsent ValueKind = iota
	ValueString
	ValueBool
	ValueNumber
	ValueHandler
)

// String returns the string representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case ValueAbsent:
		return "Absent"
	case ValueString:
		return "String"
	case ValueBool:
		return "Bool"
	case ValueNumber:
		return "Number"
	case ValueHandler:
		return "Handler"
	default:
		return "Unknown"
	}
}

// Value is a property value. The zero Value is absent.
type Value struct {
	kind    ValueKind
	str     string
	boolean bool
	num     float64
	handler Handler
}

// Props holds attributes and event handlers.
type Props map[string]Value

// String returns a string value.
func String(s string) Value { return Value{kind: ValueString, str: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: ValueBool, boolean: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: ValueNumber, num: n} }

// Int returns a numeric value from an int.
func Int(n int) Value { return Number(float64(n)) }

// HandlerValue returns an event handler value.
func HandlerValue(h Handler) Value { return Value{kind: ValueHandler, handler: h} }

// Absent returns the absent value.
func Absent() Value { return Value{} }

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// Str returns the string payload.
func (v Value) Str() string { return v.str }

// BoolValue returns the boolean payload.
func (v Value) BoolValue() bool { return v.boolean }

// Num returns the numeric payload.
func (v Value) Num() float64 { return v.num }

// Handler returns the handler payload, nil unless the value is a handler.
func (v Value) Handler() Handler { return v.handler }

// Empty reports whether the value removes its property: absent, nil handler,
// false, or the empty string. Numbers are never empty.
func (v Value) Empty() bool {
	switch v.kind {
	case ValueAbsent:
		return true
	case ValueString:
		return v.str == ""
	case ValueBool:
		return !v.boolean
	case ValueHandler:
		return v.handler == nil
	default:
		return false
	}
}

// Truthy reports the boolean reading of the value as used by boolean
// properties such as "checked". A present string counts as true, matching
// HTML boolean attributes.
func (v Value) Truthy() bool {
	switch v.kind {
	case ValueString:
		return true
	case ValueBool:
		return v.boolean
	case ValueNumber:
		return v.num != 0
	case ValueHandler:
		return v.handler != nil
	default:
		return false
	}
}

// Text returns the attribute string form of the value.
func (v Value) Text() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueBool:
		return strconv.FormatBool(v.boolean)
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Equal compares kind and payload. Handlers compare by function identity.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueString:
		return v.str == o.str
	case ValueBool:
		return v.boolean == o.boolean
	case ValueNumber:
		return v.num == o.num
	case ValueHandler:
		return sameHandler(v.handler, o.handler)
	default:
		return true
	}
}

// String implements fmt.Stringer for debugging.
func (v Value) String() string {
	switch v.kind {
	case ValueString:
		return strconv.Quote(v.str)
	case ValueHandler:
		if v.handler == nil {
			return "handler(nil)"
		}
		return "handler"
	case ValueAbsent:
		return "absent"
	default:
		return v.Text()
	}
}

func sameHandler(a, b Handler) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// ValueOf converts a Go value into a Value. Supported: Value, string, bool,
// integer and float types, Handler and func(Event). Anything else is absent.
func ValueOf(x any) Value {
	switch v := x.(type) {
	case Value:
		return v
	case string:
		return String(v)
	case bool:
		return Bool(v)
	case int:
		return Int(v)
	case int32:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case float32:
		return Number(float64(v))
	case float64:
		return Number(v)
	case Handler:
		return HandlerValue(v)
	case func(Event):
		return HandlerValue(v)
	default:
		return Absent()
	}
}
