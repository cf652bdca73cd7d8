// Package treefile reads and writes virtual trees as YAML or JSON.
//
// A node is either a scalar, which becomes a text node, or a mapping:
//
//	tag: ul
//	props:
//	  class: list
//	  onclick: select
//	children:
//	  - tag: li
//	    key: 1
//	    children: [one]
//	  - two
//
// key may be a string or a number; "1" and 1 are different keys. Props hold
// scalars. Event props (on*) name a handler registered with WithHandlers.
// JSON documents are accepted as they are valid YAML.
package treefile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/goccy/go-yaml"
	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Option configures decoding and encoding.
type Option func(*options)

type options struct {
	handlers map[string]vdom.Handler
	json     bool
}

// WithHandlers makes named handlers available to event props. Encode uses
// the same table to name bound handlers.
func WithHandlers(handlers map[string]vdom.Handler) Option {
	return func(o *options) {
		o.handlers = handlers
	}
}

// AsJSON makes Encode emit JSON instead of YAML.
func AsJSON() Option {
	return func(o *options) {
		o.json = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Decode parses a tree description.
func Decode(data []byte, opts ...Option) (*vdom.VNode, error) {
	o := buildOptions(opts)
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, vterrors.New(vterrors.CodeInvalidTree).
			WithDetail(yaml.FormatError(err, false, true)).
			Wrap(err)
	}
	if raw == nil {
		return nil, invalid("0", "empty document")
	}
	return o.node(raw, "0")
}

// DecodeFile reads and parses the tree description at path.
func DecodeFile(path string, opts ...Option) (*vdom.VNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree file: %w", err)
	}
	n, err := Decode(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

func invalid(path, format string, args ...any) *vterrors.Error {
	return vterrors.New(vterrors.CodeInvalidTree).WithPath(path).WithDetailf(format, args...)
}

func (o *options) node(raw any, path string) (*vdom.VNode, error) {
	switch v := raw.(type) {
	case map[string]any:
		return o.element(v, path)
	case []any:
		return nil, invalid(path, "a node cannot be a list")
	case nil:
		return nil, invalid(path, "null node")
	default:
		return vdom.Text(scalarText(v)), nil
	}
}

func (o *options) element(m map[string]any, path string) (*vdom.VNode, error) {
	for field := range m {
		switch field {
		case "tag", "key", "props", "children":
		default:
			return nil, invalid(path, "unknown field %q", field)
		}
	}

	tag, ok := m["tag"].(string)
	if !ok || tag == "" {
		return nil, invalid(path, "element needs a string tag")
	}

	props := make(vdom.Props)
	if rawProps, ok := m["props"]; ok && rawProps != nil {
		pm, ok := rawProps.(map[string]any)
		if !ok {
			return nil, invalid(path, "props must be a mapping")
		}
		for name, rv := range pm {
			v, err := o.prop(name, rv, path)
			if err != nil {
				return nil, err
			}
			props[name] = v
		}
	}

	if rk, ok := m["key"]; ok && rk != nil {
		k := vdom.ValueOf(rk)
		if k.Kind() != vdom.ValueString && k.Kind() != vdom.ValueNumber {
			return nil, invalid(path, "key must be a string or a number")
		}
		props["key"] = k
	}

	var children []any
	if rc, ok := m["children"]; ok && rc != nil {
		list, ok := rc.([]any)
		if !ok {
			return nil, invalid(path, "children must be a list")
		}
		for i, c := range list {
			child, err := o.node(c, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
	}

	return vdom.H(tag, props, children...), nil
}

func (o *options) prop(name string, raw any, path string) (vdom.Value, error) {
	if vdom.IsEventProp(name) {
		handlerName, ok := raw.(string)
		if !ok {
			return vdom.Value{}, invalid(path, "event prop %q must name a handler", name)
		}
		h := o.handlers[handlerName]
		if h == nil {
			return vdom.Value{}, invalid(path, "unknown handler %q for %s", handlerName, name).
				WithSuggestion("register it with treefile.WithHandlers")
		}
		return vdom.HandlerValue(h), nil
	}
	switch raw.(type) {
	case map[string]any, []any:
		return vdom.Value{}, invalid(path, "prop %q must be a scalar", name)
	}
	v := vdom.ValueOf(raw)
	if v.Kind() == vdom.ValueAbsent && raw != nil {
		return vdom.Value{}, invalid(path, "prop %q has unsupported type %T", name, raw)
	}
	return v, nil
}

func scalarText(v any) string {
	switch s := v.(type) {
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// Encode writes n in the format Decode reads. Handlers are written by the
// name they were registered under with WithHandlers, and omitted otherwise.
func Encode(n *vdom.VNode, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)
	raw, err := o.encodeNode(n)
	if err != nil {
		return nil, err
	}
	if o.json {
		return yaml.MarshalWithOptions(raw, yaml.JSON())
	}
	return yaml.Marshal(raw)
}

func (o *options) encodeNode(n *vdom.VNode) (any, error) {
	if n == nil {
		return nil, fmt.Errorf("encode: nil node")
	}
	if n.IsText() {
		return n.Name, nil
	}

	out := yaml.MapSlice{{Key: "tag", Value: n.Name}}
	if n.Key.IsSet() {
		if num, ok := n.Key.Number(); ok {
			out = append(out, yaml.MapItem{Key: "key", Value: number(num)})
		} else {
			out = append(out, yaml.MapItem{Key: "key", Value: n.Key.String()})
		}
	}

	names := make([]string, 0, len(n.Props))
	for name := range n.Props {
		if name != "key" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	var props yaml.MapSlice
	for _, name := range names {
		v := n.Props[name]
		switch v.Kind() {
		case vdom.ValueAbsent:
			continue
		case vdom.ValueString:
			props = append(props, yaml.MapItem{Key: name, Value: v.Str()})
		case vdom.ValueBool:
			props = append(props, yaml.MapItem{Key: name, Value: v.BoolValue()})
		case vdom.ValueNumber:
			props = append(props, yaml.MapItem{Key: name, Value: number(v.Num())})
		case vdom.ValueHandler:
			if hn := o.handlerName(v); hn != "" {
				props = append(props, yaml.MapItem{Key: name, Value: hn})
			}
		}
	}
	if len(props) > 0 {
		out = append(out, yaml.MapItem{Key: "props", Value: props})
	}

	if len(n.Children) > 0 {
		children := make([]any, 0, len(n.Children))
		for _, c := range n.Children {
			rc, err := o.encodeNode(c)
			if err != nil {
				return nil, err
			}
			children = append(children, rc)
		}
		out = append(out, yaml.MapItem{Key: "children", Value: children})
	}
	return out, nil
}

// number writes integral values without a fractional part.
func number(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

func (o *options) handlerName(v vdom.Value) string {
	names := make([]string, 0, len(o.handlers))
	for name := range o.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if vdom.HandlerValue(o.handlers[name]).Equal(v) {
			return name
		}
	}
	return ""
}
