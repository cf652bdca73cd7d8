package treefile

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vdom"
)

var treeOpts = cmp.Options{
	cmpopts.IgnoreUnexported(vdom.VNode{}),
	cmp.Comparer(func(a, b vdom.Value) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b vdom.NodeKey) bool { return a == b }),
	cmpopts.EquateEmpty(),
}

func TestDecode(t *testing.T) {
	src := `
tag: ul
props:
  class: list
  tabindex: 0
  hidden: false
children:
  - tag: li
    key: 1
    children: [one]
  - tag: li
    key: "1"
    children:
      - two
      - 3
  - plain
`
	got, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := vdom.H("ul", vdom.Props{
		"class":    vdom.String("list"),
		"tabindex": vdom.Int(0),
		"hidden":   vdom.Bool(false),
	},
		vdom.H("li", vdom.Props{"key": vdom.Int(1)}, "one"),
		vdom.H("li", vdom.Props{"key": vdom.String("1")}, "two", "3"),
		"plain",
	)
	if diff := cmp.Diff(want, got, treeOpts); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
	if got.Children[0].Key == got.Children[1].Key {
		t.Errorf("numeric and string keys decoded equal")
	}
}

func TestDecodeJSON(t *testing.T) {
	src := `{"tag": "p", "props": {"id": "x"}, "children": ["hi", {"tag": "br"}]}`
	got, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := vdom.H("p", vdom.Props{"id": vdom.String("x")}, "hi", vdom.H("br", nil))
	if diff := cmp.Diff(want, got, treeOpts); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeHandlers(t *testing.T) {
	clicks := 0
	save := vdom.Handler(func(vdom.Event) { clicks++ })
	src := "tag: button\nprops:\n  onClick: save\nchildren: [Save]\n"

	got, err := Decode([]byte(src), WithHandlers(map[string]vdom.Handler{"save": save}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	v := got.Props["onClick"]
	if v.Kind() != vdom.ValueHandler {
		t.Fatalf("onClick = %v, want handler", v)
	}
	v.Handler()(vdom.Event{Type: "click"})
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		path string
		msg  string
	}{
		{"empty", "", "0", "empty document"},
		{"missing tag", "props: {a: b}", "0", "string tag"},
		{"unknown field", "tag: div\nchildern: []", "0", `unknown field "childern"`},
		{"list node", "tag: div\nchildren:\n  - [a, b]", "0/0", "cannot be a list"},
		{"null child", "tag: div\nchildren:\n  - tag: p\n  - null", "0/1", "null node"},
		{"nested prop", "tag: div\nprops:\n  style: {color: red}", "0", "must be a scalar"},
		{"unknown handler", "tag: a\nprops:\n  onclick: nope", "0", `unknown handler "nope"`},
		{"handler not a name", "tag: a\nprops:\n  onclick: 3", "0", "must name a handler"},
		{"bad key", "tag: li\nkey: [1]", "0", "string or a number"},
		{"children not a list", "tag: ul\nchildren: x", "0", "must be a list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.src))
			if err == nil {
				t.Fatal("Decode succeeded")
			}
			if !errors.Is(err, vterrors.New(vterrors.CodeInvalidTree)) {
				t.Errorf("error %v is not %s", err, vterrors.CodeInvalidTree)
			}
			var ve *vterrors.Error
			if !errors.As(err, &ve) {
				t.Fatalf("error %T is not *errors.Error", err)
			}
			if ve.Path != tt.path {
				t.Errorf("Path = %q, want %q", ve.Path, tt.path)
			}
			if !strings.Contains(ve.Detail, tt.msg) {
				t.Errorf("Detail = %q, want it to mention %q", ve.Detail, tt.msg)
			}
		})
	}
}

func TestDecodeSyntaxError(t *testing.T) {
	_, err := Decode([]byte("tag: [unclosed"))
	if !errors.Is(err, vterrors.New(vterrors.CodeInvalidTree)) {
		t.Fatalf("Decode = %v, want %s", err, vterrors.CodeInvalidTree)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	save := vdom.Handler(func(vdom.Event) {})
	handlers := map[string]vdom.Handler{"save": save}
	tree := vdom.Div(vdom.Class("card"), vdom.TabIndex(2), vdom.Disabled(true),
		vdom.Ul(
			vdom.Li(vdom.Key(7), "seven"),
			vdom.Li(vdom.Key("x"), "ex"),
		),
		vdom.Button(vdom.OnClick(save), "Save"),
		"tail",
	)

	for _, opts := range [][]Option{
		{WithHandlers(handlers)},
		{WithHandlers(handlers), AsJSON()},
	} {
		data, err := Encode(tree, opts...)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		back, err := Decode(data, WithHandlers(handlers))
		if err != nil {
			t.Fatalf("Decode(Encode()): %v\n%s", err, data)
		}
		if diff := cmp.Diff(tree, back, treeOpts); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s\n%s", diff, data)
		}
	}
}

func TestEncodeYAMLShape(t *testing.T) {
	data, err := Encode(vdom.Li(vdom.Key(1), vdom.ID("a"), "one"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "tag: li\nkey: 1\nprops:\n  id: a\nchildren:\n- one\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("Encode mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDropsUnnamedHandlers(t *testing.T) {
	data, err := Encode(vdom.Button(vdom.OnClick(func(vdom.Event) {})))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(string(data), "onclick") {
		t.Errorf("unnamed handler encoded:\n%s", data)
	}
	if _, err := Encode(nil); err == nil {
		t.Errorf("Encode(nil) succeeded")
	}
}
