package memdom

import (
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/vtree/pkg/vdom"
)

func TestNewDocument(t *testing.T) {
	d := New()
	if d.Body() == 0 {
		t.Fatal("Body() = 0")
	}
	if d.TagName(d.Body()) != "body" {
		t.Errorf("TagName(body) = %q", d.TagName(d.Body()))
	}
	if len(d.Mutations()) != 0 {
		t.Error("new document should have an empty log")
	}
}

func TestCreateAndAppend(t *testing.T) {
	d := New()
	ul := d.CreateElement("ul")
	li := d.CreateElement("li")
	txt := d.CreateText("one")
	d.AppendChild(li, txt)
	d.AppendChild(ul, li)
	d.AppendChild(d.Body(), ul)

	if got := d.HTML(d.Body()); got != "<body><ul><li>one</li></ul></body>" {
		t.Errorf("HTML() = %q", got)
	}
	if d.Parent(li) != ul || d.Parent(ul) != d.Body() {
		t.Error("parent links wrong")
	}
	if d.NodeKind(txt) != vdom.KindText || d.Text(txt) != "one" {
		t.Error("text node wrong")
	}
	if !d.Attached(txt) {
		t.Error("text should be attached")
	}
	if d.Count(OpCreateElement) != 2 || d.Count(OpCreateText) != 1 || d.Count(OpInsert) != 3 {
		t.Errorf("Counts() = %v", d.Counts())
	}
}

func TestInsertBeforeMovesAttachedNode(t *testing.T) {
	d := New()
	a, b, c := d.CreateElement("a"), d.CreateElement("b"), d.CreateElement("c")
	for _, h := range []vdom.Handle{a, b, c} {
		d.AppendChild(d.Body(), h)
	}

	d.InsertBefore(d.Body(), c, a)
	if diff := cmp.Diff([]vdom.Handle{c, a, b}, d.Children(d.Body())); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if d.NextSibling(c) != a || d.NextSibling(b) != 0 {
		t.Error("NextSibling wrong after move")
	}

	d.InsertBefore(d.Body(), a, a)
	if diff := cmp.Diff([]vdom.Handle{c, a, b}, d.Children(d.Body())); diff != "" {
		t.Errorf("self-insert changed order:\n%s", diff)
	}
}

func TestInsertBeforeForeignRefAppends(t *testing.T) {
	d := New()
	a := d.CreateElement("a")
	stray := d.CreateElement("stray")
	d.InsertBefore(d.Body(), a, stray)
	if diff := cmp.Diff([]vdom.Handle{a}, d.Children(d.Body())); diff != "" {
		t.Errorf("children mismatch:\n%s", diff)
	}
	last := d.Mutations()[len(d.Mutations())-1]
	if last.Op != OpInsert || last.Ref != 0 {
		t.Errorf("last mutation = %+v, want append", last)
	}
}

func TestInsertRejectsCycles(t *testing.T) {
	d := New()
	outer, inner := d.CreateElement("div"), d.CreateElement("div")
	d.AppendChild(outer, inner)
	d.AppendChild(inner, outer)
	if d.Parent(outer) != 0 {
		t.Error("inserting an ancestor into its descendant must be refused")
	}
}

func TestRemoveChild(t *testing.T) {
	d := New()
	p := d.CreateElement("p")
	d.AppendChild(d.Body(), p)
	d.ResetLog()

	d.RemoveChild(d.CreateElement("x"), p)
	if d.Count(OpRemove) != 0 {
		t.Error("removing from the wrong parent must be a no-op")
	}

	d.RemoveChild(d.Body(), p)
	if d.Parent(p) != 0 || len(d.Children(d.Body())) != 0 {
		t.Error("child not detached")
	}
	if !d.Contains(p) {
		t.Error("removed node should stay addressable until Collect")
	}
	if dropped := d.Collect(); dropped != 2 {
		t.Errorf("Collect() = %d, want 2", dropped)
	}
	if d.Contains(p) {
		t.Error("Collect should drop detached nodes")
	}
}

func TestAttributes(t *testing.T) {
	d := New()
	el := d.CreateElement("input")
	if d.HasAttributes(el) {
		t.Error("fresh element has attributes")
	}
	d.SetAttribute(el, "type", "text")
	d.SetAttribute(el, "id", "name")
	d.SetAttribute(el, "type", "email")

	attrs := d.Attributes(el)
	if len(attrs) != 2 || attrs[0].Key != "type" || attrs[0].Value.Str() != "email" {
		t.Errorf("Attributes() = %v", attrs)
	}
	if v, ok := d.Attribute(el, "id"); !ok || v != "name" {
		t.Errorf("Attribute(id) = %q, %v", v, ok)
	}

	d.RemoveAttribute(el, "missing")
	d.RemoveAttribute(el, "id")
	if _, ok := d.Attribute(el, "id"); ok {
		t.Error("id not removed")
	}
	if d.Count(OpRemoveAttr) != 1 {
		t.Errorf("remove-attr count = %d, want 1", d.Count(OpRemoveAttr))
	}

	txt := d.CreateText("x")
	d.SetAttribute(txt, "id", "nope")
	if d.HasAttributes(txt) {
		t.Error("text nodes cannot hold attributes")
	}
}

func TestPropertyFallbacks(t *testing.T) {
	d := New()
	in := d.CreateElement("input")

	if v := d.Property(in, "value"); v.Kind() != vdom.ValueString || v.Str() != "" {
		t.Errorf("default value = %v", v)
	}
	if d.Property(in, "checked").Truthy() {
		t.Error("default checked should be false")
	}
	if d.Property(in, "title").Kind() != vdom.ValueAbsent {
		t.Error("unknown property should be absent")
	}

	d.SetAttribute(in, "value", "attr")
	d.SetAttribute(in, "checked", "")
	if d.Property(in, "value").Str() != "attr" {
		t.Error("value should fall back to the attribute")
	}
	if !d.Property(in, "checked").Truthy() {
		t.Error("checked should follow attribute presence")
	}

	d.SetProperty(in, "value", vdom.String("runtime"))
	if d.Property(in, "value").Str() != "runtime" {
		t.Error("runtime property should win over the attribute")
	}
	if d.Count(OpSetProperty) != 1 {
		t.Errorf("set-property count = %d", d.Count(OpSetProperty))
	}
}

func TestListenersAndDispatch(t *testing.T) {
	d := New()
	btn := d.CreateElement("button")

	var got []vdom.Event
	d.AddListener(btn, "click", func(e vdom.Event) { got = append(got, e) })

	if !d.Dispatch(btn, vdom.Event{Type: "click"}) {
		t.Fatal("Dispatch returned false")
	}
	if d.Dispatch(btn, vdom.Event{Type: "keydown"}) {
		t.Error("Dispatch to an unregistered event returned true")
	}
	if len(got) != 1 || got[0].Target != btn || got[0].Type != "click" {
		t.Errorf("events = %+v", got)
	}

	if diff := cmp.Diff([]string{"click"}, d.Listeners(btn)); diff != "" {
		t.Errorf("Listeners mismatch:\n%s", diff)
	}

	d.RemoveListener(btn, "click")
	d.RemoveListener(btn, "click")
	if d.Count(OpRemoveListener) != 1 {
		t.Errorf("remove-listener count = %d, want 1", d.Count(OpRemoveListener))
	}
	if d.Dispatch(btn, vdom.Event{Type: "click"}) {
		t.Error("Dispatch after removal returned true")
	}
}

func TestTypeDoesNotLog(t *testing.T) {
	d := New()
	in := d.CreateElement("input")
	var typed string
	d.AddListener(in, "input", func(e vdom.Event) { typed = e.Value })
	d.ResetLog()

	d.Type(in, "hello")
	if len(d.Mutations()) != 0 {
		t.Errorf("Type logged mutations: %v", d.Mutations())
	}
	if d.Property(in, "value").Str() != "hello" || typed != "hello" {
		t.Errorf("value = %v, typed = %q", d.Property(in, "value"), typed)
	}

	d.SetChecked(in, true)
	if !d.Property(in, "checked").BoolValue() {
		t.Error("SetChecked did not update runtime state")
	}
}

func TestFind(t *testing.T) {
	d := New()
	div := d.CreateElement("div")
	span := d.CreateElement("span")
	d.SetAttribute(span, "id", "target")
	d.AppendChild(div, span)
	d.AppendChild(d.Body(), div)

	if d.Find("target") != span {
		t.Error("Find did not locate span")
	}
	if d.Find("missing") != 0 {
		t.Error("Find should return 0 when absent")
	}
}

func TestPrettyAndEscaping(t *testing.T) {
	d := New()
	ul := d.CreateElement("ul")
	d.SetAttribute(ul, "title", `a "b"`)
	li := d.CreateElement("li")
	d.AppendChild(li, d.CreateText("1 < 2"))
	d.AppendChild(ul, li)
	d.AppendChild(ul, d.CreateElement("br"))

	want := strings.Join([]string{
		`<ul title="a &#34;b&#34;">`,
		`  <li>`,
		`    1 &lt; 2`,
		`  </li>`,
		`  <br>`,
		`</ul>`,
		``,
	}, "\n")
	if diff := cmp.Diff(want, d.Pretty(ul)); diff != "" {
		t.Errorf("Pretty mismatch (-want +got):\n%s", diff)
	}
}

func TestOnMutation(t *testing.T) {
	d := New()
	var mu sync.Mutex
	var ops []Op
	d.OnMutation(func(m Mutation) {
		// Observers may read the document.
		_ = d.HTML(d.Body())
		mu.Lock()
		ops = append(ops, m.Op)
		mu.Unlock()
	})

	el := d.CreateElement("p")
	d.AppendChild(d.Body(), el)
	d.SetAttribute(el, "class", "x")

	if diff := cmp.Diff([]Op{OpCreateElement, OpInsert, OpSetAttr}, ops); diff != "" {
		t.Errorf("observed ops mismatch:\n%s", diff)
	}
	seqs := make([]int, 0)
	for _, m := range d.Mutations() {
		seqs = append(seqs, int(m.Seq))
	}
	if !sort.IntsAreSorted(seqs) {
		t.Errorf("sequence numbers not increasing: %v", seqs)
	}
}

func TestMutationString(t *testing.T) {
	tests := []struct {
		m    Mutation
		want string
	}{
		{Mutation{Op: OpCreateElement, Target: 3, Name: "li"}, "#3 create <li>"},
		{Mutation{Op: OpSetAttr, Target: 3, Name: "class", Value: "x"}, `#3 @class = "x"`},
		{Mutation{Op: OpInsert, Target: 3, Parent: 1}, "#3 append to #1"},
		{Mutation{Op: OpInsert, Target: 3, Parent: 1, Ref: 2}, "#3 insert into #1 before #2"},
		{Mutation{Op: OpRemove, Target: 3, Parent: 1}, "#3 remove from #1"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestConcurrentReads(t *testing.T) {
	d := New()
	root := d.CreateElement("div")
	d.AppendChild(d.Body(), root)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = d.HTML(d.Body())
				_ = d.Children(root)
			}
		}()
	}
	for j := 0; j < 50; j++ {
		d.AppendChild(root, d.CreateText("x"))
	}
	wg.Wait()

	if n := len(d.Children(root)); n != 50 {
		t.Errorf("len(children) = %d, want 50", n)
	}
}
