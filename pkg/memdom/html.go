package memdom

import (
	"html"
	"strings"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// HTML serializes the subtree at h on one line.
func (d *Document) HTML(h vdom.Handle) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	d.writeHTML(&b, h, -1, 0)
	return b.String()
}

// Pretty serializes the subtree at h with one node per line.
func (d *Document) Pretty(h vdom.Handle) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	d.writeHTML(&b, h, 0, 0)
	return b.String()
}

// writeHTML writes node h. indent < 0 means compact output.
func (d *Document) writeHTML(b *strings.Builder, h vdom.Handle, indent, depth int) {
	n := d.nodes[h]
	if n == nil {
		return
	}
	pad := func() {
		if indent >= 0 {
			b.WriteString(strings.Repeat("  ", depth))
		}
	}
	nl := func() {
		if indent >= 0 {
			b.WriteString("\n")
		}
	}

	if n.kind == vdom.KindText {
		pad()
		b.WriteString(html.EscapeString(n.text))
		nl()
		return
	}

	pad()
	b.WriteString("<")
	b.WriteString(n.tag)
	for _, a := range n.attrs {
		b.WriteString(" ")
		b.WriteString(a.name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.value))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	if vdom.IsVoidElement(n.tag) {
		nl()
		return
	}
	nl()
	for _, c := range n.children {
		d.writeHTML(b, c, indent, depth+1)
	}
	pad()
	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteString(">")
	nl()
}
