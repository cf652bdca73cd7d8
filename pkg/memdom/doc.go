// Package memdom is an in-memory live tree that implements reconcile.Surface.
//
// A Document owns nodes addressed by vdom.Handle and follows DOM semantics
// for the operations the renderer needs: inserting a node that is already
// attached moves it, a zero reference node appends, attributes keep their
// insertion order. Every mutating call is appended to a log so tests and the
// CLI can see exactly what a render did.
//
//	doc := memdom.New()
//	root := doc.CreateElement("div")
//	doc.AppendChild(doc.Body(), root)
//	doc.ResetLog()
//
//	r := reconcile.New(doc)
//	_ = r.Render(ctx, root, vdom.P("hello"))
//	fmt.Println(doc.HTML(doc.Body()))
//
// Type, SetChecked and Dispatch simulate user interaction: they change
// runtime state and invoke listeners without logging render mutations.
package memdom
