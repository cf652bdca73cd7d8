package reconcile_test

import (
	"context"
	"testing"

	"github.com/vango-dev/vtree/pkg/vdom"
)

func BenchmarkRender(b *testing.B) {
	b.Run("create 100 items", func(b *testing.B) {
		keys := make([]int, 100)
		for i := range keys {
			keys[i] = i
		}
		for i := 0; i < b.N; i++ {
			_, r, root := setup(b)
			_ = r.Render(context.Background(), root, list(keys...))
		}
	})

	b.Run("reverse 100 keyed items", func(b *testing.B) {
		fwd := make([]int, 100)
		rev := make([]int, 100)
		for i := range fwd {
			fwd[i] = i
			rev[99-i] = i
		}
		_, r, root := setup(b)
		ul := render(b, r, root, list(fwd...))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			order := fwd
			if i%2 == 0 {
				order = rev
			}
			_ = r.Render(context.Background(), ul, list(order...))
		}
	})

	b.Run("no-op deep tree", func(b *testing.B) {
		_, r, root := setup(b)
		h := render(b, r, root, deepTree(10))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = r.Render(context.Background(), h, deepTree(10))
		}
	})
}

func deepTree(depth int) *vdom.VNode {
	if depth == 0 {
		return vdom.Text("Leaf")
	}
	return vdom.Div(vdom.Class("level"), deepTree(depth-1))
}
