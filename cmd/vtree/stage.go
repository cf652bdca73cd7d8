package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/vango-dev/vtree/pkg/memdom"
	"github.com/vango-dev/vtree/pkg/reconcile"
	"github.com/vango-dev/vtree/pkg/treefile"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// stage is a document with a single mount point under <body>.
type stage struct {
	doc      *memdom.Document
	renderer *reconcile.Renderer
	root     vdom.Handle
}

func newStage(logger *slog.Logger) *stage {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	doc := memdom.New()
	root := doc.CreateElement("div")
	doc.AppendChild(doc.Body(), root)
	doc.ResetLog()
	return &stage{
		doc:      doc,
		renderer: reconcile.New(doc, reconcile.WithLogger(logger)),
		root:     root,
	}
}

// render reconciles tree into the stage. The mount point follows the tree's
// live root so that successive renders update in place.
func (s *stage) render(ctx context.Context, tree *vdom.VNode) error {
	err := s.renderer.Render(ctx, s.root, tree)
	if tree.Live() != 0 {
		s.root = tree.Live()
	}
	return err
}

// html returns the markup of the mounted tree.
func (s *stage) html() string {
	return s.doc.Pretty(s.root)
}

// fileHandlers are the handler names tree files may reference from the CLI.
// Events never fire outside the mirror, so they do nothing.
func fileHandlers() map[string]vdom.Handler {
	noop := func(vdom.Event) {}
	return map[string]vdom.Handler{
		"log":  noop,
		"noop": noop,
	}
}

func loadTree(path string) (*vdom.VNode, error) {
	return treefile.DecodeFile(path, treefile.WithHandlers(fileHandlers()))
}
