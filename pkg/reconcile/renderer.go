package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vdom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation name used with the global provider.
const tracerName = "github.com/vango-dev/vtree/pkg/reconcile"

// Renderer reconciles virtual trees into a Surface.
type Renderer struct {
	surface  Surface
	logger   *slog.Logger
	tracer   trace.Tracer
	observer Observer

	// bound maps a live node to the VNode it was last rendered from.
	bound map[vdom.Handle]*vdom.VNode
	// handlers is the per-element event handler table. hmu guards it so
	// events can be dispatched while a render is running.
	hmu      sync.RWMutex
	handlers map[vdom.Handle]map[string]vdom.Handler
	// dispatch is the single listener registered on the surface.
	dispatch vdom.Handler

	last Stats
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for reported errors and render summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracer sets the tracer. Default: otel.Tracer from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Renderer) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithObserver registers an observer called after every Render.
func WithObserver(o Observer) Option {
	return func(r *Renderer) {
		r.observer = o
	}
}

// New creates a Renderer for surface.
func New(surface Surface, opts ...Option) *Renderer {
	r := &Renderer{
		surface:  surface,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		bound:    make(map[vdom.Handle]*vdom.VNode),
		handlers: make(map[vdom.Handle]map[string]vdom.Handler),
	}
	r.dispatch = r.dispatchEvent
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render brings the live subtree at root in line with next. root must be
// attached to a parent. If the root is rebuilt (for example because the tag
// changed), next.Live() names the new live root afterwards.
//
// Failures are reported per subtree; the returned error joins all of them
// and is nil when every node was reconciled.
func (r *Renderer) Render(ctx context.Context, root vdom.Handle, next *vdom.VNode) error {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "vtree.render",
		trace.WithAttributes(attribute.Int64("vtree.root", int64(root))),
	)
	defer span.End()

	p := &pass{r: r, ctx: ctx}

	var parent vdom.Handle
	if root != 0 {
		parent = r.surface.Parent(root)
	}
	if parent == 0 {
		p.report(vterrors.New(vterrors.CodeMissingParent).WithDetailf("root #%d is not attached", root))
	} else {
		tag := r.surface.TagName(parent)
		oldWrap := &vdom.VNode{Kind: vdom.KindElement, Name: tag, Children: []*vdom.VNode{r.Extract(root)}}
		oldWrap.SetLive(parent)
		newWrap := &vdom.VNode{Kind: vdom.KindElement, Name: tag, Children: []*vdom.VNode{next}}
		p.snapshot(oldWrap)
		// The wrapper stands in for the parent for this call only and is
		// not bound, so an outer renderer's binding of parent survives.
		p.update(oldWrap, newWrap, "")
	}

	err := errors.Join(p.errs...)
	elapsed := time.Since(start)
	r.last = p.stats

	span.SetAttributes(
		attribute.Int("vtree.mutations", p.stats.Mutations()),
		attribute.Int("vtree.created", p.stats.Created),
		attribute.Int("vtree.removed", p.stats.Removed),
		attribute.Int("vtree.moved", p.stats.Moved),
		attribute.Int("vtree.errors", p.stats.Errors),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	r.logger.DebugContext(ctx, "render complete",
		"root", uint64(root),
		"mutations", p.stats.Mutations(),
		"errors", p.stats.Errors,
		"elapsed", elapsed,
	)
	if r.observer != nil {
		r.observer.ObserveRender(p.stats, elapsed, err)
	}
	return err
}

// LastStats returns the statistics of the most recent Render.
func (r *Renderer) LastStats() Stats {
	return r.last
}

// Bound returns the VNode the live node was last rendered from, or nil.
func (r *Renderer) Bound(h vdom.Handle) *vdom.VNode {
	return r.bound[h]
}

// HandlerCount returns the number of handler table entries held for h.
func (r *Renderer) HandlerCount(h vdom.Handle) int {
	r.hmu.RLock()
	defer r.hmu.RUnlock()
	return len(r.handlers[h])
}

func (r *Renderer) handler(h vdom.Handle, event string) (vdom.Handler, bool) {
	r.hmu.RLock()
	defer r.hmu.RUnlock()
	fn, ok := r.handlers[h][event]
	return fn, ok
}

// setHandler sets the entry for event on h. A nil fn deletes it, and the
// table goes away with its last entry.
func (r *Renderer) setHandler(h vdom.Handle, event string, fn vdom.Handler) {
	r.hmu.Lock()
	defer r.hmu.Unlock()
	table := r.handlers[h]
	if fn == nil {
		delete(table, event)
		if len(table) == 0 {
			delete(r.handlers, h)
		}
		return
	}
	if table == nil {
		table = make(map[string]vdom.Handler)
		r.handlers[h] = table
	}
	table[event] = fn
}

func (r *Renderer) bind(h vdom.Handle, n *vdom.VNode) {
	if h == 0 {
		return
	}
	n.SetLive(h)
	r.bound[h] = n
}

// release forgets bindings and handler tables for the live subtree at h.
// It follows the surface rather than the VNodes: a VNode reused elsewhere in
// the new tree may already be bound to a different live node.
func (r *Renderer) release(h vdom.Handle) {
	delete(r.bound, h)
	r.hmu.Lock()
	delete(r.handlers, h)
	r.hmu.Unlock()
	for _, c := range r.surface.Children(h) {
		r.release(c)
	}
}

// dispatchEvent calls the current handler without holding any lock, so a
// handler may render.
func (r *Renderer) dispatchEvent(e vdom.Event) {
	if fn, _ := r.handler(e.Target, e.Type); fn != nil {
		fn(e)
	}
}

// pass holds the state of one Render call.
type pass struct {
	r     *Renderer
	ctx   context.Context
	stats Stats
	errs  []error

	// live maps every node of the old tree to the live node it was bound
	// to when the pass started. Binding rewrites VNode.Live as the pass
	// goes, and a memoized VNode can sit in both trees.
	live map[*vdom.VNode]vdom.Handle
}

// snapshot records the live node of every VNode in the old tree. A VNode
// that occurs twice keeps its first handle.
func (p *pass) snapshot(old *vdom.VNode) {
	if p.live == nil {
		p.live = make(map[*vdom.VNode]vdom.Handle)
	}
	vdom.Walk(old, func(n *vdom.VNode) bool {
		if _, seen := p.live[n]; seen {
			return false
		}
		p.live[n] = n.Live()
		return true
	})
}

// liveOf returns the live node old stood for when the pass started.
func (p *pass) liveOf(old *vdom.VNode) vdom.Handle {
	if h, ok := p.live[old]; ok {
		return h
	}
	return old.Live()
}

func (p *pass) report(err *vterrors.Error) {
	p.stats.Errors++
	p.errs = append(p.errs, err)
	p.r.logger.WarnContext(p.ctx, "reconcile failed",
		"code", err.Code,
		"path", err.Path,
		"error", err.Error(),
	)
}
