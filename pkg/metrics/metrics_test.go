package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/reconcile"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestObserveRender(t *testing.T) {
	t.Run("success records status, duration and mutation kinds", func(t *testing.T) {
		rec := New(WithRegistry(prometheus.NewRegistry()))
		var obs reconcile.Observer = rec

		obs.ObserveRender(reconcile.Stats{Created: 3, Inserted: 1, AttrsSet: 2}, 5*time.Millisecond, nil)

		if got := metricCounterValue(t, rec.rendersTotal.WithLabelValues("ok")); got != 1 {
			t.Errorf("renders_total(ok) = %v, want 1", got)
		}
		if got := metricCounterValue(t, rec.rendersTotal.WithLabelValues("error")); got != 0 {
			t.Errorf("renders_total(error) = %v, want 0", got)
		}
		if got := metricHistogramCount(t, rec.renderDuration); got != 1 {
			t.Errorf("render_duration_seconds count = %d, want 1", got)
		}
		if got := metricHistogramCount(t, rec.renderMutations); got != 1 {
			t.Errorf("render_mutations count = %d, want 1", got)
		}
		if got := metricCounterValue(t, rec.mutationsTotal.WithLabelValues("create")); got != 3 {
			t.Errorf("mutations_total(create) = %v, want 3", got)
		}
		if got := metricCounterValue(t, rec.mutationsTotal.WithLabelValues("set_attr")); got != 2 {
			t.Errorf("mutations_total(set_attr) = %v, want 2", got)
		}
	})

	t.Run("errors are counted per code", func(t *testing.T) {
		rec := New(WithRegistry(prometheus.NewRegistry()))
		err := errors.Join(
			vterrors.New(vterrors.CodeStructural),
			vterrors.New(vterrors.CodeStructural).WithPath("0/1"),
			vterrors.New(vterrors.CodeMissingLive),
			fmt.Errorf("plain"),
		)

		rec.ObserveRender(reconcile.Stats{Errors: 3}, time.Millisecond, err)

		if got := metricCounterValue(t, rec.rendersTotal.WithLabelValues("error")); got != 1 {
			t.Errorf("renders_total(error) = %v, want 1", got)
		}
		for code, want := range map[string]float64{
			vterrors.CodeStructural:  2,
			vterrors.CodeMissingLive: 1,
			"unknown":                1,
		} {
			if got := metricCounterValue(t, rec.renderErrors.WithLabelValues(code)); got != want {
				t.Errorf("render_errors_total(%s) = %v, want %v", code, got, want)
			}
		}
	})

	t.Run("single error is not a join", func(t *testing.T) {
		codes := errorCodes(vterrors.New(vterrors.CodeMissingParent))
		if len(codes) != 1 || codes[0] != vterrors.CodeMissingParent {
			t.Errorf("errorCodes = %v", codes)
		}
	})
}

func TestMirrorMetrics(t *testing.T) {
	rec := New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

	rec.ClientConnected()
	rec.ClientConnected()
	rec.ClientDisconnected()
	rec.Broadcast()
	rec.Broadcast()
	rec.Dropped()

	if got := metricGaugeValue(t, rec.mirrorClients); got != 1 {
		t.Errorf("mirror_clients = %v, want 1", got)
	}
	if got := metricCounterValue(t, rec.mirrorBroadcasts); got != 2 {
		t.Errorf("mirror_broadcasts_total = %v, want 2", got)
	}
	if got := metricCounterValue(t, rec.mirrorDropped); got != 1 {
		t.Errorf("mirror_dropped_total = %v, want 1", got)
	}
}

func TestRegistryExposesNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(WithRegistry(reg), WithNamespace("app"), WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"env": "test"}))
	rec.ObserveRender(reconcile.Stats{}, 0, nil)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "app_ui_renders_total" {
			found = true
			if l := f.GetMetric()[0].GetLabel(); len(l) == 0 {
				t.Errorf("const labels missing")
			}
		}
	}
	if !found {
		t.Errorf("app_ui_renders_total not registered")
	}
}
