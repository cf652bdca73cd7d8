package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func newRouter(mw ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chi.URLParam(r, "id")))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	return r
}

func TestPrometheusMiddleware(t *testing.T) {
	reg2 := prometheus.NewRegistry()
	router := newRouter(Prometheus(WithRegistry(reg2), WithNamespace("t2"), WithSubsystem("web")))

	for _, path := range []string{"/items/1", "/items/2", "/boom", "/missing"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := reg2.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	got := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "t2_web_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			got[labels["route"]+" "+labels["status"]] = metric.GetCounter().GetValue()
		}
	}

	want := map[string]float64{
		"/items/{id} 2xx": 2,
		"/boom 5xx":       1,
		"unmatched 4xx":   1,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("requests_total[%s] = %v, want %v (all: %v)", k, got[k], v, got)
		}
	}
}

func TestMetricsLabelsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	config := defaultMetricsConfig()
	config.Registry = reg
	m := initMetrics(config)

	m.requestsTotal.WithLabelValues("/x", "GET", "2xx").Inc()
	if got := counterValue(t, m.requestsTotal.WithLabelValues("/x", "GET", "2xx")); got != 1 {
		t.Errorf("requests_total = %v, want 1", got)
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{200: "2xx", 204: "2xx", 301: "3xx", 404: "4xx", 503: "5xx"}
	for status, want := range tests {
		if got := statusClass(status); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestOpenTelemetryMiddlewarePassesThrough(t *testing.T) {
	extracted := 0
	router := newRouter(OpenTelemetry(
		WithTracerName("test"),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			extracted++
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/boom" }),
	))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "42" {
		t.Errorf("response = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	if extracted != 1 {
		t.Errorf("extractor called %d times, want 1 (filtered request skipped)", extracted)
	}
}
