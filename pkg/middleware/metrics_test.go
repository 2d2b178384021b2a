package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusMiddleware_RecordsStatusAndDuration(t *testing.T) {
	t.Run("success increments status counter and duration", func(t *testing.T) {
		resetGlobalMetricsForTest()
		reg := prometheus.NewRegistry()

		h := Prometheus(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		c := GetMetrics()
		if c == nil {
			t.Fatal("expected GetMetrics to return collector after initialization")
		}

		if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("/test", "200")); got != 1 {
			t.Fatalf("requests_total(200)=%v, want 1", got)
		}
		if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("/test", "500")); got != 0 {
			t.Fatalf("requests_total(500)=%v, want 0", got)
		}
		if got := metricHistogramCount(t, c.requestDuration.WithLabelValues("/test")); got == 0 {
			t.Fatal("expected request_duration_seconds histogram to have sample count > 0")
		}
	})

	t.Run("error response counted under its status", func(t *testing.T) {
		resetGlobalMetricsForTest()
		reg := prometheus.NewRegistry()

		h := Prometheus(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
		}

		c := GetMetrics()
		if c == nil {
			t.Fatal("expected GetMetrics to return collector after initialization")
		}
		if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("/test", "500")); got != 1 {
			t.Fatalf("requests_total(500)=%v, want 1", got)
		}
	})
}

func TestPrometheusMiddleware_EmptyPathNormalizesToSlash(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	h := Prometheus(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("GET", "/x", nil)
	req.URL.Path = ""
	h.ServeHTTP(httptest.NewRecorder(), req)

	c := GetMetrics()
	if c == nil {
		t.Fatal("expected GetMetrics to return collector after initialization")
	}
	if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("/", "204")); got != 1 {
		t.Fatalf("requests_total(/,204)=%v, want 1", got)
	}
}

func TestPrometheusMiddleware_SilentHandlerCountsAsOK(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	h := Prometheus(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/quiet", nil))

	c := GetMetrics()
	if c == nil {
		t.Fatal("expected GetMetrics to return collector after initialization")
	}
	if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("/quiet", "200")); got != 1 {
		t.Fatalf("requests_total(/quiet,200)=%v, want 1", got)
	}
}

func TestMetricsRecordFunctions_WithInitializedMetrics(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	_ = Prometheus(WithRegistry(reg)) // initialize global metrics
	c := GetMetrics()
	if c == nil {
		t.Fatal("expected GetMetrics to return collector after initialization")
	}

	RecordManifestRequest("_buildManifest.js")
	RecordDiscovery(12, 40*time.Millisecond)
	RecordReloadClientConnect()
	RecordReloadClientConnect()
	RecordReloadClientDisconnect()
	RecordReloadBroadcast()
	RecordWebSocketError("upgrade")

	if got := metricCounterValue(t, c.manifestRequests.WithLabelValues("_buildManifest.js")); got != 1 {
		t.Fatalf("manifest_requests_total=%v, want 1", got)
	}
	if got := metricGaugeValue(t, c.routesDiscovered); got != 12 {
		t.Fatalf("routes_discovered=%v, want 12", got)
	}
	if got := metricHistogramCount(t, c.discoveryDuration); got == 0 {
		t.Fatal("expected discovery_duration_seconds histogram to have sample count > 0")
	}
	if got := metricGaugeValue(t, c.reloadClients); got != 1 {
		t.Fatalf("reload_clients=%v, want 1 (connect+connect+disconnect)", got)
	}
	if got := metricCounterValue(t, c.reloadsSent); got != 1 {
		t.Fatalf("reloads_sent_total=%v, want 1", got)
	}
	if got := metricCounterValue(t, c.wsErrors.WithLabelValues("upgrade")); got != 1 {
		t.Fatalf("websocket_errors_total(upgrade)=%v, want 1", got)
	}
}

func TestMetricsRecordFunctions_NoopBeforeInitialization(t *testing.T) {
	resetGlobalMetricsForTest()

	// None of these may panic before Prometheus() runs.
	RecordManifestRequest("_devPagesManifest.json")
	RecordDiscovery(3, time.Millisecond)
	RecordReloadClientConnect()
	RecordReloadClientDisconnect()
	RecordReloadBroadcast()
	RecordWebSocketError("close")

	if GetMetrics() != nil {
		t.Fatal("expected GetMetrics to return nil before initialization")
	}
}
