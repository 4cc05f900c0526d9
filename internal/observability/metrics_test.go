package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMapCollector_RecordsGaugesAndCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewMapCollector(reg)
	if err != nil {
		t.Fatalf("NewMapCollector: %v", err)
	}

	c.SetZoom(1.25)
	c.SetCounts(2, 7, 3)
	c.SignalEmitted("system_left_clicked")
	c.SignalEmitted("system_left_clicked")
	c.PopupClosed()
	c.RestoreFailed()

	if got := testutil.ToFloat64(c.Zoom); got != 1.25 {
		t.Fatalf("map_zoom_factor = %v, want 1.25", got)
	}
	if got := testutil.ToFloat64(c.ActivePopups); got != 2 {
		t.Fatalf("map_active_popups = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.Starlanes); got != 7 {
		t.Fatalf("map_starlanes = %v, want 7", got)
	}
	if got := testutil.ToFloat64(c.FleetPaths); got != 3 {
		t.Fatalf("map_fleet_paths = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.SignalsFired.WithLabelValues("system_left_clicked")); got != 2 {
		t.Fatalf("map_signals_emitted_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.PopupsClosed); got != 1 {
		t.Fatalf("map_popups_closed_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.RestoreErrors); got != 1 {
		t.Fatalf("map_restore_errors_total = %v, want 1", got)
	}
}

func TestMapCollector_ReRegisterReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMapCollector(reg)
	if err != nil {
		t.Fatalf("first NewMapCollector: %v", err)
	}
	second, err := NewMapCollector(reg)
	if err != nil {
		t.Fatalf("second NewMapCollector: %v", err)
	}
	first.SetZoom(2)
	if got := testutil.ToFloat64(second.Zoom); got != 2 {
		t.Fatalf("second collector should share the registered gauge, got %v", got)
	}
}

func TestMapCollector_NilIsSafe(t *testing.T) {
	var c *MapCollector
	c.SetZoom(1)
	c.SetCounts(1, 2, 3)
	c.SignalEmitted("x")
	c.PopupClosed()
	c.RestoreFailed()
}

func TestMapCollector_HandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewMapCollector(reg)
	if err != nil {
		t.Fatalf("NewMapCollector: %v", err)
	}
	c.SetCounts(1, 4, 2)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, req)

	body, _ := io.ReadAll(rr.Result().Body)
	for _, want := range []string{"map_starlanes 4", "map_fleet_paths 2", "map_active_popups 1"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}
