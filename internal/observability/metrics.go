package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MapCollector bundles Prometheus metrics for the map window. It satisfies the
// game.MetricsRecorder interface so the window can drive gauges directly from
// its mutators.
type MapCollector struct {
	gatherer prometheus.Gatherer

	Zoom          prometheus.Gauge
	ActivePopups  prometheus.Gauge
	Starlanes     prometheus.Gauge
	FleetPaths    prometheus.Gauge
	SignalsFired  *prometheus.CounterVec
	PopupsClosed  prometheus.Counter
	RestoreErrors prometheus.Counter
}

// NewMapCollector registers map metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewMapCollector(reg prometheus.Registerer) (*MapCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	zoom, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "map_zoom_factor",
		Help: "Current zoom factor of the main map viewport.",
	}), "map_zoom_factor")
	if err != nil {
		return nil, err
	}
	popups, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "map_active_popups",
		Help: "Number of popups currently registered with the map window.",
	}), "map_active_popups")
	if err != nil {
		return nil, err
	}
	lanes, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "map_starlanes",
		Help: "Number of distinct starlanes held by the movement line registry.",
	}), "map_starlanes")
	if err != nil {
		return nil, err
	}
	paths, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "map_fleet_paths",
		Help: "Number of fleet movement paths held by the movement line registry.",
	}), "map_fleet_paths")
	if err != nil {
		return nil, err
	}

	signals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "map_signals_emitted_total",
		Help: "Selection signals emitted by the map window, labeled by signal.",
	}, []string{"signal"})
	signals, err = registerCounterVec(reg, signals, "map_signals_emitted_total")
	if err != nil {
		return nil, err
	}
	closed, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "map_popups_closed_total",
		Help: "Popups closed by the map window at turn or game boundaries.",
	}), "map_popups_closed_total")
	if err != nil {
		return nil, err
	}
	restoreErrs, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "map_restore_errors_total",
		Help: "Malformed UI save documents rejected on restore.",
	}), "map_restore_errors_total")
	if err != nil {
		return nil, err
	}

	return &MapCollector{
		gatherer:      gatherer,
		Zoom:          zoom,
		ActivePopups:  popups,
		Starlanes:     lanes,
		FleetPaths:    paths,
		SignalsFired:  signals,
		PopupsClosed:  closed,
		RestoreErrors: restoreErrs,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *MapCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (c *MapCollector) SetZoom(z float64) {
	if c == nil || c.Zoom == nil {
		return
	}
	c.Zoom.Set(z)
}

func (c *MapCollector) SetCounts(popups, starlanes, fleetPaths int) {
	if c == nil {
		return
	}
	if c.ActivePopups != nil {
		c.ActivePopups.Set(float64(popups))
	}
	if c.Starlanes != nil {
		c.Starlanes.Set(float64(starlanes))
	}
	if c.FleetPaths != nil {
		c.FleetPaths.Set(float64(fleetPaths))
	}
}

func (c *MapCollector) SignalEmitted(name string) {
	if c == nil || c.SignalsFired == nil {
		return
	}
	c.SignalsFired.WithLabelValues(name).Inc()
}

func (c *MapCollector) PopupClosed() {
	if c == nil || c.PopupsClosed == nil {
		return
	}
	c.PopupsClosed.Inc()
}

func (c *MapCollector) RestoreFailed() {
	if c == nil || c.RestoreErrors == nil {
		return
	}
	c.RestoreErrors.Inc()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
