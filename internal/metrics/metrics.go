// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the metrics surface consumed by the game manager and the
// broadcast hub.
type Recorder interface {
	RecordEvent(action string)
	RecordUnapplied(action string)
	RecordBroadcast(scope string)
	SetActiveRooms(count int)
	SetActiveConnections(count int)
}

// Collector is the Prometheus-backed Recorder implementation.
type Collector struct {
	events            *prometheus.CounterVec
	unapplied         *prometheus.CounterVec
	broadcasts        *prometheus.CounterVec
	activeRooms       prometheus.Gauge
	activeConnections prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics on the given
// registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tictactoe_events_total",
			Help: "Inbound client events handled, by action.",
		}, []string{"action"}),
		unapplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tictactoe_events_unapplied_total",
			Help: "Inbound events silently dropped on a rejected precondition, by action.",
		}, []string{"action"}),
		broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tictactoe_broadcasts_total",
			Help: "Outbound notifications sent, by addressing scope.",
		}, []string{"scope"}),
		activeRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tictactoe_active_rooms",
			Help: "Rooms currently registered.",
		}),
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tictactoe_active_connections",
			Help: "Live websocket connections.",
		}),
	}

	reg.MustRegister(
		c.events,
		c.unapplied,
		c.broadcasts,
		c.activeRooms,
		c.activeConnections,
	)

	return c
}

func (that *Collector) RecordEvent(action string) {
	that.events.WithLabelValues(action).Inc()
}

func (that *Collector) RecordUnapplied(action string) {
	that.unapplied.WithLabelValues(action).Inc()
}

func (that *Collector) RecordBroadcast(scope string) {
	that.broadcasts.WithLabelValues(scope).Inc()
}

func (that *Collector) SetActiveRooms(count int) {
	that.activeRooms.Set(float64(count))
}

func (that *Collector) SetActiveConnections(count int) {
	that.activeConnections.Set(float64(count))
}

// Nop is a Recorder that discards everything; used in tests.
type Nop struct{}

func (Nop) RecordEvent(string)       {}
func (Nop) RecordUnapplied(string)   {}
func (Nop) RecordBroadcast(string)   {}
func (Nop) SetActiveRooms(int)       {}
func (Nop) SetActiveConnections(int) {}
