// Package metrics exports simulation activity to Prometheus.
package metrics

import (
	"net/http"

	"github.com/DaanHessen/agency-terminal/internal/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agency"

// Recorder implements engine.Observer.
type Recorder struct {
	reg *prometheus.Registry

	worldTicks    prometheus.Counter
	events        *prometheus.CounterVec
	generated     prometheus.Counter
	completed     prometheus.Counter
	notifications *prometheus.CounterVec
	saves         *prometheus.CounterVec
	credits       prometheus.Gauge
	xp            prometheus.Gauge
	activeMission prometheus.Gauge
	stability     prometheus.Gauge
	standing      *prometheus.GaugeVec
	regions       *prometheus.GaugeVec
}

var _ engine.Observer = (*Recorder)(nil)

func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		worldTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "world_ticks_total", Help: "World simulator ticks.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "global_events_total", Help: "Global events raised, by type.",
		}, []string{"type"}),
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "missions_generated_total", Help: "Missions generated.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "missions_completed_total", Help: "Missions completed.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "notifications_total", Help: "Notifications stored.",
		}, []string{"critical"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "saves_total", Help: "Snapshot saves, by result.",
		}, []string{"result"}),
		credits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "credits", Help: "Current credit balance.",
		}),
		xp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "xp", Help: "Current experience.",
		}),
		activeMission: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "active_missions", Help: "Missions waiting for completion.",
		}),
		stability: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "global_stability", Help: "Global stability, 0-100.",
		}),
		standing: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "faction_standing", Help: "Faction standing, 0-100.",
		}, []string{"faction"}),
		regions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "region_stability", Help: "Region stability, 0-100.",
		}, []string{"region"}),
	}
	r.reg.MustRegister(
		r.worldTicks, r.events, r.generated, r.completed, r.notifications, r.saves,
		r.credits, r.xp, r.activeMission, r.stability, r.standing, r.regions,
	)
	return r
}

// Registry exposes the private registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

func (r *Recorder) WorldTicked(ev *engine.GlobalEvent) {
	r.worldTicks.Inc()
	if ev != nil {
		r.events.WithLabelValues(string(ev.Type)).Inc()
	}
}

func (r *Recorder) MissionGenerated(engine.Mission) { r.generated.Inc() }
func (r *Recorder) MissionCompleted(engine.Mission) { r.completed.Inc() }

func (r *Recorder) Notified(n engine.Notification) {
	if n.Critical {
		r.notifications.WithLabelValues("true").Inc()
		return
	}
	r.notifications.WithLabelValues("false").Inc()
}

func (r *Recorder) Saved(err error) {
	if err != nil {
		r.saves.WithLabelValues("error").Inc()
		return
	}
	r.saves.WithLabelValues("ok").Inc()
}

// StateChanged refreshes the gauges. It runs under the Session lock, so it
// only reads.
func (r *Recorder) StateChanged(st *engine.GameState) {
	r.credits.Set(float64(st.Credits))
	r.xp.Set(float64(st.XP))
	r.activeMission.Set(float64(len(st.ActiveMissions())))
	r.stability.Set(st.World.GlobalStability)
	for name, f := range st.World.Factions {
		r.standing.WithLabelValues(name).Set(f.Standing)
	}
	for name, reg := range st.World.Regions {
		r.regions.WithLabelValues(name).Set(reg.Stability)
	}
}
