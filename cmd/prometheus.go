package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Prometheus metrics (gauges)
	promMetrics = struct {
		clockTicks  prometheus.Gauge
		idleTicks   prometheus.Gauge
		liveProcs   prometheus.Gauge
		exitedProcs prometheus.Gauge
		demotions   prometheus.Gauge
		requeues    prometheus.Gauge
		queueDepth  *prometheus.GaugeVec
		dispatches  *prometheus.GaugeVec
	}{
		clockTicks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mlfq_clock_ticks",
			Help: "Current virtual clock in ticks",
		}),
		idleTicks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mlfq_idle_ticks",
			Help: "Ticks spent with every queue empty",
		}),
		liveProcs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mlfq_live_processes",
			Help: "Admitted processes that have not exited",
		}),
		exitedProcs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mlfq_exited_processes",
			Help: "Processes that ran to completion",
		}),
		demotions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mlfq_demotions",
			Help: "Quantum expiries that moved a process down a level",
		}),
		requeues: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mlfq_requeues",
			Help: "Re-enqueues at the same level (including bottom-level refreshes)",
		}),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mlfq_queue_depth",
			Help: "Processes waiting at each priority level",
		}, []string{"level"}),
		dispatches: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mlfq_dispatches",
			Help: "Ticks dispatched from each priority level",
		}, []string{"level"}),
	}
)

func initPrometheusMetrics() {
	prometheus.MustRegister(
		promMetrics.clockTicks,
		promMetrics.idleTicks,
		promMetrics.liveProcs,
		promMetrics.exitedProcs,
		promMetrics.demotions,
		promMetrics.requeues,
		promMetrics.queueDepth,
		promMetrics.dispatches,
	)
}

// promView is everything the gauges need, captured under the state lock.
type promView struct {
	clock      int64
	idleTicks  int64
	live       int
	exited     int
	demotions  int64
	requeues   int64
	depths     map[string]int
	dispatches map[string]int64
}

func (st *simState) promView() promView {
	st.mu.Lock()
	defer st.mu.Unlock()
	v := promView{
		clock:      st.s.Clock,
		idleTicks:  st.s.Metrics.IdleTicks,
		live:       st.s.Registry.Live(),
		exited:     st.s.Metrics.Exited,
		demotions:  st.s.Metrics.Demotions,
		requeues:   st.s.Metrics.Requeues,
		depths:     make(map[string]int),
		dispatches: make(map[string]int64),
	}
	for i, lvl := range st.s.Snapshot() {
		v.depths[lvl.Label] = len(lvl.Procs)
		v.dispatches[lvl.Label] = st.s.Metrics.DispatchesPerLevel[i]
	}
	return v
}

func updatePrometheusMetrics(st *simState) {
	v := st.promView()
	promMetrics.clockTicks.Set(float64(v.clock))
	promMetrics.idleTicks.Set(float64(v.idleTicks))
	promMetrics.liveProcs.Set(float64(v.live))
	promMetrics.exitedProcs.Set(float64(v.exited))
	promMetrics.demotions.Set(float64(v.demotions))
	promMetrics.requeues.Set(float64(v.requeues))
	for label, depth := range v.depths {
		promMetrics.queueDepth.WithLabelValues(label).Set(float64(depth))
	}
	for level, n := range v.dispatches {
		promMetrics.dispatches.WithLabelValues(level).Set(float64(n))
	}
}
