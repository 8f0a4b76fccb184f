// Package metrics wires Failover range-set activity to Prometheus, in
// the shape of the aistore and pebble stacks' stats packages: a small set
// of counters and gauges updated from a few call sites, gated by a nil
// check so instrumentation is always optional.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	childPrimary   = "primary"
	childSecondary = "secondary"
)

// Recorder wraps the Prometheus collectors a Failover reports through. A
// nil *Recorder is always safe to call methods on: every method returns
// early on a nil receiver, so WithMetrics is purely opt-in.
type Recorder struct {
	insertTotal  *prometheus.CounterVec
	deleteTotal  *prometheus.CounterVec
	spillTotal   prometheus.Counter
	recoverTotal prometheus.Counter
	freeBytes    *prometheus.GaugeVec
}

// NewRecorder creates a Recorder and registers its collectors with reg. A
// nil reg uses prometheus.DefaultRegisterer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		insertTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mps_failover_insert_total",
			Help: "Number of Failover Insert calls, by servicing child and result code.",
		}, []string{"child", "code"}),
		deleteTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mps_failover_delete_total",
			Help: "Number of Failover Delete calls, by servicing child and result code.",
		}, []string{"child", "code"}),
		spillTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mps_failover_spill_total",
			Help: "Number of inserts redirected from the primary to the secondary.",
		}),
		recoverTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mps_failover_recover_total",
			Help: "Number of deletes that required the fragment-split recovery path.",
		}),
		freeBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mps_failover_free_bytes",
			Help: "Free bytes held by each child of the Failover.",
		}, []string{"child"}),
	}

	reg.MustRegister(r.insertTotal, r.deleteTotal, r.spillTotal, r.recoverTotal, r.freeBytes)

	return r
}

// ObserveInsert records an Insert outcome against the child that serviced it.
func (r *Recorder) ObserveInsert(servicedBySecondary bool, code string) {
	if r == nil {
		return
	}

	r.insertTotal.WithLabelValues(childOf(servicedBySecondary), code).Inc()
}

// ObserveDelete records a Delete outcome against the child that serviced it.
func (r *Recorder) ObserveDelete(servicedBySecondary bool, code string) {
	if r == nil {
		return
	}

	r.deleteTotal.WithLabelValues(childOf(servicedBySecondary), code).Inc()
}

// ObserveSpill records an insert that spilled from the primary to the secondary.
func (r *Recorder) ObserveSpill() {
	if r == nil {
		return
	}

	r.spillTotal.Inc()
}

// ObserveRecover records a delete that took the fragment-split recovery path.
func (r *Recorder) ObserveRecover() {
	if r == nil {
		return
	}

	r.recoverTotal.Inc()
}

// SetFreeBytes updates the free-bytes gauges for both children.
func (r *Recorder) SetFreeBytes(primary, secondary uintptr) {
	if r == nil {
		return
	}

	r.freeBytes.WithLabelValues(childPrimary).Set(float64(primary))
	r.freeBytes.WithLabelValues(childSecondary).Set(float64(secondary))
}

func childOf(secondary bool) string {
	if secondary {
		return childSecondary
	}

	return childPrimary
}
