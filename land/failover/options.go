package failover

import "github.com/bryanchance/mps/internal/metrics"

// Option configures optional, ambient behavior of a Failover. The
// Failover's required configuration — alignment and its two children —
// is not an Option; both collaborators are mandatory construction
// arguments, not tunables.
type Option func(*Failover)

// WithMetrics attaches a Prometheus recorder. The default is nil, which
// every call site treats as a no-op.
func WithMetrics(r *metrics.Recorder) Option {
	return func(f *Failover) { f.metrics = r }
}

// WithClock injects the clock read at the start of each mutating operation
// and reported by LastOperationAt; it defaults to a stub returning 0 for
// deterministic tests. A nil clock is ignored.
func WithClock(clock func() int64) Option {
	return func(f *Failover) {
		if clock != nil {
			f.clock = clock
		}
	}
}
