package appcore

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one in-process counter.
type MetricID uint16

const (
	// MetricSignInSuccess counts successful sign-ins.
	MetricSignInSuccess MetricID = iota
	// MetricSignInFailure counts rejected sign-ins.
	MetricSignInFailure
	// MetricSignUpSuccess counts successful registrations.
	MetricSignUpSuccess
	// MetricSignUpFailure counts rejected registrations.
	MetricSignUpFailure
	// MetricSignOut counts local sign-outs.
	MetricSignOut
	// MetricSignOutRemoteError counts sign-outs whose remote invalidation
	// failed; local state cleared regardless.
	MetricSignOutRemoteError
	// MetricSessionRestored counts sessions restored from persistence on
	// start.
	MetricSessionRestored
	// MetricTokenRefreshed counts token-refresh notifications applied.
	MetricTokenRefreshed
	// MetricExternalSignOut counts sign-outs pushed by the credential
	// store.
	MetricExternalSignOut
	// MetricRewardShown counts displayed reward events.
	MetricRewardShown
	// MetricRewardReplaced counts rewards superseded mid-display.
	MetricRewardReplaced
	// MetricRewardExpired counts rewards cleared by the countdown.
	MetricRewardExpired
	// MetricSignInLatency is the credential round-trip histogram.
	MetricSignInLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds the in-process counters. All methods are safe for
// concurrent use and free of locks.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a Metrics set from cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency sample. Only [MetricSignInLatency] carries a
// histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricSignInLatency {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter and histogram.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := range buckets {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricSignInLatency].buckets[i])
		}
		s.Histograms[MetricSignInLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
