package goSentinel

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a registry counter.
type MetricID uint16

const (
	// MetricConstantCreated counts constants created on first reference.
	MetricConstantCreated MetricID = iota
	// MetricNamingRejected counts names rejected by the validator.
	MetricNamingRejected
	// MetricRepresentationBound counts explicit representation bindings.
	MetricRepresentationBound
	// MetricDefaultMaterialized counts default representations derived from names.
	MetricDefaultMaterialized
	// MetricBoolBound counts boolean overrides.
	MetricBoolBound
	// MetricRebindRejected counts rejected rebinding attempts.
	MetricRebindRejected
	// MetricStringFrozenRejected counts bindings rejected because the name was already observed.
	MetricStringFrozenRejected
	// MetricBoolConflict counts rejected boolean overrides and conflicting representations.
	MetricBoolConflict
	// MetricReverseLookupHit counts reverse index hits.
	MetricReverseLookupHit
	// MetricReverseLookupMiss counts reverse index misses.
	MetricReverseLookupMiss
	// MetricMirrorLookupHit counts names recovered through the mirror.
	MetricMirrorLookupHit
	// MetricMirrorLookupMiss counts mirror lookups that found nothing usable.
	MetricMirrorLookupMiss
	// MetricMirrorPublished counts defaults published to the mirror.
	MetricMirrorPublished
	// MetricRegistryReset counts registry resets.
	MetricRegistryReset
	// MetricMirrorResolveLatency is the latency histogram of mirror lookups.
	MetricMirrorResolveLatency
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

// Metrics holds lock-free registry counters.
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

// NewMetrics creates a metrics set. A disabled set records nothing.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether latency histograms are recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency sample. Only MetricMirrorResolveLatency has a
// histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricMirrorResolveLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current value of a counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters and, when enabled, the latency histogram.
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
		if id == MetricMirrorResolveLatency {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricMirrorResolveLatency].buckets[i])
		}
		s.Histograms[MetricMirrorResolveLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 1:
		return 0
	case ms <= 2:
		return 1
	case ms <= 5:
		return 2
	case ms <= 10:
		return 3
	case ms <= 25:
		return 4
	case ms <= 50:
		return 5
	case ms <= 100:
		return 6
	default:
		return 7
	}
}
