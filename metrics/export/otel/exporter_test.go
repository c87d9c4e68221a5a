package otel

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	goSentinel "github.com/MrEthical07/goSentinel"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot goSentinel.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() goSentinel.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := goSentinel.MetricsSnapshot{
		Counters:   make(map[goSentinel.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[goSentinel.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		out.Histograms[k] = append([]uint64(nil), buckets...)
	}
	return out
}

func (f *fakeSource) AuditDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dropped
}

func newReaderMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

func findSum(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			require.NotEmpty(t, sum.DataPoints)
			return sum.DataPoints[0].Value
		}
	}
	t.Fatalf("metric %s not collected", name)
	return 0
}

func TestExporterCollectsRegistryCounters(t *testing.T) {
	reader, provider := newReaderMeter()

	r, err := goSentinel.New().Build()
	require.NoError(t, err)
	defer r.Close()

	c, err := r.GetOrCreate("LLAMAS")
	require.NoError(t, err)
	_, err = c.Bytes()
	require.NoError(t, err)

	exp, err := NewExporter(provider.Meter("gosentinel-test"), r)
	require.NoError(t, err)
	defer func() { require.NoError(t, exp.Close()) }()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.EqualValues(t, 1, findSum(t, rm, "gosentinel_constant_created_total"))
	assert.EqualValues(t, 1, findSum(t, rm, "gosentinel_default_materialized_total"))
	assert.EqualValues(t, 0, findSum(t, rm, "gosentinel_audit_dropped_total"))
}

func TestExporterCollectsHistogramBuckets(t *testing.T) {
	reader, provider := newReaderMeter()
	src := &fakeSource{
		snapshot: goSentinel.MetricsSnapshot{
			Counters: map[goSentinel.MetricID]uint64{goSentinel.MetricMirrorLookupHit: 3},
			Histograms: map[goSentinel.MetricID][]uint64{
				goSentinel.MetricMirrorResolveLatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		dropped: 2,
	}

	exp, err := NewExporterFromSource(provider.Meter("gosentinel-test"), src)
	require.NoError(t, err)
	defer func() { require.NoError(t, exp.Close()) }()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.NotEmpty(t, rm.ScopeMetrics)

	assert.EqualValues(t, 3, findSum(t, rm, "gosentinel_mirror_lookup_hit_total"))
	assert.EqualValues(t, 2, findSum(t, rm, "gosentinel_audit_dropped_total"))
}

func TestExporterRejectsNilInputs(t *testing.T) {
	_, provider := newReaderMeter()
	meter := provider.Meter("gosentinel-test")

	_, err := NewExporterFromSource(meter, nil)
	assert.ErrorIs(t, err, ErrNilSource)

	_, err = NewExporter(meter, nil)
	assert.ErrorIs(t, err, ErrNilSource)

	_, err = NewExporterFromSource(nil, &fakeSource{})
	assert.ErrorIs(t, err, ErrNilMeter)
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader, provider := newReaderMeter()
	src := &fakeSource{
		snapshot: goSentinel.MetricsSnapshot{
			Counters:   map[goSentinel.MetricID]uint64{goSentinel.MetricConstantCreated: 1},
			Histograms: map[goSentinel.MetricID][]uint64{},
		},
	}

	exp, err := NewExporterFromSource(provider.Meter("gosentinel-test"), src)
	require.NoError(t, err)
	defer func() { require.NoError(t, exp.Close()) }()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[goSentinel.MetricConstantCreated] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}
