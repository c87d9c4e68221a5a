package internaldefs

import (
	goSentinel "github.com/MrEthical07/goSentinel"
)

// CounterDef names one registry counter.
type CounterDef struct {
	ID   goSentinel.MetricID
	Name string
	Help string
}

// HistogramDef names one registry latency histogram.
type HistogramDef struct {
	ID   goSentinel.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter.
var CounterDefs = []CounterDef{
	{ID: goSentinel.MetricConstantCreated, Name: "gosentinel_constant_created_total", Help: "Constants created on first reference."},
	{ID: goSentinel.MetricNamingRejected, Name: "gosentinel_naming_rejected_total", Help: "Constant names rejected by validation."},
	{ID: goSentinel.MetricRepresentationBound, Name: "gosentinel_representation_bound_total", Help: "Explicit representation bindings."},
	{ID: goSentinel.MetricDefaultMaterialized, Name: "gosentinel_default_materialized_total", Help: "Default representations derived from names."},
	{ID: goSentinel.MetricBoolBound, Name: "gosentinel_bool_bound_total", Help: "Boolean overrides bound."},
	{ID: goSentinel.MetricRebindRejected, Name: "gosentinel_rebind_rejected_total", Help: "Rejected attempts to rebind a representation."},
	{ID: goSentinel.MetricStringFrozenRejected, Name: "gosentinel_string_frozen_rejected_total", Help: "Bindings rejected because the name was already observed."},
	{ID: goSentinel.MetricBoolConflict, Name: "gosentinel_bool_conflict_total", Help: "Rejected conflicting boolean bindings."},
	{ID: goSentinel.MetricReverseLookupHit, Name: "gosentinel_reverse_lookup_hit_total", Help: "Reverse index lookups that found a constant."},
	{ID: goSentinel.MetricReverseLookupMiss, Name: "gosentinel_reverse_lookup_miss_total", Help: "Reverse index lookups that found nothing."},
	{ID: goSentinel.MetricMirrorLookupHit, Name: "gosentinel_mirror_lookup_hit_total", Help: "Constants recovered through the shared mirror."},
	{ID: goSentinel.MetricMirrorLookupMiss, Name: "gosentinel_mirror_lookup_miss_total", Help: "Mirror lookups that yielded no usable constant."},
	{ID: goSentinel.MetricMirrorPublished, Name: "gosentinel_mirror_published_total", Help: "Default representations published to the mirror."},
	{ID: goSentinel.MetricRegistryReset, Name: "gosentinel_registry_reset_total", Help: "Registry resets."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goSentinel.MetricMirrorResolveLatency, Name: "gosentinel_mirror_resolve_latency_seconds", Help: "Mirror lookup latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds.
var HistogramBounds = []string{
	"0.001",
	"0.002",
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"+Inf",
}

// HistogramBoundSuffix renders HistogramBounds for use in instrument names.
var HistogramBoundSuffix = []string{
	"0_001",
	"0_002",
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"inf",
}

// NormalizeBuckets copies raw into a fixed bucket array, zero filling.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
