package goSentinel

import (
	"bytes"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/MrEthical07/goSentinel/digest"
)

// Mirror is a reverse index shared with other processes. mirror.Store is the
// Redis implementation.
type Mirror interface {
	Publish(ctx context.Context, d digest.Digest, name string) error
	Lookup(ctx context.Context, d digest.Digest) (string, bool, error)
}

// PublishDefaults pushes every locally materialized default representation
// to the mirror. Failures for individual constants are joined.
func (r *Registry) PublishDefaults(ctx context.Context) error {
	if r.mirror == nil {
		return ErrMirrorNotConfigured
	}

	type entry struct {
		key  digest.Digest
		name string
	}
	r.mu.RLock()
	entries := make([]entry, 0, len(r.byDigest))
	for key, c := range r.byDigest {
		entries = append(entries, entry{key: key, name: c.name})
	}
	r.mu.RUnlock()

	var errs []error
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := r.mirror.Publish(ctx, e.key, e.name); err != nil {
			r.logger.Warn("mirror publish failed",
				zap.String("constant", e.name),
				zap.Stringer("digest", e.key),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}
		r.metrics.Inc(MetricMirrorPublished)
	}
	return errors.Join(errs...)
}

// ResolveContext is Resolve with a mirror fallback: a key missing from the
// local reverse index is looked up in the mirror, and a returned name is
// accepted only if it hashes back to the key under this registry's algorithm.
// The recovered constant then materializes its default locally. Mirror
// failures degrade to the local result.
func (r *Registry) ResolveContext(ctx context.Context, v any) (Resolved, error) {
	res, err := r.Resolve(v)
	if err != nil || res.IsConstant() || r.mirror == nil {
		return res, err
	}

	key, err := digest.FromBytes(res.Raw)
	if err != nil {
		return res, nil
	}

	start := time.Now()
	name, ok, err := r.mirror.Lookup(ctx, key)
	r.metrics.Observe(MetricMirrorResolveLatency, time.Since(start))
	if err != nil {
		r.metrics.Inc(MetricMirrorLookupMiss)
		r.logger.Warn("mirror lookup failed", zap.Stringer("digest", key), zap.Error(err))
		return res, nil
	}
	if !ok || r.sum(name) != key {
		r.metrics.Inc(MetricMirrorLookupMiss)
		return res, nil
	}

	c, err := r.GetOrCreate(name)
	if err != nil {
		r.metrics.Inc(MetricMirrorLookupMiss)
		return res, nil
	}
	// A constant with an explicit representation does not own the key.
	if got, err := c.Bytes(); err != nil || !bytes.Equal(got, key[:]) {
		r.metrics.Inc(MetricMirrorLookupMiss)
		return res, nil
	}

	r.metrics.Inc(MetricMirrorLookupHit)
	return Resolved{Constant: c}, nil
}
