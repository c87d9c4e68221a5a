package goSentinel

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrEthical07/goSentinel/digest"
	"github.com/MrEthical07/goSentinel/internal/audit"
	"github.com/MrEthical07/goSentinel/naming"
)

// Registry owns the constants created through it: one Constant per
// upper-cased name, plus a reverse index from default representation to
// Constant. A Registry is safe for concurrent use.
type Registry struct {
	id       uuid.UUID
	config   Config
	alg      digest.Algorithm
	logger   *zap.Logger
	metrics  *Metrics
	audit    *audit.Dispatcher
	mirror   Mirror
	disabled bool

	mu         sync.RWMutex
	generation uint64
	byName     map[string]*Constant
	byDigest   map[digest.Digest]*Constant
}

type registryDeps struct {
	logger    *zap.Logger
	auditSink AuditSink
	mirror    Mirror
}

// NewRegistry returns an empty registry with the default configuration.
func NewRegistry() *Registry {
	r, err := newRegistry(defaultConfig(), registryDeps{})
	if err != nil {
		panic(err)
	}
	return r
}

func newRegistry(cfg Config, deps registryDeps) (*Registry, error) {
	alg, err := digest.ParseAlgorithm(cfg.Digest.Algorithm)
	if err != nil {
		return nil, err
	}
	logger := deps.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		id:       uuid.New(),
		config:   cfg,
		alg:      alg,
		metrics:  NewMetrics(cfg.Metrics),
		mirror:   deps.mirror,
		disabled: cfg.Defaults.Disabled,
		byName:   make(map[string]*Constant),
		byDigest: make(map[digest.Digest]*Constant),
	}
	r.logger = logger.With(zap.String("registry", r.id.String()))
	r.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, deps.auditSink)

	return r, nil
}

// ID returns the registry instance identifier stamped on audit events and
// manifests.
func (r *Registry) ID() uuid.UUID {
	return r.id
}

// Algorithm returns the hash default representations are cut from.
func (r *Registry) Algorithm() digest.Algorithm {
	return r.alg
}

// GetOrCreate returns the constant registered under the upper-cased form of
// name, creating it on first reference. The name is validated only when the
// constant is created.
func (r *Registry) GetOrCreate(name string) (*Constant, error) {
	key := naming.Normalize(name)

	r.mu.RLock()
	c := r.byName[key]
	r.mu.RUnlock()
	if c != nil {
		return c, nil
	}

	if err := naming.Validate(name); err != nil {
		r.metrics.Inc(MetricNamingRejected)
		r.logger.Debug("constant name rejected", zap.String("name", name))
		return nil, err
	}

	r.mu.Lock()
	if c = r.byName[key]; c != nil {
		r.mu.Unlock()
		return c, nil
	}
	c = &Constant{
		name:       name,
		key:        key,
		registry:   r,
		generation: r.generation,
		st:         &constantState{},
	}
	r.byName[key] = c
	r.mu.Unlock()

	r.metrics.Inc(MetricConstantCreated)
	r.logger.Debug("constant created", zap.String("constant", name))
	r.emit(EventConstantCreated, c, "", nil)
	return c, nil
}

// MustGet is GetOrCreate for package-level declarations. It panics when name
// is invalid.
func (r *Registry) MustGet(name string) *Constant {
	c, err := r.GetOrCreate(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the constant registered under name without creating it.
func (r *Registry) Lookup(name string) (*Constant, bool) {
	key := naming.Normalize(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byName[key]
	return c, ok
}

// FindByDefaultHash returns the constant whose materialized default
// representation is b. Slices that are not a full key always miss.
func (r *Registry) FindByDefaultHash(b []byte) (*Constant, bool) {
	key, err := digest.FromBytes(b)
	if err != nil {
		r.metrics.Inc(MetricReverseLookupMiss)
		return nil, false
	}
	return r.findDigest(key)
}

func (r *Registry) findDigest(key digest.Digest) (*Constant, bool) {
	r.mu.RLock()
	c, ok := r.byDigest[key]
	r.mu.RUnlock()

	if ok {
		r.metrics.Inc(MetricReverseLookupHit)
	} else {
		r.metrics.Inc(MetricReverseLookupMiss)
	}
	return c, ok
}

// Resolved is the outcome of Resolve: either a Constant or the raw bytes that
// matched none.
type Resolved struct {
	Constant *Constant
	Raw      []byte
}

// IsConstant reports whether the input resolved to a Constant.
func (r Resolved) IsConstant() bool {
	return r.Constant != nil
}

// Resolve maps a value received from the wire back to a Constant. A Constant
// is returned as is. Bytes, a digest.Digest or a bytes Value are looked up
// in the reverse index and returned unchanged on a miss. Anything else fails
// with ErrCast.
func (r *Registry) Resolve(v any) (Resolved, error) {
	switch x := v.(type) {
	case *Constant:
		return Resolved{Constant: x}, nil
	case digest.Digest:
		if c, ok := r.findDigest(x); ok {
			return Resolved{Constant: c}, nil
		}
		return Resolved{Raw: x.Bytes()}, nil
	case []byte:
		return r.resolveBytes(x), nil
	case Value:
		if raw, ok := x.Bytes(); ok {
			return r.resolveBytes(raw), nil
		}
		return Resolved{}, fmt.Errorf("%w: cannot resolve %s value", ErrCast, x.Kind())
	default:
		return Resolved{}, fmt.Errorf("%w: cannot resolve %T", ErrCast, v)
	}
}

func (r *Registry) resolveBytes(b []byte) Resolved {
	if c, ok := r.FindByDefaultHash(b); ok {
		return Resolved{Constant: c}
	}
	return Resolved{Raw: b}
}

// Reset forgets every constant and reverse index entry. Constants handed out
// earlier keep working but are no longer reachable through the registry.
func (r *Registry) Reset() {
	r.mu.Lock()
	n := len(r.byName)
	r.generation++
	r.byName = make(map[string]*Constant)
	r.byDigest = make(map[digest.Digest]*Constant)
	r.mu.Unlock()

	r.metrics.Inc(MetricRegistryReset)
	r.logger.Debug("registry reset", zap.Int("constants", n))
	r.emit(EventRegistryReset, nil, "", nil)
}

// Len returns the number of registered constants.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	constants := r.constants()
	names := make([]string, len(constants))
	for i, c := range constants {
		names[i] = c.name
	}
	return names
}

// constants returns the registered constants sorted by name.
func (r *Registry) constants() []*Constant {
	r.mu.RLock()
	out := make([]*Constant, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, c)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Constant) int {
		return strings.Compare(a.key, b.key)
	})
	return out
}

// Metrics returns the registry counters.
func (r *Registry) Metrics() *Metrics {
	return r.metrics
}

// MetricsSnapshot copies the registry counters.
func (r *Registry) MetricsSnapshot() MetricsSnapshot {
	return r.metrics.Snapshot()
}

// AuditDropped returns the number of audit events dropped under backpressure.
func (r *Registry) AuditDropped() uint64 {
	return r.audit.Dropped()
}

// Close flushes pending audit events. The registry stays usable; events
// emitted after Close are discarded.
func (r *Registry) Close() {
	r.audit.Close()
}

func (r *Registry) sum(name string) digest.Digest {
	return digest.Sum(r.alg, name)
}

func (r *Registry) defaultsDisabled() bool {
	return r.disabled
}

// indexDefault records the registered instance for c under key unless the
// registry was reset after c was created. The first constant indexed under a
// key keeps it.
func (r *Registry) indexDefault(key digest.Digest, c *Constant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.generation != r.generation {
		return
	}
	if canonical := r.byName[c.key]; canonical != nil {
		c = canonical
	}
	if prev, ok := r.byDigest[key]; ok {
		if prev != c {
			r.logger.Warn("default representation collision",
				zap.String("constant", c.name),
				zap.String("existing", prev.name),
				zap.Stringer("digest", key))
		}
		return
	}
	r.byDigest[key] = c
}

func (r *Registry) materialized(c *Constant, key digest.Digest) {
	r.metrics.Inc(MetricDefaultMaterialized)
	r.logger.Debug("default representation materialized",
		zap.String("constant", c.name),
		zap.Stringer("digest", key))
	r.emit(EventDefaultMaterialized, c, key.String(), nil)
}

func (r *Registry) bound(c *Constant, v Value) {
	r.metrics.Inc(MetricRepresentationBound)
	r.logger.Debug("representation bound",
		zap.String("constant", c.name),
		zap.Stringer("kind", v.Kind()))
	r.emit(EventConstantBound, c, v.String(), nil)
}

func (r *Registry) boolBound(c *Constant, b bool) {
	r.metrics.Inc(MetricBoolBound)
	r.emit(EventBoolBound, c, fmt.Sprintf("%t", b), nil)
}

func (r *Registry) rejected(c *Constant, err error) {
	switch {
	case errors.Is(err, ErrRebind):
		r.metrics.Inc(MetricRebindRejected)
	case errors.Is(err, ErrStringFrozen):
		r.metrics.Inc(MetricStringFrozenRejected)
	case errors.Is(err, ErrBoolConflict):
		r.metrics.Inc(MetricBoolConflict)
	}
	r.logger.Warn("binding rejected", zap.String("constant", c.name), zap.Error(err))

	var attempted string
	var be *BindError
	if errors.As(err, &be) {
		attempted = be.Attempted
	}
	r.emit(EventBindRejected, c, attempted, err)
}

func (r *Registry) emit(eventType string, c *Constant, rep string, err error) {
	if r.audit == nil {
		return
	}
	ev := AuditEvent{
		Timestamp:      time.Now().UTC(),
		EventType:      eventType,
		RegistryID:     r.id.String(),
		Representation: rep,
		Success:        err == nil,
	}
	if c != nil {
		ev.Constant = c.name
	}
	if err != nil {
		ev.Error = err.Error()
	}
	r.audit.Emit(context.Background(), ev)
}

var std = NewRegistry()

// Default returns the process-wide registry used by the package-level
// functions.
func Default() *Registry {
	return std
}

// Get returns the constant named name in the default registry.
func Get(name string) (*Constant, error) {
	return std.GetOrCreate(name)
}

// MustGet returns the constant named name in the default registry and panics
// when name is invalid.
func MustGet(name string) *Constant {
	return std.MustGet(name)
}

// FindByDefaultHash looks b up in the default registry's reverse index.
func FindByDefaultHash(b []byte) (*Constant, bool) {
	return std.FindByDefaultHash(b)
}

// Resolve resolves v against the default registry.
func Resolve(v any) (Resolved, error) {
	return std.Resolve(v)
}

// Reset clears the default registry.
func Reset() {
	std.Reset()
}
