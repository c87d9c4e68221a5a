package goSentinel

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Builder assembles a Registry. A Builder can be built once.
type Builder struct {
	config    Config
	logger    *zap.Logger
	auditSink AuditSink
	mirror    Mirror

	built bool
}

// New returns a Builder starting from the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithLogger sets the logger. Without one the registry logs nothing.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink sets the audit sink. Audit events are only dispatched when
// Config.Audit.Enabled is set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMirror sets the shared reverse index used by PublishDefaults and
// ResolveContext.
func (b *Builder) WithMirror(m Mirror) *Builder {
	b.mirror = m
	return b
}

// WithDigestAlgorithm selects the hash default representations are cut from.
func (b *Builder) WithDigestAlgorithm(alg string) *Builder {
	b.config.Digest.Algorithm = alg
	return b
}

// WithDefaultsDisabled stops unbound constants from materializing a default
// representation.
func (b *Builder) WithDefaultsDisabled(disabled bool) *Builder {
	b.config.Defaults.Disabled = disabled
	return b
}

// WithMetricsEnabled toggles the registry counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the mirror resolve latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithConstant declares a constant applied at Build.
func (b *Builder) WithConstant(name string, decl Declaration) *Builder {
	if b.config.Constants == nil {
		b.config.Constants = make(map[string]Declaration)
	}
	b.config.Constants[name] = decl
	return b
}

// Build validates the configuration, creates the registry and applies the
// declared constants in name order.
func (b *Builder) Build() (*Registry, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r, err := newRegistry(cfg, registryDeps{
		logger:    b.logger,
		auditSink: b.auditSink,
		mirror:    b.mirror,
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(cfg.Constants))
	for name := range cfg.Constants {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := r.declare(name, cfg.Constants[name]); err != nil {
			r.Close()
			return nil, err
		}
	}

	b.built = true
	r.logger.Info("registry built",
		zap.String("digest", string(r.alg)),
		zap.Int("declared", len(names)))
	return r, nil
}

func (r *Registry) declare(name string, decl Declaration) error {
	c, err := r.GetOrCreate(name)
	if err != nil {
		return fmt.Errorf("declare %s: %w", name, err)
	}
	if v, ok := decl.value(); ok {
		if _, err := c.RepresentAs(v); err != nil {
			return fmt.Errorf("declare %s: %w", name, err)
		}
	}
	if decl.Bool != nil {
		if _, err := c.BoolValue(*decl.Bool); err != nil {
			return fmt.Errorf("declare %s: %w", name, err)
		}
	}
	return nil
}
