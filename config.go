package goSentinel

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/MrEthical07/goSentinel/digest"
	"github.com/MrEthical07/goSentinel/naming"
)

// Config controls how a Registry derives defaults, records metrics and audit
// events, and which constants it declares at build time.
//
// Config values are meant to be set up during initialization and treated as
// immutable afterwards.
type Config struct {
	Digest    DigestConfig           `toml:"digest"`
	Defaults  DefaultsConfig         `toml:"defaults"`
	Metrics   MetricsConfig          `toml:"metrics"`
	Audit     AuditConfig            `toml:"audit"`
	Mirror    MirrorConfig           `toml:"mirror"`
	Constants map[string]Declaration `toml:"constants"`
}

// DigestConfig selects the hash that default representations are cut from.
type DigestConfig struct {
	Algorithm string `toml:"algorithm"` // "sha512" (default), "blake2b-512", "sha3-512"
}

// DefaultsConfig controls default representation materialization.
type DefaultsConfig struct {
	Disabled bool `toml:"disabled"`
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool `toml:"enabled"`
	EnableLatencyHistograms bool `toml:"enable_latency_histograms"`
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool `toml:"enabled"`
	BufferSize int  `toml:"buffer_size"`
	DropIfFull bool `toml:"drop_if_full"`
}

// MirrorConfig names the key namespace used by a shared reverse index.
type MirrorConfig struct {
	Prefix string `toml:"prefix"`
}

// Declaration binds a constant at build time. At most one of Bytes, String
// and Int may be set; Bool may be combined with any of them.
type Declaration struct {
	Bytes  *string `toml:"bytes"`
	String *string `toml:"string"`
	Int    *int64  `toml:"int"`
	Bool   *bool   `toml:"bool"`
}

// value returns the representation the declaration binds, if any.
func (d Declaration) value() (any, bool) {
	switch {
	case d.Bytes != nil:
		return []byte(*d.Bytes), true
	case d.String != nil:
		return *d.String, true
	case d.Int != nil:
		return *d.Int, true
	default:
		return nil, false
	}
}

func defaultConfig() Config {
	return Config{
		Digest: DigestConfig{
			Algorithm: string(digest.SHA512),
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 64,
			DropIfFull: true,
		},
		Mirror: MirrorConfig{
			Prefix: "gs",
		},
	}
}

// DefaultConfig returns the configuration New starts from.
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Constants != nil {
		out.Constants = make(map[string]Declaration, len(cfg.Constants))
		for name, decl := range cfg.Constants {
			out.Constants[name] = decl
		}
	}
	return out
}

// Validate reports the first problem found in c.
func (c *Config) Validate() error {
	if _, err := digest.ParseAlgorithm(c.Digest.Algorithm); err != nil {
		return err
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	if strings.ContainsAny(c.Mirror.Prefix, " \t\r\n") {
		return errors.New("Mirror Prefix must not contain whitespace")
	}

	for name, decl := range c.Constants {
		if err := naming.Validate(name); err != nil {
			return fmt.Errorf("constants: %w", err)
		}
		set := 0
		for _, ok := range []bool{decl.Bytes != nil, decl.String != nil, decl.Int != nil} {
			if ok {
				set++
			}
		}
		if set > 1 {
			return fmt.Errorf("constants: %s declares more than one representation", name)
		}
		if set == 0 && decl.Bool == nil {
			return fmt.Errorf("constants: %s declares nothing", name)
		}
	}

	return nil
}

// ParseConfig decodes a TOML document over the default configuration. Keys
// the configuration does not define are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := defaultConfig()
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("parse config: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the TOML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}
