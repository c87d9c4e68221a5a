package goSentinel

import (
	"errors"
	"fmt"

	"github.com/MrEthical07/goSentinel/manifest"
)

// Export lists the explicit bindings of every registered constant, sorted by
// name. Default representations and opaque payloads are not exported.
func (r *Registry) Export() []manifest.Entry {
	var out []manifest.Entry
	for _, c := range r.constants() {
		e, ok := c.entry()
		if ok {
			out = append(out, e)
		}
	}
	return out
}

func (c *Constant) entry() (manifest.Entry, bool) {
	e := manifest.Entry{Name: c.name}
	if b := c.st.rep.Load(); b != nil && !b.fallback {
		switch b.value.kind {
		case KindBytes:
			e = manifest.BytesEntry(c.name, b.value.raw)
		case KindInt:
			e = manifest.IntEntry(c.name, b.value.num)
		case KindString:
			e = manifest.StringEntry(c.name, b.value.text)
		}
	}
	if t := c.st.truth.Load(); t != nil {
		v := *t
		e.Bool = &v
	}
	return e, e.Kind != "" || e.Bool != nil
}

// Import applies entries through the normal binding rules. Every entry is
// attempted; failures are joined.
func (r *Registry) Import(entries []manifest.Entry) error {
	var errs []error
	for _, e := range entries {
		if err := r.importEntry(e); err != nil {
			errs = append(errs, fmt.Errorf("import %s: %w", e.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) importEntry(e manifest.Entry) error {
	v, hasValue, err := e.Decode()
	if err != nil {
		return err
	}
	c, err := r.GetOrCreate(e.Name)
	if err != nil {
		return err
	}
	if hasValue {
		if _, err := c.RepresentAs(v); err != nil {
			return err
		}
	}
	if e.Bool != nil {
		if _, err := c.BoolValue(*e.Bool); err != nil {
			return err
		}
	}
	return nil
}

// SignManifest exports r and signs the result.
func (r *Registry) SignManifest(s *manifest.Signer) (string, error) {
	return s.Sign(r.id.String(), r.Export())
}

// ApplyManifest verifies token with s and imports its entries.
func (r *Registry) ApplyManifest(s *manifest.Signer, token string) error {
	claims, err := s.Parse(token)
	if err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	return r.Import(claims.Entries)
}
