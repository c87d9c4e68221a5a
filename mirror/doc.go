// Package mirror shares a registry's reverse index across processes through
// Redis.
//
// Each materialized default representation is stored as prefix:<hex digest>
// holding the constant name. Keys are written with SETNX: the first name
// published under a digest owns it, and publishing a different name under the
// same digest is reported as a collision instead of overwriting.
//
// # Architecture boundaries
//
// The package only moves names. Callers are expected to re-derive the digest
// from a looked-up name before trusting it. All Redis traffic passes through
// a circuit breaker so that a failing backend degrades to local-only
// resolution.
//
// # What this package must NOT do
//
//   - Import goSentinel (the root package depends on this package's behavior
//     only through its Mirror interface).
//   - Block without a context.
package mirror
