// Package goSentinel provides named sentinel constants whose wire
// representation is bound at most once.
//
// A [Constant] is created on first reference through a [Registry] and is the
// only constant with its upper-cased name for the registry's lifetime. It can
// be passed around before its concrete value is known; the first
// [Constant.RepresentAs] fixes that value, and a constant that is read as
// bytes or an integer before being bound falls back to a default
// representation: the first eight bytes of a 512-bit hash of its name. The
// registry keeps a reverse index of those defaults so that [Registry.Resolve]
// turns bytes read off the wire back into the constant.
//
// # Architecture boundaries
//
// goSentinel is the public surface: [Registry], [Constant], [Value],
// [Builder] and [Config]. Name rules live in naming, hashing in digest, key
// framing in wire. Cross-process sharing is optional and lives in mirror
// (reverse index over Redis) and manifest (signed binding lists). Audit
// dispatch is internal.
//
// # What this package must NOT do
//
//   - Perform I/O outside the context-taking mirror methods.
//   - Let a representation or boolean override change once bound.
//   - Populate the reverse index from anything but a materialized default.
//
// # Concurrency
//
// Reads of a constant's state are lock-free. Binding is serialized per
// constant: concurrent binders of the same value all succeed, binders of a
// different value observe [ErrRebind]. Default materialization converges on a
// single value and a single reverse index entry.
package goSentinel
