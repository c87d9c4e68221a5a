// Package naming implements the rules a constant name must satisfy before a
// registry will create a constant for it.
//
// # Rules
//
// A name is accepted when it contains at least one cased letter and no
// lower-case or title-case letters (digits and punctuation are ignored), or
// when it is wrapped in double underscores ("__dunder__"). The dunder escape
// exists so tooling-significant names are never rejected.
//
// # What this package must NOT do
//
//   - Keep state. Every function is pure and safe for concurrent use.
//   - Import goSentinel or any of its sub-packages.
package naming
