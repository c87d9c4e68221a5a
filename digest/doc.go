// Package digest derives the default representation of a constant: the first
// [Size] bytes of a 512-bit cryptographic hash of the constant's name.
//
// # Algorithms
//
// SHA-512 is the default and the only algorithm interoperable with other
// implementations. BLAKE2b-512 and SHA3-512 are offered for deployments that
// standardize on those primitives; every process sharing wire data must agree
// on the algorithm.
//
// # What this package must NOT do
//
//   - Keep state or perform I/O.
//   - Import goSentinel or any of its sub-packages.
package digest
