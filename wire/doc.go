// Package wire slices fixed-width fields off the front of a byte buffer.
//
// Callers deserializing messages that carry a constant's default
// representation use [KeySplitter] to peel the 8-byte key off a frame and
// hand it to a registry's Resolve.
//
// # What this package must NOT do
//
//   - Interpret the bytes it splits.
//   - Import goSentinel.
package wire
