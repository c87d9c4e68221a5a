// Package audit relays registry transition events to a caller-supplied sink
// without blocking the transition itself.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event]: one constant transition: creation, binding, default materialization, rejection.
//
// # Architecture boundaries
//
// This package owns buffering and delivery. The registry decides which
// transitions become events.
//
// # What this package must NOT do
//
//   - Filter or suppress events.
//   - Import goSentinel or any sibling package.
//   - Perform I/O beyond what a caller-supplied Sink does.
package audit
