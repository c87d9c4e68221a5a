// Package manifest carries a registry's explicit bindings between processes
// as a signed JWT.
//
// A manifest lists, for each constant with an explicit representation or a
// boolean override, its name and binding. Receivers verify the signature
// before re-applying the entries through the normal one-time-write rules, so
// a manifest can never rebind a constant that the receiver already bound to
// something else.
//
// # Architecture boundaries
//
// The package defines the wire form ([Entry], [Claims]) and signing
// ([Signer]). Converting entries to and from constants is done by the root
// package's Registry.Export and Registry.Import.
//
// # What this package must NOT do
//
//   - Import goSentinel.
//   - Accept tokens signed with an algorithm other than the configured one.
package manifest
