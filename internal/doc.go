// Package internal holds code that is private to goSentinel.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//
// # What this package must NOT do
//
//   - Export types that appear in the public goSentinel API except through
//     the aliases in the root package.
//   - Be imported by any package outside the goSentinel module.
package internal
