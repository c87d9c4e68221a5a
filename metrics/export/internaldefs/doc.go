// Package internaldefs holds the metric names and bucket bounds shared by the
// exporters, so that Prometheus and OTel output use identical names.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs
