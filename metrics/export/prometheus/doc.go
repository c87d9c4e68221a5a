// Package prometheus renders registry metrics in the Prometheus text
// exposition format.
//
// [NewExporter] wraps a [goSentinel.Registry] and exposes an [http.Handler].
// Counter names are prefixed gosentinel_ and end in _total; the single
// histogram is gosentinel_mirror_resolve_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate registry state.
package prometheus
