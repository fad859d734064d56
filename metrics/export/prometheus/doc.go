// Package prometheus renders the core's metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts an [appcore.Manager] and exposes an
// [net/http.Handler] serving every counter and the sign-in latency
// histogram. Counter names are prefixed appcore_*_total; the histogram is
// appcore_signin_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the
//     Handler.
//   - Mutate manager state.
package prometheus
