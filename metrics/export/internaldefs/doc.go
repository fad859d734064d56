// Package internaldefs holds the stable metric name and bucket definitions
// shared by the exporter implementations.
//
// Counter and histogram definitions live here so the Prometheus and OTel
// exporters render identical names and bounds. Changing a definition
// changes every exporter at once.
//
// # What this package must NOT do
//
//   - Perform I/O.
//   - Import any exporter package.
package internaldefs
