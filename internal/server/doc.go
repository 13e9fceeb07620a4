// Package server exposes a running splash sequence over HTTP: the current
// render directives, a server-sent event stream of directive updates, the
// declared timeline, a health check and Prometheus metrics.
package server
