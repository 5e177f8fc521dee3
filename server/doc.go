// Package server publishes the output of a [compiler.Session] over HTTP.
//
// Routes:
//
//	GET /de.glsl   latest good code, with an ETag derived from its hash
//	GET /status    JSON summary of the latest submission
//	GET /metrics   Prometheus metrics
//	GET /debug/    net/http/pprof handlers, with [WithProfiler]
//
// A renderer can poll /de.glsl with If-None-Match and relink its shader only
// when the response is not 304 Not Modified.
package server
