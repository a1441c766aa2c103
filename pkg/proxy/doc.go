// Package proxy implements a minimal HTTP logging server for debugging
// signed requests. Every request line, header set and body is logged; when a
// remote endpoint is configured the request is replayed against it and the
// response relayed back, so clients can sign against the real endpoint while
// observing the exact bytes on the wire.
//
// The server can be reconfigured at runtime through the /__config routes.
package proxy
