// Package mirror serves a live preview of a rendered tree.
//
// A Server owns an in-memory document with a container element and a
// renderer bound to it. Trees posted to /render are reconciled into the
// container, and every resulting mutation is streamed to websocket clients
// on /ws, so a client that applies the stream stays in sync without
// re-fetching the page.
//
// Routes:
//
//	GET  /healthz                   liveness
//	GET  /tree                      container HTML (?pretty=1, ?format=yaml)
//	POST /render                    tree file body; responds with render stats
//	POST /dispatch/{handle}/{event} deliver an event (?value= for input)
//	GET  /ws                        snapshot, then mutation stream
//	GET  /metrics                   Prometheus metrics when enabled
//
// Renders and dispatches are serialized; event handlers run under the same
// lock and must not call back into the server.
package mirror
