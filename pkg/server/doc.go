// Package server hosts named mount points over HTTP and WebSocket.
//
// A mount is a live node graph (host.Graph) with a root handle and a
// vdom.Session reconciling into it. Every render is captured as a
// protocol.Batch, kept in a bounded history and pushed to WebSocket
// subscribers, which replay it onto their own graph.
//
// # Routes
//
//	PUT  /mounts/{id}           create a mount (idempotent)
//	GET  /mounts                list mounts
//	POST /mounts/{id}/render    render a JSON or YAML tree document
//	GET  /mounts/{id}           current HTML
//	GET  /mounts/{id}/tree      current tree document (JSON)
//	GET  /mounts/{id}/ws        binary frame stream (?since=N)
//	POST /mounts/{id}/snapshot  export to the snapshot store
//	GET  /mounts/{id}/snapshot  read the last export back
//	GET  /healthz               liveness
//	GET  /metrics               Prometheus metrics
//
// # Stream
//
// A WebSocket subscriber first receives a FrameHello describing the
// mount, then every FrameMutations batch after ?since in order. The last
// replayed history frame carries FlagFinal. A subscriber that falls more
// than SubscriberBuffer frames behind is sent a FrameError and closed.
// Streams are read-only; a peer that sends a data message gets an
// InvalidFrame error and is closed.
//
// Renders on one mount are serialized; different mounts render in
// parallel.
package server
