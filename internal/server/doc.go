// Package server runs the presence backend's HTTP server.
//
// It owns the listener lifecycle: startup, signal handling and graceful
// shutdown, including the websocket sessions that http.Server does not
// track once they are upgraded.
package server
