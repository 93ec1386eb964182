// Package http implements the presence backend's HTTP transport.
//
// It serves the presence websocket endpoint, a health probe and the
// Prometheus metrics endpoint. Request tracing, access logging and bearer
// token authentication are middleware applied before a connection is
// upgraded and handed to the presence hub.
package http
