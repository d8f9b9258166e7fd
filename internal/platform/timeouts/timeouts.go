// Package timeouts defines shared timeout constants used across the server.
// Centralizing these values prevents drift between the HTTP and websocket
// surfaces and makes the durations discoverable.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the server waits for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// SocketWrite caps a single websocket write, including broadcast fan-out.
const SocketWrite = 10 * time.Second

// PongWait is how long a websocket connection may stay silent before it is
// considered dead. Must exceed PingPeriod.
const PongWait = 60 * time.Second

// PingPeriod is the interval between server pings on a websocket connection.
const PingPeriod = 50 * time.Second
