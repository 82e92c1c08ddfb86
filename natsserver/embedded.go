// Package natsserver provides an embedded NATS server for the invoice
// event stream, so a single deployment needs no external broker.
package natsserver

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// EmbeddedNATS wraps an embedded NATS server with a client connection
type EmbeddedNATS struct {
	server *server.Server
	conn   *nats.Conn
}

// Config holds configuration for the embedded NATS server
type Config struct {
	Port int // zero or negative picks a random free port
}

// New creates and starts an embedded NATS server
func New(cfg Config) (*EmbeddedNATS, error) {
	port := cfg.Port
	if port <= 0 {
		port = server.RANDOM_PORT
	}

	opts := &server.Options{
		Host:          "127.0.0.1",
		Port:          port,
		NoLog:         true,
		NoSigs:        true,
		WriteDeadline: 10 * time.Second,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS server: %w", err)
	}

	// Start server in background
	go ns.Start()

	// Wait for server to be ready
	if !ns.ReadyForConnections(5 * time.Second) {
		return nil, fmt.Errorf("NATS server not ready after 5 seconds")
	}

	// Create internal client connection
	nc, err := nats.Connect(
		ns.ClientURL(),
		nats.Name("taxdesk-internal"),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("failed to connect to embedded NATS: %w", err)
	}

	return &EmbeddedNATS{server: ns, conn: nc}, nil
}

// Conn returns the internal client connection.
func (e *EmbeddedNATS) Conn() *nats.Conn {
	return e.conn
}

// ClientURL returns the URL external clients can connect to.
func (e *EmbeddedNATS) ClientURL() string {
	return e.server.ClientURL()
}

// Shutdown closes the client connection and stops the server.
func (e *EmbeddedNATS) Shutdown() {
	if e.conn != nil {
		e.conn.Close()
	}
	if e.server != nil {
		e.server.Shutdown()
	}
}
