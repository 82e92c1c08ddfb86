// Package services provides business logic services
package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// InvoiceEventsSubject is the NATS subject invoice lifecycle events
// flow through.
const InvoiceEventsSubject = "invoices.events"

// Event types published on the subject.
const (
	EventInvoiceCreated = "invoice.created"
	EventStatusChanged  = "invoice.status_changed"
)

// InvoiceEvent is the message broadcast to admin dashboards when an
// invoice is created or moves through the status workflow.
type InvoiceEvent struct {
	Type          string    `json:"type"`
	InvoiceID     int64     `json:"invoiceId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	UserID        uint      `json:"userId"`
	Status        string    `json:"status"`
	Total         float64   `json:"total"`
	Timestamp     time.Time `json:"timestamp"`
}

// EventHub relays invoice events from NATS to connected WebSocket
// clients. Handlers publish through the hub; the fan-out happens on the
// subscription side so every backend process sees the same stream.
type EventHub struct {
	natsConn *nats.Conn

	clients   map[*EventClient]bool
	clientsMu sync.RWMutex

	register   chan *EventClient
	unregister chan *EventClient

	sub       *nats.Subscription
	published uint64
	pubMu     sync.Mutex
}

// NewEventHub creates a new event hub on an existing NATS connection.
func NewEventHub(natsConn *nats.Conn) *EventHub {
	return &EventHub{
		natsConn:   natsConn,
		clients:    make(map[*EventClient]bool),
		register:   make(chan *EventClient),
		unregister: make(chan *EventClient),
	}
}

// Run subscribes to the events subject and processes client
// registration. Blocks; run in a goroutine.
func (h *EventHub) Run() {
	sub, err := h.natsConn.Subscribe(InvoiceEventsSubject, func(msg *nats.Msg) {
		h.broadcast(msg.Data)
	})
	if err != nil {
		log.Printf("⚠️ Event hub subscribe failed: %v", err)
		return
	}
	h.sub = sub

	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.clientsMu.Unlock()
			log.Printf("📺 Event client connected: %s (total: %d)", client.remoteAddr, h.ClientCount())

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMu.Unlock()
		}
	}
}

// Publish sends an invoice event to the subject.
func (h *EventHub) Publish(ev InvoiceEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := h.natsConn.Publish(InvoiceEventsSubject, data); err != nil {
		return err
	}
	h.pubMu.Lock()
	h.published++
	h.pubMu.Unlock()
	return nil
}

// broadcast fans a raw message out to every connected client. Slow
// clients are dropped rather than allowed to stall the hub.
func (h *EventHub) broadcast(data []byte) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			log.Printf("⚠️ Dropping slow event client: %s", client.remoteAddr)
			go func(c *EventClient) { h.unregister <- c }(client)
		}
	}
}

// Register adds a client to the hub
func (h *EventHub) Register(client *EventClient) {
	h.register <- client
}

// ClientCount returns the number of connected WebSocket clients.
func (h *EventHub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// HubStats is a snapshot of hub activity for the stats endpoint.
type HubStats struct {
	Clients   int    `json:"clients"`
	Published uint64 `json:"published"`
	Subject   string `json:"subject"`
}

// Stats returns current hub statistics.
func (h *EventHub) Stats() HubStats {
	h.pubMu.Lock()
	published := h.published
	h.pubMu.Unlock()
	return HubStats{
		Clients:   h.ClientCount(),
		Published: published,
		Subject:   InvoiceEventsSubject,
	}
}
