// Package stream fans store changes out to websocket dashboards
package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"go.uber.org/zap"
)

const (
	broadcastBuffer = 64
	clientBuffer    = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards are served from other origins in development; CORS is
	// handled by the HTTP middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub maintains the set of active clients and broadcasts frames to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu   sync.RWMutex
	last []byte

	connected prometheus.Gauge
	dropped   prometheus.Counter
	logger    *zap.Logger
}

// NewHub creates a Hub. A nil registerer builds unregistered metrics.
func NewHub(reg prometheus.Registerer, logger *zap.Logger) *Hub {
	factory := promauto.With(reg)
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		connected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hope_stream_clients",
			Help: "Connected websocket clients",
		}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "hope_stream_dropped_frames_total",
			Help: "Frames dropped because the broadcast buffer was full",
		}),
		logger: logger,
	}
}

// Run serves register, unregister and broadcast until ctx is done, then
// closes every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.connected.Set(0)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.connected.Set(float64(len(h.clients)))
			last := h.last
			h.mu.Unlock()
			if last != nil {
				client.send <- last
			}
			h.logger.Info("websocket client registered", zap.String("remote_addr", client.remoteAddr()))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.connected.Set(float64(len(h.clients)))
				h.logger.Info("websocket client unregistered", zap.String("remote_addr", client.remoteAddr()))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.logger.Warn("websocket client send buffer full, removing",
						zap.String("remote_addr", client.remoteAddr()),
					)
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.connected.Set(float64(len(h.clients)))
			h.mu.Unlock()
		}
	}
}

// Clients returns the number of registered clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish queues a frame for every client. It never blocks: when the
// broadcast buffer is full the frame is dropped. Frames equal to the last
// published one are skipped.
func (h *Hub) Publish(frame Frame) {
	message, err := json.Marshal(Envelope{Type: "state", Payload: frame})
	if err != nil {
		h.logger.Error("failed to marshal stream frame", zap.Error(err))
		return
	}

	h.mu.Lock()
	if bytes.Equal(message, h.last) {
		h.mu.Unlock()
		return
	}
	h.last = message
	h.mu.Unlock()

	select {
	case h.broadcast <- message:
	default:
		h.dropped.Inc()
		h.logger.Debug("stream frame dropped")
	}
}

// Attach publishes a frame for the current state and after every change.
// The returned function detaches the hub.
func (h *Hub) Attach(st *store.Store) func() {
	h.Publish(FrameOf(st.State()))
	return st.Subscribe(func(state store.State) {
		h.Publish(FrameOf(state))
	})
}

// ServeHTTP upgrades the request and registers the connection
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade websocket connection", zap.Error(err))
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, clientBuffer)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
