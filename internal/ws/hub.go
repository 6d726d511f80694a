package ws

import (
	"sync"

	"go.uber.org/zap"
)

// Hub fans suggestion lifecycle events out to connected reviewer clients.
// Broadcast-only: inbound client messages are drained and dropped.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Debug("ws client connected", zap.Int("total_clients", total))
			}

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Debug("ws client disconnected", zap.Int("total_clients", total))
			}

		case message := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- message:
				default:
					h.unregister <- client
				}
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

func (h *Hub) Broadcast(message []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
		if h.logger != nil {
			h.logger.Warn("ws broadcast dropped", zap.String("reason", "buffer_full"))
		}
	}
}

func (h *Hub) Stop() {
	if h == nil {
		return
	}
	close(h.done)
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
