package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"
)

// Event is pushed to every connected terminal so it can refresh its views.
type Event struct {
	Type    string `json:"type"`   // ledger_update, stock_update, debt_update
	Action  string `json:"action"` // transaction_created, cash_reconciled, ...
	Data    any    `json:"data,omitempty"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
		log:        log.With().Str("component", "ws").Logger(),
	}
}

// Publish queues e for broadcast. It never blocks the caller: when the queue
// is full the event is dropped, clients resync on their next fetch anyway.
// A nil hub is a no-op.
func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(e)
	if err != nil {
		h.log.Error().Err(err).Str("event", e.Type).Msg("marshal ws event")
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		h.log.Warn().Str("event", e.Type).Str("action", e.Action).Msg("ws broadcast queue full, event dropped")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug().Msg("ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
