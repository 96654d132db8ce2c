package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/echomine/planetctl/internal/analytics"
)

// SummaryMessage is the push frame sent after every mutation so a
// connected UI can refresh its ranking tables without polling.
type SummaryMessage struct {
	Type    string                  `json:"type"`
	Planets []analytics.PlanetValue `json:"planets"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected websocket clients and fans summary frames out
// to all of them. Slow clients are dropped rather than blocking.
type Hub struct {
	log        zerolog.Logger
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 8),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// BroadcastSummary queues a ranking summary for every client.
func (h *Hub) BroadcastSummary(planets []analytics.PlanetValue) {
	data, err := json.Marshal(SummaryMessage{Type: "rankings", Planets: planets})
	if err != nil {
		h.log.Error().Err(err).Msg("summary encode failed")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.log.Warn().Msg("summary broadcast dropped, hub backlogged")
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	cl := &client{hub: s.hub, conn: conn, send: make(chan []byte, 16)}
	s.hub.register <- cl

	go cl.writeLoop()
	go cl.readLoop()
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readLoop drains the connection so pings and close frames are
// processed; inbound payloads are ignored.
func (c *client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
