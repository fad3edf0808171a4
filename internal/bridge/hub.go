package bridge

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const clientBuffer = 64

type client struct {
	conn     *websocket.Conn
	outgoing chan []byte
}

// Hub fans messages out to every connected display.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}

	clients  map[*client]struct{}
	count    atomic.Int64
	running  atomic.Bool
	settings Settings
	upgrader websocket.Upgrader
	logger   Logger
}

func newHub(logger Logger, settings Settings) *Hub {
	settings.normalize()
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, clientBuffer),
		done:       make(chan struct{}),
		clients:    map[*client]struct{}{},
		settings:   settings,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     settings.checkOrigin,
		},
		logger: logger,
	}
}

func (h *Hub) run(ctx context.Context) {
	h.running.Store(true)
	defer func() {
		h.running.Store(false)
		for c := range h.clients {
			h.drop(c)
		}
		close(h.done)
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Add(1)
		case c := <-h.unregister:
			h.drop(c)
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.outgoing <- msg:
				default:
					h.logger.Warn("bridge: dropping slow display %s", c.conn.RemoteAddr())
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	h.count.Add(-1)
	close(c.outgoing)
}

// publish queues msg for every client. Lossy messages are discarded when the
// hub is backed up; others wait until the hub takes them or stops.
func (h *Hub) publish(msg []byte, lossy bool) {
	if !h.running.Load() {
		return
	}
	if lossy {
		select {
		case h.broadcast <- msg:
		default:
		}
		return
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// ClientCount reports how many displays are connected.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

func (h *Hub) serveClient(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("bridge: websocket upgrade from %q failed: %v", r.Header.Get("Origin"), err)
		return
	}
	c := &client{conn: conn, outgoing: make(chan []byte, clientBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	h.logger.Info("bridge: display connected from %s", conn.RemoteAddr())
	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) writePump(c *client) {
	ping := time.NewTicker(h.settings.PingInterval)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.outgoing:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.settings.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.settings.WriteTimeout)); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound messages; displays only listen. Pongs extend the
// read deadline. It returns once the connection fails, closes or goes quiet.
func (h *Hub) readPump(c *client) {
	wait := h.settings.pongWait()
	_ = c.conn.SetReadDeadline(time.Now().Add(wait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
