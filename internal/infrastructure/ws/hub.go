package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

const (
	maxConnsPerUser = 8
	writeTimeout    = 5 * time.Second
)

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	userID string
	conn   *websocket.Conn
	errCh  chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	userID string
	conn   *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdSend struct {
	userID string
	data   []byte
}

func (cmdSend) hubCmd() {}

type cmdConnCount struct {
	userID  string
	replyCh chan int
}

func (cmdConnCount) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// clientWriter serializes writes to one socket so the hub loop never blocks
// on a slow peer.
type clientWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, 16),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	for {
		select {
		case msg, ok := <-cw.sendCh:
			if !ok {
				return
			}
			_ = cw.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	close(cw.done)
	_ = cw.conn.Close()
}

// Hub tracks each user's open sockets. All state lives inside the run loop;
// the exported methods only pass commands, so no mutex is needed.
type Hub struct {
	cmdCh   chan hubCmd
	clients map[string]map[*websocket.Conn]*clientWriter
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	hub := &Hub{
		cmdCh:   make(chan hubCmd, 256),
		clients: make(map[string]map[*websocket.Conn]*clientWriter),
		log:     log,
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			h.handleRegister(c)
		case cmdUnregister:
			h.handleUnregister(c.userID, c.conn)
		case cmdSend:
			h.handleSend(c)
		case cmdConnCount:
			c.replyCh <- len(h.clients[c.userID])
		case cmdStop:
			h.handleStop()
			return
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) {
	conns, ok := h.clients[c.userID]
	if !ok {
		conns = make(map[*websocket.Conn]*clientWriter)
		h.clients[c.userID] = conns
	}
	if len(conns) >= maxConnsPerUser {
		h.log.Warn().Str("user", c.userID).Int("conns", len(conns)).Msg("rejecting socket: per-user limit reached")
		_ = c.conn.Close()
		c.errCh <- ErrTooManyConnections
		return
	}
	conns[c.conn] = newClientWriter(c.conn)
	c.errCh <- nil
}

func (h *Hub) handleUnregister(userID string, conn *websocket.Conn) {
	conns, ok := h.clients[userID]
	if !ok {
		return
	}
	if writer, ok := conns[conn]; ok {
		writer.stop()
		delete(conns, conn)
	}
	if len(conns) == 0 {
		delete(h.clients, userID)
	}
}

func (h *Hub) handleSend(c cmdSend) {
	for _, writer := range h.clients[c.userID] {
		select {
		case writer.sendCh <- c.data:
		default:
			// Slow consumer: drop rather than stall the hub.
		}
	}
}

func (h *Hub) handleStop() {
	for _, conns := range h.clients {
		for _, writer := range conns {
			writer.stop()
		}
	}
	h.clients = make(map[string]map[*websocket.Conn]*clientWriter)
}

// Register attaches a socket to the user's room.
func (h *Hub) Register(userID string, conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- cmdRegister{userID: userID, conn: conn, errCh: errCh}
	return <-errCh
}

// Unregister detaches and closes the socket.
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.cmdCh <- cmdUnregister{userID: userID, conn: conn}
}

// Deliver sends the notification to every socket the user has open here.
// Users with no local sockets are a silent no-op.
func (h *Hub) Deliver(userID string, notification *domain.Notification) {
	data, err := json.Marshal(notification)
	if err != nil {
		h.log.Error().Err(err).Str("user", userID).Msg("failed to marshal notification")
		return
	}
	h.cmdCh <- cmdSend{userID: userID, data: data}
}

// ConnCount reports the user's open sockets on this instance.
func (h *Hub) ConnCount(userID string) int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdConnCount{userID: userID, replyCh: replyCh}
	return <-replyCh
}

// Stop closes every socket and terminates the run loop.
func (h *Hub) Stop() {
	h.cmdCh <- cmdStop{}
}
