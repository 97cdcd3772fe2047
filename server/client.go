package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
	pingInterval  = 54 * time.Second
	sendBuffer    = 256

	// Inbound command budget per connection: sustained and burst.
	inboundRate  = 10
	inboundBurst = 20
)

// isValidOrigin allows same-origin and localhost connections; non-browser
// clients send no Origin header and pass.
func isValidOrigin(log zerolog.Logger) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		originURL, err := url.Parse(origin)
		if err != nil {
			log.Warn().Str("origin", origin).Msg("invalid origin URL")
			return false
		}
		if r.Host == originURL.Host {
			return true
		}
		if strings.HasPrefix(originURL.Host, "localhost:") ||
			strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
			originURL.Host == "localhost" ||
			originURL.Host == "127.0.0.1" {
			return true
		}
		log.Warn().Str("origin", origin).Msg("rejected websocket origin")
		return false
	}
}

// Client is one live connection. Player identity is attached after a
// successful JOIN; until then only JOIN and HELP are accepted.
type Client struct {
	ID     string
	Player string // lower-cased player name, empty before JOIN

	conn    *websocket.Conn
	send    chan any
	server  *Server
	limiter *rate.Limiter
	log     zerolog.Logger
}

// HandleWebSocket upgrades the connection and starts its pumps.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin:       isValidOrigin(s.log),
		EnableCompression: true,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		ID:      uuid.NewString(),
		conn:    conn,
		send:    make(chan any, sendBuffer),
		server:  s,
		limiter: rate.NewLimiter(rate.Limit(inboundRate), inboundBurst),
	}
	client.log = s.log.With().Str("client", client.ID).Logger()

	s.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump forwards inbound frames to the engine. The send into the
// bounded inbound queue blocks when the engine is behind, which pauses
// reads and pushes backpressure onto the socket.
func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("websocket read error")
			}
			return
		}

		if !c.limiter.Allow() {
			c.Send(errorFrame("Too many commands, slow down"))
			continue
		}

		c.server.inbound <- inboundFrame{client: c, msg: msg}
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues a frame without blocking; a client that cannot keep up loses
// frames rather than stalling the engine.
func (c *Client) Send(frame any) {
	select {
	case c.send <- frame:
	default:
		c.log.Warn().Msg("send buffer full, dropping frame")
	}
}
