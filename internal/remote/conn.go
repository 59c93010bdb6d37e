package remote

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// connection pumps one websocket. The reader goroutine only forwards raw
// messages; the session and every write stay on the run goroutine.
type connection struct {
	conn    *websocket.Conn
	session *Session
	log     *zap.Logger
	opts    Options
	ping    time.Duration
}

func (c *connection) run() {
	defer c.conn.Close()

	inbound := make(chan []byte, inboundBufferSize)
	done := make(chan struct{})
	defer close(done)
	go c.readPump(inbound, done)

	pingTicker := time.NewTicker(c.ping)
	defer pingTicker.Stop()

	for {
		select {
		case raw, ok := <-inbound:
			if !ok {
				return
			}
			out := c.session.Handle(raw)
			if out == nil {
				continue
			}
			if err := c.write(out); err != nil {
				c.log.Debug("write failed", zap.Error(err))
				return
			}
		case <-pingTicker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *connection) readPump(inbound chan<- []byte, done <-chan struct{}) {
	defer close(inbound)

	c.conn.SetReadLimit(c.opts.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	for {
		typ, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("connection closed", zap.Error(err))
			}
			return
		}
		if typ != websocket.TextMessage {
			c.log.Debug("ignoring non-text message", zap.Int("type", typ))
			continue
		}
		select {
		case inbound <- raw:
		case <-done:
			return
		}
	}
}

func (c *connection) write(out *Outbound) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))

	w, err := c.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
