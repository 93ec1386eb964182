package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sprintboard/sprintboard/internal/app"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/internal/service"
	"github.com/sprintboard/sprintboard/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024

	sendBuffer = 64
)

// presenceConn is one websocket connection joined to the presence hub.
type presenceConn struct {
	conn      *websocket.Conn
	hub       service.PresenceHub
	sessionID string

	send      chan models.PresenceMessage
	done      chan struct{}
	closeOnce sync.Once

	logger *logger.Logger
}

// presence upgrades the request to a websocket and joins the hub as a new
// session of the authenticated user in the requested workspace. The
// session's disconnect actions run once the connection ends, however it
// ends.
func (h *Handler) presence(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	workspace := r.URL.Query().Get("workspace")
	if workspace == "" {
		log.Err(ErrMissingWorkspace).Send()
		http.Error(w, ErrMissingWorkspace.Error(), http.StatusBadRequest)
		return
	}

	claims, ok := claimsFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	select {
	case <-h.quit:
		http.Error(w, app.MsgShuttingDown, http.StatusServiceUnavailable)
		return
	default:
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already wrote the error response
		log.Err(err).Msg("error upgrading presence connection")
		return
	}

	c := &presenceConn{
		conn:   ws,
		hub:    h.services.PresenceHub,
		send:   make(chan models.PresenceMessage, sendBuffer),
		done:   make(chan struct{}),
		logger: log,
	}

	// the session outlives the request context of the upgrade
	ctx := context.WithoutCancel(r.Context())

	go c.writePump()

	c.sessionID, err = c.hub.Join(ctx, workspace, claims, c.enqueue)
	if err != nil {
		log.Err(err).Str("workspace", workspace).Msg("error joining presence hub")
		c.enqueue(models.PresenceMessage{Type: models.PresenceMsgError, Error: err.Error()})
		c.close()
		return
	}

	go func() {
		select {
		case <-h.quit:
			// unblocks readPump
			_ = c.conn.Close()
		case <-c.done:
		}
	}()

	c.readPump(ctx)

	c.hub.Leave(ctx, c.sessionID)
	c.close()
}

// enqueue never blocks. It reports false when the connection is closed or
// its buffer is full.
func (c *presenceConn) enqueue(msg models.PresenceMessage) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// reply queues an ack or error frame for a request. Unlike feeds a reply is
// worth waiting for, so it blocks until there is room or the connection
// closes.
func (c *presenceConn) reply(msg models.PresenceMessage) {
	select {
	case c.send <- msg:
	case <-c.done:
	}
}

func (c *presenceConn) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *presenceConn) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg models.PresenceMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			var closeErr *websocket.CloseError
			switch {
			case errors.As(err, &closeErr):
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					c.logger.Warn().Err(err).Str("session", c.sessionID).Msg("presence connection closed unexpectedly")
				}
				return
			case isJSONError(err):
				c.reply(models.PresenceMessage{Type: models.PresenceMsgError, Error: app.MsgInvalidMessageFormat})
				continue
			default:
				c.logger.Debug().Err(err).Str("session", c.sessionID).Msg("presence read ended")
				return
			}
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		c.reply(c.handle(ctx, msg))
	}
}

// handle dispatches one request and returns its ack or error frame.
func (c *presenceConn) handle(ctx context.Context, msg models.PresenceMessage) models.PresenceMessage {
	var err error
	switch msg.Type {
	case models.PresenceMsgSet, models.PresenceMsgOnDisconnect:
		if msg.Entry == nil {
			err = ErrEntryRequired
			break
		}
		if msg.Type == models.PresenceMsgSet {
			err = c.hub.Set(ctx, c.sessionID, msg.Key, *msg.Entry)
		} else {
			err = c.hub.RegisterDisconnect(ctx, c.sessionID, msg.Key, *msg.Entry)
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}

	if err != nil {
		text := err.Error()
		if !isRequestError(err) {
			c.logger.Err(err).Str("session", c.sessionID).Str("type", msg.Type).Msg("presence request failed")
			text = app.MsgInternalServerError
		}
		return models.PresenceMessage{Type: models.PresenceMsgError, Ref: msg.Ref, Error: text}
	}
	return models.PresenceMessage{Type: models.PresenceMsgAck, Ref: msg.Ref}
}

func isRequestError(err error) bool {
	return errors.Is(err, ErrEntryRequired) ||
		errors.Is(err, ErrUnknownMessageType) ||
		service.IsPresenceRequestError(err)
}

func (c *presenceConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			c.flush()
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// flush writes whatever is still queued, typically a final error frame.
func (c *presenceConn) flush() {
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

func isJSONError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
