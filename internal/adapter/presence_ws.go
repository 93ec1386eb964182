// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/models"
)

const (
	presenceWriteWait  = 10 * time.Second
	presencePongWait   = 60 * time.Second
	presenceMaxMsgSize = 1 << 20

	presenceMinBackoff = 250 * time.Millisecond
	presenceMaxBackoff = 30 * time.Second
)

// WebsocketPresence is the [PresenceSource] backed by the presence backend's
// websocket endpoint. It redials with capped exponential backoff until
// Close is called; every successful dial is reported as connected once the
// backend sends its "connected" frame.
type WebsocketPresence struct {
	url    string
	dialer *websocket.Dialer
	header http.Header

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closed    bool
	nextRef   uint64
	pending   map[uint64]chan error
	lastFeed  []models.PresenceEntry

	connListeners map[int]func(bool)
	feedListeners map[int]presenceFeedListener
	seq           int

	writeMu sync.Mutex

	cancel context.CancelFunc
	done   chan struct{}

	minBackoff, maxBackoff time.Duration

	logger *logger.Logger
}

// NewWebsocketPresence returns a presence client for the workspace feed at
// rawURL. Call Start to begin dialing.
func NewWebsocketPresence(rawURL, workspace, idToken string, log *logger.Logger) (*WebsocketPresence, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid presence url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid presence url scheme %q", u.Scheme)
	}
	q := u.Query()
	q.Set("workspace", workspace)
	u.RawQuery = q.Encode()

	header := http.Header{}
	if idToken != "" {
		header.Set("Authorization", "Bearer "+idToken)
	}

	return &WebsocketPresence{
		url:           u.String(),
		dialer:        websocket.DefaultDialer,
		header:        header,
		pending:       make(map[uint64]chan error),
		connListeners: make(map[int]func(bool)),
		feedListeners: make(map[int]presenceFeedListener),
		done:          make(chan struct{}),
		minBackoff:    presenceMinBackoff,
		maxBackoff:    presenceMaxBackoff,
		logger:        log,
	}, nil
}

// Start begins the dial loop in the background.
func (p *WebsocketPresence) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	go p.run(ctx)
}

func (p *WebsocketPresence) run(ctx context.Context) {
	defer close(p.done)

	backoff := p.minBackoff
	for {
		conn, _, err := p.dialer.DialContext(ctx, p.url, p.header)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn().Err(err).Dur("retry_in", backoff).Msg("presence dial failed")
			if !sleepCtx(ctx, backoff) {
				return
			}
			backoff = min(backoff*2, p.maxBackoff)
			continue
		}

		backoff = p.minBackoff
		p.serve(ctx, conn)

		if ctx.Err() != nil {
			return
		}
		if !sleepCtx(ctx, backoff) {
			return
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// serve reads frames from conn until it fails.
func (p *WebsocketPresence) serve(ctx context.Context, conn *websocket.Conn) {
	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	conn.SetReadLimit(presenceMaxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(presencePongWait))
	conn.SetPingHandler(func(data string) error {
		_ = conn.SetReadDeadline(time.Now().Add(presencePongWait))
		p.writeMu.Lock()
		defer p.writeMu.Unlock()
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(presenceWriteWait))
	})

	for {
		var msg models.PresenceMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				p.logger.Warn().Err(err).Msg("presence connection lost")
			}
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(presencePongWait))

		switch msg.Type {
		case models.PresenceMsgConnected:
			p.setConnected(true)
		case models.PresenceMsgFeed:
			p.deliverFeed(msg.Entries)
		case models.PresenceMsgAck:
			p.resolve(msg.Ref, nil)
		case models.PresenceMsgError:
			err := fmt.Errorf("%w: %s", ErrPresenceRejected, msg.Error)
			if msg.Ref == 0 {
				p.deliverError(err)
				continue
			}
			p.resolve(msg.Ref, err)
		default:
			p.logger.Debug().Str("type", msg.Type).Msg("unknown presence frame")
		}
	}

	p.mu.Lock()
	p.conn = nil
	for ref, ch := range p.pending {
		ch <- ErrNotConnected
		delete(p.pending, ref)
	}
	p.mu.Unlock()
	_ = conn.Close()

	p.setConnected(false)
}

func (p *WebsocketPresence) setConnected(connected bool) {
	p.mu.Lock()
	if p.connected == connected {
		p.mu.Unlock()
		return
	}
	p.connected = connected
	listeners := make([]func(bool), 0, len(p.connListeners))
	for _, fn := range p.connListeners {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	// listeners may issue requests whose acks arrive on the read goroutine
	for _, fn := range listeners {
		go fn(connected)
	}
}

func (p *WebsocketPresence) deliverFeed(entries []models.PresenceEntry) {
	p.mu.Lock()
	p.lastFeed = entries
	listeners := make([]presenceFeedListener, 0, len(p.feedListeners))
	for _, l := range p.feedListeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		l.onFeed(append([]models.PresenceEntry(nil), entries...))
	}
}

func (p *WebsocketPresence) deliverError(err error) {
	p.mu.Lock()
	listeners := make([]presenceFeedListener, 0, len(p.feedListeners))
	for _, l := range p.feedListeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		if l.onError != nil {
			l.onError(err)
		}
	}
}

func (p *WebsocketPresence) resolve(ref uint64, err error) {
	p.mu.Lock()
	ch, ok := p.pending[ref]
	delete(p.pending, ref)
	p.mu.Unlock()

	if ok {
		ch <- err
	}
}

// request sends msg and waits for its ack.
func (p *WebsocketPresence) request(ctx context.Context, msg models.PresenceMessage) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.conn == nil || !p.connected {
		p.mu.Unlock()
		return ErrNotConnected
	}
	p.nextRef++
	msg.Ref = p.nextRef
	ch := make(chan error, 1)
	p.pending[msg.Ref] = ch
	conn := p.conn
	p.mu.Unlock()

	p.writeMu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(presenceWriteWait))
	err := conn.WriteJSON(msg)
	p.writeMu.Unlock()
	if err != nil {
		p.resolve(msg.Ref, nil)
		return fmt.Errorf("error sending presence %s: %w", msg.Type, err)
	}

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		p.mu.Lock()
		delete(p.pending, msg.Ref)
		p.mu.Unlock()
		return ctx.Err()
	}
}

// OnConnectionStateChange implements [PresenceSource].
func (p *WebsocketPresence) OnConnectionStateChange(fn func(connected bool)) CancelFunc {
	p.mu.Lock()
	p.seq++
	id := p.seq
	p.connListeners[id] = fn
	connected := p.connected
	p.mu.Unlock()

	if connected {
		go fn(true)
	}

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.connListeners, id)
	}
}

// RegisterDisconnectAction implements [PresenceSource].
func (p *WebsocketPresence) RegisterDisconnectAction(ctx context.Context, key string, value models.PresenceEntry) error {
	return p.request(ctx, models.PresenceMessage{Type: models.PresenceMsgOnDisconnect, Key: key, Entry: &value})
}

// Set implements [PresenceSource].
func (p *WebsocketPresence) Set(ctx context.Context, key string, value models.PresenceEntry) error {
	return p.request(ctx, models.PresenceMessage{Type: models.PresenceMsgSet, Key: key, Entry: &value})
}

// Listen implements [PresenceSource]. The last received feed, if any, is
// delivered immediately.
func (p *WebsocketPresence) Listen(onFeed func([]models.PresenceEntry), onError func(error)) CancelFunc {
	p.mu.Lock()
	p.seq++
	id := p.seq
	p.feedListeners[id] = presenceFeedListener{onFeed: onFeed, onError: onError}
	last := append([]models.PresenceEntry(nil), p.lastFeed...)
	p.mu.Unlock()

	if len(last) > 0 {
		onFeed(last)
	}

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.feedListeners, id)
	}
}

// Close implements [PresenceSource]. It sends a close frame, stops the dial
// loop and waits for it to exit.
func (p *WebsocketPresence) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	conn := p.conn
	cancel := p.cancel
	p.mu.Unlock()

	if conn != nil {
		p.writeMu.Lock()
		err := conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(presenceWriteWait))
		p.writeMu.Unlock()
		if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
			p.logger.Debug().Err(err).Msg("error sending presence close frame")
		}
	}

	if cancel == nil {
		close(p.done)
		return nil
	}
	cancel()
	<-p.done
	return nil
}
