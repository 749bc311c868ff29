package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"

	"pagient/internal/domain/entity"
)

// StreamConsumer subscribes to the live channel and translates inbound
// events into store mutations. It never runs ahead of the snapshot: any
// event delivered before Bootstrap has completed is dropped, not queued.
// Events are applied strictly in arrival order by a single reader.
type StreamConsumer struct {
	url      string
	session  *Session
	snapshot *SnapshotLoader
	store    *Store
	log      *slog.Logger

	// onError receives per-message failures (malformed events). The stream
	// itself continues with the next message.
	onError func(error)

	dropped atomic.Uint64
}

func NewStreamConsumer(url string, session *Session, snapshot *SnapshotLoader, store *Store, log *slog.Logger) *StreamConsumer {
	return &StreamConsumer{
		url:      url,
		session:  session,
		snapshot: snapshot,
		store:    store,
		log:      log,
		onError:  func(error) {},
	}
}

// OnError registers the sink for per-message errors.
func (c *StreamConsumer) OnError(fn func(error)) {
	c.onError = fn
}

// Connect dials the live channel with the session token as a query
// credential. It refuses to connect without a token.
func (c *StreamConsumer) Connect(ctx context.Context) (*websocket.Conn, error) {
	token := c.session.Token()
	if token == "" {
		return nil, fmt.Errorf("cannot connect live channel: not logged in")
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url+"?jwt="+token, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial live channel: %w", err)
	}

	c.log.Info("live channel connected")
	return conn, nil
}

// Listen reads the connection until it closes or ctx is canceled. Each
// message is handled in arrival order; a message that cannot be handled is
// reported and skipped.
func (c *StreamConsumer) Listen(ctx context.Context, conn *websocket.Conn) error {
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("live channel closed: %w", err)
		}

		if !c.snapshot.Complete() {
			c.dropped.Add(1)
			c.log.Debug("dropping event received before snapshot completion")
			continue
		}

		if err := c.handleMessage(raw); err != nil {
			c.log.Warn("dropping unprocessable event", "error", err)
			c.onError(err)
		}
	}
}

// handleMessage decodes one inbound event and applies it to the store.
func (c *StreamConsumer) handleMessage(raw []byte) error {
	var msg entity.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	switch msg.Type {
	case entity.MessageTypePatientAdd, entity.MessageTypePatientUpdate:
		var patient entity.Patient
		if err := json.Unmarshal(msg.Data, &patient); err != nil {
			return fmt.Errorf("%w: %s payload: %v", ErrMalformedEvent, msg.Type, err)
		}
		c.store.UpsertPatient(patient)

	case entity.MessageTypePatientDelete:
		var patient entity.Patient
		if err := json.Unmarshal(msg.Data, &patient); err != nil {
			return fmt.Errorf("%w: %s payload: %v", ErrMalformedEvent, msg.Type, err)
		}
		c.store.DeletePatient(patient.ID)

	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, msg.Type)
	}

	return nil
}

// Dropped reports how many events were discarded for arriving before the
// snapshot completed.
func (c *StreamConsumer) Dropped() uint64 {
	return c.dropped.Load()
}
