package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"AutoFisher/internal/model"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
)

const (
	defaultGatewayURL = "wss://gateway.discord.gg/?v=9&encoding=json"

	reconnectDelay = 5 * time.Second
	writeWait      = 10 * time.Second
)

// frame is an outbound gateway message.
type frame struct {
	Op model.Opcode `json:"op"`
	D  any          `json:"d"`
}

// Client maintains the persistent gateway session and emits dispatch
// events. Session state (sequence, session id) is owned by the run loop
// and survives reconnects so interrupted sessions can be resumed.
type Client struct {
	url   string
	token string
	log   zerolog.Logger

	events chan model.Event

	// Touched only by the coordinating loop.
	sessionID string
	sequence  int64
	hasSeq    bool
}

func NewClient(token string, log zerolog.Logger) *Client {
	return &Client{
		url:    defaultGatewayURL,
		token:  token,
		log:    log.With().Str("component", "gateway").Logger(),
		events: make(chan model.Event),
	}
}

// Events returns the stream of dispatch events. Delivery is in-order and
// blocking; a slow consumer backpressures the gateway reader instead of
// dropping frames.
func (c *Client) Events() <-chan model.Event {
	return c.events
}

// Run connects and services the gateway session until ctx is cancelled,
// reconnecting after a fixed delay on any failure. It never gives up.
func (c *Client) Run(ctx context.Context) {
	for {
		err := c.runSession(ctx)
		if ctx.Err() != nil {
			return
		}
		c.log.Warn().Err(err).Dur("retry_in", reconnectDelay).Msg("gateway session ended")
		select {
		case <-time.After(reconnectDelay):
		case <-ctx.Done():
			return
		}
	}
}

// runSession services a single connection: one reader goroutine, one
// writer goroutine, and the coordinating loop below multiplexing the
// heartbeat timer against inbound frames.
func (c *Client) runSession(ctx context.Context) error {
	dialCtx, dialCancel := context.WithTimeout(ctx, 30*time.Second)
	conn, _, err := websocket.Dial(dialCtx, c.url, nil)
	dialCancel()
	if err != nil {
		return fmt.Errorf("dial gateway: %w", err)
	}
	c.log.Info().Msg("gateway connected")

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer conn.Close(websocket.StatusNormalClosure, "")

	errc := make(chan error, 2)
	inbound := make(chan model.Event)
	outbound := make(chan frame, 8)

	go c.readLoop(sessCtx, conn, inbound, errc)
	go c.writeLoop(sessCtx, conn, outbound, errc)

	// No heartbeat may be sent before Hello arrives; the timer channel
	// stays nil (blocking) until then.
	var heartbeatC <-chan time.Time
	var interval time.Duration
	helloSeen := false
	acked := true

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-errc:
			return err

		case <-heartbeatC:
			if !acked {
				return fmt.Errorf("heartbeat not acknowledged within %s", interval)
			}
			acked = false
			if err := c.send(sessCtx, outbound, c.heartbeatFrame()); err != nil {
				return err
			}
			heartbeatC = time.After(interval)

		case ev := <-inbound:
			switch ev.Op {
			case model.OpHello:
				if helloSeen {
					// Protocol violation; drop the session entirely.
					c.sessionID = ""
					c.hasSeq = false
					c.sequence = 0
					return fmt.Errorf("unexpected second hello")
				}
				helloSeen = true

				var hello model.HelloData
				if err := json.Unmarshal(ev.Data, &hello); err != nil {
					return fmt.Errorf("decode hello: %w", err)
				}
				interval = time.Duration(hello.HeartbeatInterval) * time.Millisecond

				// Jitter the first beat to avoid synchronized bursts.
				heartbeatC = time.After(time.Duration(float64(interval) * rand.Float64()))

				if err := c.send(sessCtx, outbound, c.openFrame()); err != nil {
					return err
				}

			case model.OpHeartbeat:
				// Server asked for an immediate beat.
				if err := c.send(sessCtx, outbound, c.heartbeatFrame()); err != nil {
					return err
				}

			case model.OpHeartbeatAck:
				acked = true

			case model.OpReconnect:
				// Session stays stored so the next connection resumes.
				return fmt.Errorf("server requested reconnect")

			case model.OpInvalidSession:
				c.sessionID = ""
				c.hasSeq = false
				c.sequence = 0
				return fmt.Errorf("session invalidated")

			case model.OpDispatch:
				if err := c.handleDispatch(ctx, ev); err != nil {
					return err
				}

			default:
				c.log.Debug().Int("op", int(ev.Op)).Msg("ignoring frame")
			}
		}
	}
}

func (c *Client) handleDispatch(ctx context.Context, ev model.Event) error {
	if ev.Seq != nil {
		// A sequence gap means we missed events; resume from the last
		// contiguous sequence instead of silently proceeding.
		if c.hasSeq && *ev.Seq > c.sequence+1 {
			return fmt.Errorf("sequence gap: have %d, got %d", c.sequence, *ev.Seq)
		}
		if !c.hasSeq || *ev.Seq > c.sequence {
			c.sequence = *ev.Seq
			c.hasSeq = true
		}
	}

	if ev.Type == "READY" {
		var ready model.ReadyData
		if err := json.Unmarshal(ev.Data, &ready); err == nil && ready.SessionID != "" {
			c.sessionID = ready.SessionID
			c.log.Info().Str("session_id", ready.SessionID).Msg("session established")
		}
	}

	select {
	case c.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// openFrame builds the session-opening frame: Resume when a prior session
// is stored, fresh Identify otherwise.
func (c *Client) openFrame() frame {
	if c.sessionID != "" {
		c.log.Info().Str("session_id", c.sessionID).Int64("seq", c.sequence).Msg("resuming session")
		return frame{Op: model.OpResume, D: model.ResumeData{
			Token:     c.token,
			SessionID: c.sessionID,
			Seq:       c.sequence,
		}}
	}
	c.log.Info().Msg("identifying")
	return frame{Op: model.OpIdentify, D: model.IdentifyData{
		Token: c.token,
		Properties: model.IdentifyProperties{
			OS:      "linux",
			Browser: "autofisher",
			Device:  "autofisher",
		},
	}}
}

func (c *Client) heartbeatFrame() frame {
	var seq *int64
	if c.hasSeq {
		s := c.sequence
		seq = &s
	}
	return frame{Op: model.OpHeartbeat, D: seq}
}

func (c *Client) send(ctx context.Context, outbound chan<- frame, f frame) error {
	select {
	case outbound <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, inbound chan<- model.Event, errc chan<- error) {
	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			select {
			case errc <- fmt.Errorf("gateway read: %w", err):
			case <-ctx.Done():
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var ev model.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			c.log.Warn().Err(err).Msg("dropping malformed frame")
			continue
		}

		select {
		case inbound <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) writeLoop(ctx context.Context, conn *websocket.Conn, outbound <-chan frame, errc chan<- error) {
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-outbound:
			data, err := json.Marshal(f)
			if err != nil {
				c.log.Error().Err(err).Msg("marshal outbound frame")
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err = conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				select {
				case errc <- fmt.Errorf("gateway write: %w", err):
				case <-ctx.Done():
				}
				return
			}
		}
	}
}
