package apply

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/webnetes/webnetesctl/internal/draft"
)

const (
	// DefaultSocketTimeout bounds the whole exchange with the node
	DefaultSocketTimeout = 10 * time.Second

	// maxMessageSize caps the node's reply
	maxMessageSize = 64 * 1024

	kindApply = "apply"
	kindAck   = "ack"
)

// ErrRejected is wrapped by the error returned when a node refuses a document
var ErrRejected = errors.New("node rejected configuration")

// Message is the control socket envelope. The panel sends kind "apply" and
// the node answers with kind "ack".
type Message struct {
	Kind       string `json:"kind"`
	Definition string `json:"definition,omitempty"`
	Digest     string `json:"digest,omitempty"`
	OK         bool   `json:"ok,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SocketApplier pushes the document to a running node over its WebSocket
// control endpoint and waits for the acknowledgement.
type SocketApplier struct {
	URL     string
	Timeout time.Duration
	Dialer  *websocket.Dialer
}

// NewSocketApplier creates an applier for a control URL such as
// ws://node.local:8080/control
func NewSocketApplier(url string) *SocketApplier {
	return &SocketApplier{
		URL:     url,
		Timeout: DefaultSocketTimeout,
		Dialer:  websocket.DefaultDialer,
	}
}

// Apply implements Applier
func (s *SocketApplier) Apply(ctx context.Context, doc draft.Document) error {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultSocketTimeout
	}
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	dialer := s.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, _, err := dialer.DialContext(dialCtx, s.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to node control socket: %w", err)
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMessageSize)

	digest := doc.Digest()
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := conn.WriteJSON(Message{Kind: kindApply, Definition: string(doc), Digest: digest}); err != nil {
		return fmt.Errorf("failed to send configuration: %w", err)
	}

	if err := conn.SetReadDeadline(deadline); err != nil {
		return err
	}
	for {
		var reply Message
		if err := conn.ReadJSON(&reply); err != nil {
			return fmt.Errorf("no acknowledgement from node: %w", err)
		}
		if reply.Kind != kindAck {
			// status chatter from the node
			continue
		}
		if reply.Digest != "" && reply.Digest != digest {
			return fmt.Errorf("acknowledgement for %s, sent %s", reply.Digest, digest)
		}
		// The node may already have hung up; the ack is what counts.
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)

		if !reply.OK {
			if reply.Error != "" {
				return fmt.Errorf("%w: %s", ErrRejected, reply.Error)
			}
			return ErrRejected
		}
		return nil
	}
}

// String implements fmt.Stringer
func (s *SocketApplier) String() string {
	return "socket:" + s.URL
}
