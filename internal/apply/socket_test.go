package apply

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// controlServer runs a node control endpoint that answers with reply
func controlServer(t *testing.T, reply func(got Message) []Message) (*httptest.Server, chan Message) {
	t.Helper()
	received := make(chan Message, 1)
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer func() { _ = conn.Close() }()

		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Errorf("read: %v", err)
			return
		}
		received <- msg

		for _, out := range reply(msg) {
			if err := conn.WriteJSON(out); err != nil {
				return
			}
		}
		// wait for the client's close frame
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(server.Close)
	return server, received
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/control"
}

func TestSocketApplier_Ack(t *testing.T) {
	server, received := controlServer(t, func(got Message) []Message {
		return []Message{
			{Kind: "status", Error: "reloading"},
			{Kind: "ack", OK: true, Digest: got.Digest},
		}
	})

	applier := NewSocketApplier(wsURL(server))
	if err := applier.Apply(context.Background(), "a: 2"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	msg := <-received
	if msg.Kind != "apply" {
		t.Errorf("Kind = %q, want apply", msg.Kind)
	}
	if msg.Definition != "a: 2" {
		t.Errorf("Definition = %q, want %q", msg.Definition, "a: 2")
	}
	if msg.Digest == "" {
		t.Error("Digest should be sent")
	}
}

func TestSocketApplier_Rejected(t *testing.T) {
	server, _ := controlServer(t, func(Message) []Message {
		return []Message{{Kind: "ack", OK: false, Error: "invalid resource quota"}}
	})

	err := NewSocketApplier(wsURL(server)).Apply(context.Background(), "a: oops")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("error = %v, want ErrRejected", err)
	}
	if !strings.Contains(err.Error(), "invalid resource quota") {
		t.Errorf("error %q should carry the node's reason", err)
	}
}

func TestSocketApplier_DigestMismatch(t *testing.T) {
	server, _ := controlServer(t, func(Message) []Message {
		return []Message{{Kind: "ack", OK: true, Digest: "000000000000"}}
	})

	if err := NewSocketApplier(wsURL(server)).Apply(context.Background(), "a: 1"); err == nil {
		t.Error("expected error for mismatched acknowledgement")
	}
}

func TestSocketApplier_NoAck(t *testing.T) {
	server, _ := controlServer(t, func(Message) []Message { return nil })

	applier := NewSocketApplier(wsURL(server))
	applier.Timeout = 200 * time.Millisecond

	start := time.Now()
	err := applier.Apply(context.Background(), "a: 1")
	if err == nil {
		t.Fatal("expected timeout without acknowledgement")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Apply should give up at the deadline")
	}
}

func TestSocketApplier_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(server)
	server.Close()

	if err := NewSocketApplier(url).Apply(context.Background(), "a: 1"); err == nil {
		t.Error("expected dial error")
	}
}

func TestSocketApplier_String(t *testing.T) {
	if got := NewSocketApplier("ws://node:8080/control").String(); got != "socket:ws://node:8080/control" {
		t.Errorf("String() = %q", got)
	}
}
