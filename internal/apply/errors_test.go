package apply

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"go.uber.org/multierr"
)

func TestGetTroubleshootingHint(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")}

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{name: "nil", err: nil},
		{name: "rejected", err: fmt.Errorf("socket:ws://n/control: %w: bad yaml", ErrRejected), want: []string{"refused the document"}},
		{name: "no path", err: ErrNoConfigPath, want: []string{"--node-config"}},
		{name: "permission", err: fmt.Errorf("failed to write temporary config file: %w", fs.ErrPermission), want: []string{"No permission"}},
		{name: "interrupted", err: context.Canceled, want: []string{"interrupted"}},
		{name: "deadline", err: fmt.Errorf("no acknowledgement from node: %w", context.DeadlineExceeded), want: []string{"did not answer in time"}},
		{name: "bad handshake", err: fmt.Errorf("failed to connect to node control socket: %w", websocket.ErrBadHandshake), want: []string{"not a WebSocket endpoint"}},
		{name: "dial failure", err: fmt.Errorf("failed to connect to node control socket: %w", refused), want: []string{"could not be reached"}},
		{name: "unknown", err: errors.New("something else")},
		{
			name: "combined",
			err:  multierr.Combine(fmt.Errorf("file: %w", fs.ErrPermission), fmt.Errorf("socket: %w", refused)),
			want: []string{"No permission", "could not be reached"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := GetTroubleshootingHint(tt.err)
			if len(tt.want) == 0 && hint != "" {
				t.Errorf("GetTroubleshootingHint() = %q, want none", hint)
			}
			for _, want := range tt.want {
				if !strings.Contains(hint, want) {
					t.Errorf("GetTroubleshootingHint() = %q, want %q", hint, want)
				}
			}
			if got := strings.Count(hint, "\n") + 1; hint != "" && got != len(tt.want) {
				t.Errorf("got %d hint lines, want %d", got, len(tt.want))
			}
		})
	}
}

func TestFileApplier_NoPath(t *testing.T) {
	err := FileApplier{}.Apply(context.Background(), "a: 1\n")
	if !errors.Is(err, ErrNoConfigPath) {
		t.Errorf("Apply() error = %v, want ErrNoConfigPath", err)
	}
}
