package apply

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"strings"

	"github.com/gorilla/websocket"
)

// GetTroubleshootingHint returns advice for an apply failure. A combined
// error from Multi gets one line of advice per distinct cause.
func GetTroubleshootingHint(err error) string {
	if err == nil {
		return ""
	}

	var hints []string
	seen := make(map[string]bool)
	for _, e := range Errors(err) {
		hint := hintFor(e)
		if hint == "" || seen[hint] {
			continue
		}
		seen[hint] = true
		hints = append(hints, hint)
	}
	return strings.Join(hints, "\n")
}

func hintFor(err error) string {
	var opErr *net.OpError

	switch {
	case errors.Is(err, ErrRejected):
		return "The node refused the document. Its reply is shown in the error above."
	case errors.Is(err, ErrNoConfigPath):
		return "No node configuration file is set. Pass --node-config or set node.config_path in the settings file."
	case errors.Is(err, fs.ErrPermission):
		return "No permission to write the node configuration file. Check its owner or pass --node-config."
	case errors.Is(err, context.Canceled):
		return "The apply was interrupted. The node may have the old or the new document."
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return "The node did not answer in time. Check that it is running and not overloaded."
	case errors.Is(err, websocket.ErrBadHandshake):
		return "The control URL answered but is not a WebSocket endpoint. Check its path, usually /control."
	case errors.As(err, &opErr):
		return "The node control socket could not be reached. Check the control URL, or run 'webnetesctl discover'."
	}
	return ""
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
