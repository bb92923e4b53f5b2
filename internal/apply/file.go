package apply

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/webnetes/webnetesctl/internal/draft"
)

// ErrNoConfigPath is returned by a FileApplier without a path
var ErrNoConfigPath = errors.New("no node configuration path set")

// FileApplier writes the document to the node's configuration file. The node
// runtime reloads it from there.
type FileApplier struct {
	Path string
}

// Apply writes doc to a temporary file next to Path and renames it into
// place, so the node never reads a partial document.
func (f FileApplier) Apply(ctx context.Context, doc draft.Document) error {
	if f.Path == "" {
		return ErrNoConfigPath
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmpPath := f.Path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(doc), 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, f.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace node config file: %w", err)
	}

	return nil
}

// String implements fmt.Stringer
func (f FileApplier) String() string {
	return "file:" + f.Path
}

// Load reads a document from path. A missing file yields an empty document
// so that a fresh node can be configured from scratch.
func Load(path string) (draft.Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read node config file: %w", err)
	}
	return draft.Document(data), nil
}
