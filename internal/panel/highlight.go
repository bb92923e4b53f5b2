package panel

import (
	"bytes"

	"github.com/alecthomas/chroma/v2/quick"
	"go.uber.org/zap"

	"github.com/webnetes/webnetesctl/internal/draft"
	"github.com/webnetes/webnetesctl/internal/logging"
)

// Highlighting settings for the document preview
const (
	previewLexer     = "yaml"
	previewFormatter = "terminal256"
	previewStyle     = "monokai"
)

// highlightDocument renders doc with YAML syntax highlighting. If chroma
// fails the plain text is returned.
func highlightDocument(doc draft.Document) string {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, doc.String(), previewLexer, previewFormatter, previewStyle); err != nil {
		logging.Debug("Preview highlighting failed", zap.Error(err))
		return doc.String()
	}
	return buf.String()
}
