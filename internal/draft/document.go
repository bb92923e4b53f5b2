package draft

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Document is a node configuration document. Its schema is owned by the node
// runtime; the editor treats it as opaque text.
type Document string

// digestLength is the number of hash bytes shown in the short digest
const digestLength = 6

// String returns the document text
func (d Document) String() string {
	return string(d)
}

// Digest returns a short BLAKE3 fingerprint of the document for display and
// logging. Equal documents always produce equal digests.
func (d Document) Digest() string {
	sum := blake3.Sum256([]byte(d))
	return hex.EncodeToString(sum[:digestLength])
}

// Lines returns the number of lines in the document
func (d Document) Lines() int {
	if d == "" {
		return 0
	}
	n := 1
	for i := 0; i < len(d); i++ {
		if d[i] == '\n' && i != len(d)-1 {
			n++
		}
	}
	return n
}
