package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/danobi/prr/internal/backend"
	"github.com/danobi/prr/internal/parser"
	"github.com/danobi/prr/internal/redact"
)

// Preview is everything a submission would send.
type Preview struct {
	Handle       string                `json:"handle"`
	Review       backend.ReviewRequest `json:"review"`
	FileComments []parser.FileComment  `json:"file_comments,omitempty"`
}

// WritePreview prints p as indented JSON with credentials scrubbed.
func WritePreview(w io.Writer, p Preview) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling preview: %w", err)
	}
	_, err = fmt.Fprintln(w, redact.Secrets(string(data)))
	return err
}
