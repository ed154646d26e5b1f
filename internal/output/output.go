package output

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/danobi/prr/internal/review"
)

// ErrUnsupportedFormat is returned by GetWriter for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Entry is one row of a status listing.
type Entry struct {
	Handle      string        `json:"handle"`
	Status      review.Status `json:"status"`
	SubmittedAt *time.Time    `json:"submittedAt,omitempty"`
	Path        string        `json:"path"`
	// Error is set when the review's files could not be read or parsed.
	Error string `json:"error,omitempty"`
}

// Writer writes a status listing in a specific format.
type Writer interface {
	Write(w io.Writer, entries []Entry) error
}

// Options tune the text writer. Other formats ignore them.
type Options struct {
	NoTitles bool
	NoColor  bool
	// Now anchors relative times. Defaults to time.Now.
	Now func() time.Time
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string, opts Options) (Writer, error) {
	switch format {
	case "", "text":
		return &TextWriter{opts: opts}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
