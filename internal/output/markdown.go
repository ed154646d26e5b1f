package output

import (
	"io"
	"strings"
	"time"
)

// MarkdownWriter outputs a markdown table.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, entries []Entry) error {
	ew := &errWriter{w: w}
	ew.printf("| Review | Status | Submitted |\n")
	ew.printf("|--------|--------|-----------|\n")
	for _, e := range entries {
		status := e.Status.String()
		if e.Error != "" {
			status = "error: " + mdEscape(e.Error)
		}
		submitted := ""
		if e.SubmittedAt != nil {
			submitted = e.SubmittedAt.UTC().Format(time.RFC3339)
		}
		ew.printf("| `%s` | %s | %s |\n", e.Handle, status, submitted)
	}
	return ew.err
}

func mdEscape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
