package output

import (
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/danobi/prr/internal/review"
)

// TextWriter outputs an aligned table of handles and statuses.
type TextWriter struct {
	opts Options
}

func (t *TextWriter) Write(w io.Writer, entries []Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	ew := &errWriter{w: tw}

	if !t.opts.NoTitles {
		ew.printf("HANDLE\tSTATUS\n")
	}
	// The status cell is last so color escapes never skew the alignment.
	for _, e := range entries {
		ew.printf("%s\t%s\n", e.Handle, t.status(e))
	}
	if ew.err != nil {
		return ew.err
	}
	return tw.Flush()
}

func (t *TextWriter) status(e Entry) string {
	if e.Error != "" {
		return t.paint(color.FgRed, "ERROR: "+e.Error)
	}
	switch e.Status {
	case review.StatusSubmitted:
		s := e.Status.String()
		if e.SubmittedAt != nil {
			s += " (" + humanize.RelTime(*e.SubmittedAt, t.now(), "ago", "from now") + ")"
		}
		return t.paint(color.FgGreen, s)
	case review.StatusReviewed:
		return t.paint(color.FgYellow, e.Status.String())
	default:
		return t.paint(color.FgCyan, e.Status.String())
	}
}

func (t *TextWriter) paint(attr color.Attribute, s string) string {
	c := color.New(attr)
	if t.opts.NoColor {
		c.DisableColor()
	}
	return c.Sprint(s)
}

func (t *TextWriter) now() time.Time {
	if t.opts.Now != nil {
		return t.opts.Now()
	}
	return time.Now()
}
