package app

import (
	"io"

	"github.com/danobi/prr/internal/output"
	"github.com/danobi/prr/internal/review"
)

// Entries lists every review in the workdir with its status. A review that
// cannot be read is listed with its error rather than failing the listing.
func (a *App) Entries() ([]output.Entry, error) {
	reviews, err := review.ListAll(a.fs, a.cfg.Workdir)
	if err != nil {
		return nil, err
	}

	entries := make([]output.Entry, 0, len(reviews))
	for _, r := range reviews {
		e := output.Entry{Handle: r.Handle(), Path: r.Path()}
		st, err := r.Status()
		if err != nil {
			e.Error = err.Error()
			entries = append(entries, e)
			continue
		}
		e.Status = st
		if st == review.StatusSubmitted {
			if meta, err := r.Metadata(); err == nil {
				at := meta.SubmittedAt()
				e.SubmittedAt = &at
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Status writes the listing to w in format.
func (a *App) Status(w io.Writer, format string, opts output.Options) error {
	writer, err := output.GetWriter(format, opts)
	if err != nil {
		return err
	}
	entries, err := a.Entries()
	if err != nil {
		return err
	}
	return writer.Write(w, entries)
}
