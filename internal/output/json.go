package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONWriter outputs the listing as a JSON array.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
