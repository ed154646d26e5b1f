package review

import "fmt"

// Status is where a review stands, derived from its files.
type Status int

const (
	// StatusNew is a downloaded review with no comments yet.
	StatusNew Status = iota
	// StatusReviewed has comments that were never submitted.
	StatusReviewed
	// StatusSubmitted was submitted; later edits are ignored.
	StatusSubmitted
)

func (s Status) String() string {
	switch s {
	case StatusReviewed:
		return "REVIEWED"
	case StatusSubmitted:
		return "SUBMITTED"
	default:
		return "NEW"
	}
}

// MarshalText renders the status for JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status reports the review's status. A submitted review is SUBMITTED even if
// its file was edited afterwards.
func (r *Review) Status() (Status, error) {
	meta, err := r.Metadata()
	if err != nil {
		return StatusNew, err
	}
	if meta.IsSubmitted() {
		return StatusSubmitted, nil
	}
	reviewed, err := r.reviewed()
	if err != nil {
		return StatusNew, fmt.Errorf("parsing comments for %s: %w", r.Path(), err)
	}
	if reviewed {
		return StatusReviewed, nil
	}
	return StatusNew, nil
}
