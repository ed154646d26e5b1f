package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/danobi/prr/internal/review"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func sampleEntries() []Entry {
	submitted := fixedNow.Add(-48 * time.Hour)
	return []Entry{
		{Handle: "danobi/prr/24", Status: review.StatusNew, Path: "/w/danobi/prr/24.prr"},
		{Handle: "danobi/prr/7", Status: review.StatusReviewed, Path: "/w/danobi/prr/7.prr"},
		{Handle: "torvalds/linux/1", Status: review.StatusSubmitted, SubmittedAt: &submitted, Path: "/w/torvalds/linux/1.prr"},
		{Handle: "acme/broken/3", Error: "detected corruption", Path: "/w/acme/broken/3.prr"},
	}
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := GetWriter("text", Options{NoColor: true, Now: func() time.Time { return fixedNow }})
	if err != nil {
		t.Fatalf("GetWriter error: %v", err)
	}
	if err := w.Write(&buf, sampleEntries()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("Got %d lines, want 5:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "HANDLE") || !strings.Contains(lines[0], "STATUS") {
		t.Errorf("Header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "NEW") {
		t.Errorf("Line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "REVIEWED") {
		t.Errorf("Line 2 = %q", lines[2])
	}
	if !strings.Contains(lines[3], "SUBMITTED (2 days ago)") {
		t.Errorf("Line 3 = %q", lines[3])
	}
	if !strings.Contains(lines[4], "ERROR: detected corruption") {
		t.Errorf("Line 4 = %q", lines[4])
	}

	// Status column is aligned.
	col := strings.Index(lines[0], "STATUS")
	for _, l := range lines[1:] {
		if len(l) <= col || l[col-1] != ' ' || l[col] == ' ' {
			t.Errorf("Misaligned line %q (status column %d)", l, col)
		}
	}
}

func TestTextWriter_NoTitles(t *testing.T) {
	var buf bytes.Buffer
	w := &TextWriter{opts: Options{NoTitles: true, NoColor: true}}
	if err := w.Write(&buf, sampleEntries()[:1]); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "HANDLE") {
		t.Error("Titles should be omitted")
	}
	if !strings.HasPrefix(out, "danobi/prr/24") {
		t.Errorf("Output = %q", out)
	}
}

func TestTextWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	w := &TextWriter{opts: Options{NoTitles: true}}
	if err := w.Write(&buf, nil); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}

func TestGetWriter_Unsupported(t *testing.T) {
	if _, err := GetWriter("sarif", Options{}); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
