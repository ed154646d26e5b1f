package snip

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danobi/prr/internal/parser"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func TestResolve_ElidedMiddle(t *testing.T) {
	original := lines("L1", "L2", "L3", "L4")
	got, err := Resolve(lines("> L1", "[...]", "> L4", "comment A"), original)
	require.NoError(t, err)
	assert.Equal(t, lines("> L1", "> L2", "> L3", "> L4", "comment A"), got)
}

func TestResolve_NoMarkersIsVerbatim(t *testing.T) {
	contents := "> a\n>   \nnote\n> b"
	got, err := Resolve(contents, "a\n\nb\n")
	require.NoError(t, err)
	assert.Equal(t, contents, got)
}

func TestResolve_ShortMarker(t *testing.T) {
	got, err := Resolve(lines("[..]", "> c"), lines("a", "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, lines("> a", "> b", "> c"), got)
}

func TestResolve_TrailingMarker(t *testing.T) {
	got, err := Resolve(lines("> a", "nice", "[...]"), lines("a", "", "c"))
	require.NoError(t, err)
	assert.Equal(t, lines("> a", "nice", ">", "> c"), got)
}

func TestResolve_CommentsKeepTheirPlace(t *testing.T) {
	original := lines("a", "b", "c", "d", "e")
	got, err := Resolve(lines(
		"overall",
		"> a",
		"[...]",
		"> c",
		"about c",
		"",
		"[..]",
		"> e",
	), original)
	require.NoError(t, err)
	assert.Equal(t, lines(
		"overall",
		"> a",
		"> b",
		"> c",
		"about c",
		"",
		"> d",
		"> e",
	), got)
}

func TestResolve_RepeatedLinesBacktrack(t *testing.T) {
	// The first "x" after the marker is a dead end; only the last one lets
	// "y" align.
	original := lines("start", "x", "z", "x", "y")
	got, err := Resolve(lines("> start", "[...]", "> x", "> y"), original)
	require.NoError(t, err)
	assert.Equal(t, lines("> start", "> x", "> z", "> x", "> y"), got)
}

func TestResolve_TrailingWhitespaceIgnored(t *testing.T) {
	got, err := Resolve(lines("> a  ", "[...]"), lines("a", "b "))
	require.NoError(t, err)
	assert.Equal(t, lines("> a  ", "> b "), got)
}

func TestResolve_Failures(t *testing.T) {
	original := lines("a", "b", "c")
	tests := map[string]string{
		"unknown quoted line": lines("> a", "[...]", "> nope"),
		"out of order":        lines("> c", "[...]", "> a"),
		"trailing junk":       lines("[...]", "> c", "> d"),
		"missing tail":        lines("> a", "[...]", "> b"),
	}
	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(contents, original)
			assert.ErrorIs(t, err, ErrUnresolved)
		})
	}
}

func TestResolve_EverySingleElision(t *testing.T) {
	orig := []string{"diff --git a/f b/f", "@@ -1,3 +1,3 @@", " one", "-two", "+2", "", " three"}
	original := lines(orig...)

	var want []string
	for _, l := range orig {
		want = append(want, parser.Quote(l))
	}

	for p := 0; p <= len(orig); p++ {
		for k := 0; k <= len(orig)-p; k++ {
			t.Run(fmt.Sprintf("at %d drop %d", p, k), func(t *testing.T) {
				var edited []string
				for _, l := range orig[:p] {
					edited = append(edited, parser.Quote(l))
				}
				edited = append(edited, "[...]")
				for _, l := range orig[p+k:] {
					edited = append(edited, parser.Quote(l))
				}

				got, err := Resolve(lines(edited...), original)
				require.NoError(t, err)
				assert.Equal(t, lines(want...), got)
			})
		}
	}
}

func TestResolve_ManyMarkers(t *testing.T) {
	var orig, edited []string
	for i := 0; i < 200; i++ {
		orig = append(orig, fmt.Sprintf("line %d", i%3))
		edited = append(edited, "[...]")
	}
	edited = append(edited, "> missing")

	_, err := Resolve(lines(edited...), lines(orig...))
	assert.ErrorIs(t, err, ErrUnresolved)
}
