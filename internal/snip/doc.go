// Package snip expands elision markers in a review file.
//
// A reviewer may replace a run of quoted lines with a line reading "[..]" or
// "[...]". Before the file is parsed, [Resolve] aligns the remaining quoted
// lines against the stored diff and puts the elided lines back, so line
// positions come out the same as if nothing had been removed.
package snip
