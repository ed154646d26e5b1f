// Package parser recovers structured review comments from a review file.
//
// A review file is a unified diff with every line quoted ("> " prefix, or a
// bare ">" for an empty line). The reviewer interleaves unquoted text with
// the quoted diff:
//
//   - text before the first quoted diff header is the review-level comment,
//     and a "@prr approve|reject|comment" line there sets the disposition
//   - text directly under a quoted "diff --git" line is a file-level comment
//   - text after a quoted content line is an inline comment on that line
//   - an empty unquoted line followed by quoted lines opens a span, so the
//     next comment covers the whole range
//
// [Parser] is a line-at-a-time state machine. Feed it every line with
// [Parser.ParseLine] and call [Parser.Finish] once the input is exhausted.
package parser
