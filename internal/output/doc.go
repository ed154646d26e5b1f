// Package output formats review status listings and submission previews.
//
// Three status formats are supported:
//   - text     - aligned, colored terminal table (default)
//   - json     - one object per review
//   - markdown - a table suitable for pasting into an issue
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and the entries to list. [WritePreview]
// renders the payload `submit --debug` would send.
package output
