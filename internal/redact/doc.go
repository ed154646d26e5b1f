// Package redact scrubs credentials from text before it is printed.
//
// It is used on the --debug submission preview and by `config show`, where a
// token pasted into a review comment or config file would otherwise end up in
// a terminal scrollback or a bug report.
package redact
