// Package review manages review files on disk.
//
// A review lives at <workdir>/<owner>/<repo>/<pr>.prr with a metadata sidecar
// (see package metadata) next to it. This package creates both, recovers the
// reviewer's comments through snip resolution, corruption checks and the
// parser, and derives the review's status from the two files alone.
//
// Review files are single-user artifacts. Nothing here locks; the last writer
// of a sidecar wins.
package review
