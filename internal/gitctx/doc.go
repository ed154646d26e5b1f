// Package gitctx runs git on behalf of prr.
//
// [Apply] patches a working tree with a stored PR diff by piping it to
// "git apply", which applies all hunks or none. [DetectRepo] derives
// owner/repo from the "origin" remote so a bare PR number can be used inside
// a clone.
package gitctx
