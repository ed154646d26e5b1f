// Package app coordinates prr's commands. It resolves PR handles, moves
// diffs between the backend and review files, and drives the editor and
// git.
//
// The core packages (parser, snip, review) never touch the network or spawn
// processes; everything that does lives here or below it.
package app
