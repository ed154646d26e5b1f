// Package backend defines what prr needs from a code-hosting service and the
// request shapes sent to it.
//
// The only implementation is package github. Tests use in-memory fakes.
package backend
