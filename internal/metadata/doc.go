// Package metadata stores the sidecar record kept next to each review file.
//
// The sidecar is a dotfile named after the PR number (".123" next to
// "123.prr") holding JSON with the original diff, the time of the last
// submission and the commit the review was started against. The field names
// are fixed; older sidecars without a commit_id still load.
package metadata
