// Package cache keeps GitHub API responses on disk between runs.
//
// [Cache] implements httpcache.Cache, so conditional requests made with a
// stored ETag come back as 304 and do not count against the rate limit.
// Entries are keyed by a SHA-256 hash of the request key and expire after a
// TTL. The default directory is $XDG_CACHE_HOME/prr (or the OS-appropriate
// equivalent).
package cache
