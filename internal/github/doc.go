// Package github implements backend.Backend on the GitHub REST API.
//
// Requests go through an ETag cache (httpcache) and a secondary rate limit
// middleware before reaching go-github. The base URL is configurable for
// GitHub Enterprise ("https://host/api/v3").
package github
