package redact

import (
	"regexp"
	"strings"
)

const placeholder = "[REDACTED]"

var secretPatterns = []*regexp.Regexp{
	// Classic and fine-grained GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`),
	// Bearer and token auth headers
	regexp.MustCompile(`(?i)(Bearer|token)\s+[A-Za-z0-9._-]{20,}`),
	// JWTs
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	regexp.MustCompile(`-----BEGIN\s+([A-Z]+\s+)?PRIVATE KEY-----`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// Quoted assignments, e.g. token = "..." in a TOML file
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`),
}

// Secrets replaces detected secrets in text with [REDACTED].
func Secrets(text string) string {
	result := text
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllLiteralString(result, placeholder)
	}
	return result
}

// Token masks a known credential, keeping only its last four characters so
// two configured tokens can still be told apart.
func Token(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return placeholder
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}
