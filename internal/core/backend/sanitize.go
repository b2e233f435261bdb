package backend

import "regexp"

// Patterns for secrets and user paths that must never leave the core in an
// error message or log line.
var (
	// providerKeyPattern matches well-known API key shapes (Google AIza
	// keys, OpenAI sk- keys) even when shorter than the generic run.
	providerKeyPattern = regexp.MustCompile(`\b(AIza[0-9A-Za-z_-]{30,}|sk-[0-9A-Za-z_-]{20,})`)

	// longTokenPattern matches any long alphanumeric run that could be a
	// credential.
	longTokenPattern = regexp.MustCompile(`\b[A-Za-z0-9]{32,}\b`)

	unixHomePattern = regexp.MustCompile(`/(Users|home)/[^/\s]+`)
	winHomePattern  = regexp.MustCompile(`\\Users\\[^\\\s]+`)
)

// Sanitize redacts API-key-shaped tokens and home directory fragments from
// a message before it is logged or returned.
func Sanitize(message string) string {
	s := providerKeyPattern.ReplaceAllString(message, "[REDACTED]")
	s = longTokenPattern.ReplaceAllString(s, "[REDACTED]")
	s = unixHomePattern.ReplaceAllString(s, "/$1/[REDACTED]")
	s = winHomePattern.ReplaceAllString(s, `\Users\[REDACTED]`)
	return s
}
