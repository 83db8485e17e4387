package util

import "regexp"

var (
	reEmail  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reSecret = regexp.MustCompile(`(?i)((?:api|secret|token|key|password|passwd)["']?\s*[=:]\s*"?)[A-Za-z0-9\-_.]{4,}`)
)

// Redact masks email addresses and credential-looking values in free text.
// Applied to payloads before they leave the process.
func Redact(s string) string {
	s = reEmail.ReplaceAllString(s, "[redacted-email]")
	s = reSecret.ReplaceAllString(s, "${1}[redacted]")
	return s
}
