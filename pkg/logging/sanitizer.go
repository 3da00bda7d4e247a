package logging

import (
	"regexp"
)

const (
	// MaxPromptLogLength is the maximum length of a prompt to log
	MaxPromptLogLength = 100
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match bearer tokens in headers or error messages
	bearerPattern = regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]+=*`)

	// Pattern to match provider API keys (sk-..., both legacy and project keys)
	skKeyPattern = regexp.MustCompile(`\bsk-[A-Za-z0-9\-_]{16,}\b`)

	// Pattern to match key=value style credentials
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|token|secret)=[A-Za-z0-9\-_]{8,}`)

	// Pattern to match connection string credentials (user:pass@host format)
	connStringPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s]+`)
)

// SanitizeError sanitizes error messages that might contain credentials.
// Use this before logging any error from a provider or backend call.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return sanitize(err.Error())
}

// SanitizeConnectionString removes credentials from connection strings.
// Use this before logging any backend DSN.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}
	return connStringPattern.ReplaceAllString(connStr, "://"+RedactedText+"@"+RedactedText)
}

// SanitizePrompt truncates a prompt for logging and scrubs anything that
// looks like a credential pasted into it.
func SanitizePrompt(prompt string) string {
	if prompt == "" {
		return ""
	}
	sanitized := sanitize(prompt)
	if len(sanitized) > MaxPromptLogLength {
		sanitized = sanitized[:MaxPromptLogLength] + "..."
	}
	return sanitized
}

func sanitize(s string) string {
	sanitized := bearerPattern.ReplaceAllString(s, "Bearer "+RedactedText)
	sanitized = skKeyPattern.ReplaceAllString(sanitized, RedactedText)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}
