package redact

import (
	"regexp"

	"github.com/dshills/revu/internal/gitdiff"
)

const placeholder = "[REDACTED]"

// secretPatterns are regex heuristics for secret material that commonly
// leaks into diffs.
var secretPatterns = []*regexp.Regexp{
	// Generic API keys (long strings after common key patterns)
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// Generic secrets/tokens/passwords in assignments
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	// Bearer tokens
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs (three base64 segments separated by dots)
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// Private key blocks
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+)?PRIVATE KEY-----`),
	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	// Anthropic API keys
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	// OpenAI API keys
	regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
}

// Secrets replaces detected secrets in text with [REDACTED].
func Secrets(text string) string {
	result := text
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllString(result, placeholder)
	}
	return result
}

// Bundle returns a copy of a diff bundle with secrets scrubbed from every
// section body. Labels and section order are untouched, so an empty
// section can never appear as a side effect of redaction.
func Bundle(b gitdiff.Bundle) gitdiff.Bundle {
	out := gitdiff.Bundle{Sections: make([]gitdiff.Section, len(b.Sections))}
	for i, s := range b.Sections {
		out.Sections[i] = gitdiff.Section{Label: s.Label, Body: Secrets(s.Body)}
	}
	return out
}
