// Package logging provides sensitive-data filtering for zerolog output. A
// step's run/verify command is arbitrary shell text the project author
// wrote; its stdout/stderr can contain credentials the task happened to
// print, so every writer that touches disk is wrapped with this filter.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

const (
	regexMinGenericAPIKeyLength = "16"
	regexMinSecretLength        = "8"
	regexMinBase64TokenLength   = "32"
)

// sensitivePatterns matches generic credential shapes. Deliberately
// vendor-agnostic: a step command can shell out to anything, so there is
// no fixed set of API key prefixes worth special-casing.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // package-level patterns for reuse
	// Generic API keys (api_key/apikey/api-key followed by a value).
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*["']?([a-zA-Z0-9_-]{` + regexMinGenericAPIKeyLength + `,})["']?`),

	// Bearer tokens.
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_-]{` + regexMinGenericAPIKeyLength + `,}`),

	// Authorization headers with tokens.
	regexp.MustCompile(`(?i)authorization\s*[:=]\s*["']?[a-zA-Z0-9_-]{` + regexMinGenericAPIKeyLength + `,}["']?`),

	// Generic secret/password/credential assignments.
	regexp.MustCompile(`(?i)(secret|password|credential|passwd|pwd)\s*[:=]\s*["']?[^\s"',]{` + regexMinSecretLength + `,}["']?`),

	// SSH/TLS private keys.
	regexp.MustCompile(`(?i)-----BEGIN[A-Z\s]+PRIVATE KEY-----`),

	// Long base64-ish tokens assigned to a token/auth-named field.
	regexp.MustCompile(`(?i)(token|auth)\s*[:=]\s*["']?[a-zA-Z0-9+/=]{` + regexMinBase64TokenLength + `,}["']?`),
}

// sensitiveFieldSet holds field names whose values are always redacted
// outright, regardless of shape.
var sensitiveFieldSet = map[string]struct{}{ //nolint:gochecknoglobals // package-level patterns for reuse
	"api_key": {}, "apikey": {}, "api-key": {},
	"auth_token": {}, "authtoken": {}, "auth-token": {},
	"password": {}, "passwd": {}, "pwd": {},
	"secret": {}, "credential": {}, "credentials": {},
	"private_key": {}, "privatekey": {}, "private-key": {},
	"access_token": {}, "accesstoken": {}, "access-token": {},
	"refresh_token": {}, "refreshtoken": {}, "refresh-token": {},
	"bearer": {}, "authorization": {},
}

// SensitiveDataHook flags zerolog events whose message matches a known
// secret shape. Zerolog hooks cannot rewrite the message in place; actual
// redaction happens in FilterSensitiveValue at the call site and in
// FilteringWriter for anything that reaches disk.
type SensitiveDataHook struct{}

// NewSensitiveDataHook constructs a SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements zerolog.Hook.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any known secret shape.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue redacts every sensitive-pattern match in value.
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveFieldName reports whether fieldName names a value that
// should always be redacted outright.
func IsSensitiveFieldName(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	if _, ok := sensitiveFieldSet[lower]; ok {
		return true
	}
	for sensitive := range sensitiveFieldSet {
		if matchesWordBoundary(lower, sensitive) {
			return true
		}
	}
	return false
}

func matchesWordBoundary(name, word string) bool {
	if word == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(name[from:], word)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(word)
		leftOK := start == 0 || name[start-1] == '_' || name[start-1] == '-'
		rightOK := end == len(name) || name[end] == '_' || name[end] == '-'
		if leftOK && rightOK && !(start == 0 && end == len(name)) {
			return true
		}
		from = start + 1
	}
}

// RedactIfSensitive returns RedactedValue if fieldName is a known
// sensitive field, otherwise value with any embedded secrets filtered.
func RedactIfSensitive(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// FilteringWriter wraps an io.Writer, redacting sensitive patterns from
// every write before it reaches the underlying writer.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter wraps w with sensitive-data redaction.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports the original length on success so
// callers never see a short write from redaction shrinking the payload.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err := fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}
