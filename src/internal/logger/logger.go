package logger

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type Fields map[string]any

var base = newBase()

var sensitiveKeys = map[string]struct{}{
	"verificationcode":     {},
	"verification_code":    {},
	"verificationcodehash": {},
	"channelkey":           {},
	"channel_key":          {},
	"authorization":        {},
	"password":             {},
}

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Configure sets the minimum level; unknown levels fall back to info.
func Configure(level string) {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	base.SetLevel(parsed)
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

func Info(message string, fields Fields) {
	base.WithFields(sanitizedFields(fields)).Info(message)
}

func Warn(message string, fields Fields) {
	base.WithFields(sanitizedFields(fields)).Warn(message)
}

func Error(message string, err error, fields Fields) {
	entry := base.WithFields(sanitizedFields(fields))
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(message)
}

func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func sanitizedFields(fields Fields) logrus.Fields {
	out := logrus.Fields{}
	if fields == nil {
		return out
	}

	sanitized, ok := SanitizePayload(fields).(map[string]any)
	if !ok {
		return out
	}
	for k, v := range sanitized {
		out[k] = v
	}
	return out
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
