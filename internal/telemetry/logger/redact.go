package logger

import (
	"log/slog"
	"strings"
)

const redactedValue = "***REDACTED***"

// Values starting with these are secrets whatever key they are logged under.
var secretPrefixes = []string{
	"eyJ",        // JWT
	"$argon2id$", // password hash
	"Bearer ",
}

var secretKeyParts = []string{"password", "secret", "token", "authorization", "credential", "bearer"}

func redactAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if p, ok := secretPrefix(s); ok {
			return slog.String(a.Key, mask(s, p))
		}
		if s != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, 0, len(group))
		for _, g := range group {
			out = append(out, redactAttr(g))
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

func secretPrefix(s string) (string, bool) {
	for _, p := range secretPrefixes {
		if strings.HasPrefix(s, p) {
			return p, true
		}
	}
	return "", false
}

// mask keeps the prefix plus three characters from each end of the rest.
func mask(s, prefix string) string {
	rest := s[len(prefix):]
	if len(rest) <= 6 {
		return prefix + "***"
	}
	return prefix + rest[:3] + "..." + rest[len(rest)-3:]
}

// RedactString masks s if it looks like a token, hash or bearer header.
func RedactString(s string) string {
	if p, ok := secretPrefix(s); ok {
		return mask(s, p)
	}
	return s
}

// IsSensitiveKey reports whether an attribute key names a secret.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, part := range secretKeyParts {
		if strings.Contains(k, part) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether s looks like a secret.
func IsSensitiveValue(s string) bool {
	_, ok := secretPrefix(s)
	return ok
}
