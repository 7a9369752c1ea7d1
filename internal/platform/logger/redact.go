package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const redacted = "[REDACTED]"

var secretKeyFragments = []string{"token", "authorization", "password", "secret", "cookie"}

type redactor struct {
	salt string
}

// redactorFromEnv returns nil when redaction is switched off.
func redactorFromEnv(getenv func(string) string) *redactor {
	switch strings.ToLower(strings.TrimSpace(getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		return nil
	}
	return &redactor{salt: strings.TrimSpace(getenv("LOG_HASH_SALT"))}
}

// pairs walks a zap-style key/value list. A dangling trailing key is passed through.
func (r *redactor) pairs(kv []interface{}) []interface{} {
	if len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, len(kv))
	copy(out, kv)
	for i := 1; i < len(out); i += 2 {
		key := strings.ToLower(strings.TrimSpace(stringify(out[i-1])))
		out[i] = r.value(key, out[i])
	}
	return out
}

func (r *redactor) value(key string, v interface{}) interface{} {
	if key == "" {
		return v
	}
	for _, frag := range secretKeyFragments {
		if strings.Contains(key, frag) {
			return redacted
		}
	}
	// Hashed so repeated failures for one account stay correlatable.
	if strings.Contains(key, "email") {
		return r.hash(v)
	}
	if s, ok := v.(string); ok && jwtShaped(s) {
		return redacted
	}
	return v
}

func (r *redactor) hash(v interface{}) string {
	raw := stringify(v)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(r.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func jwtShaped(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
