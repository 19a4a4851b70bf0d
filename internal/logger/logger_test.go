package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSensitiveKeys(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"email", "ana@x.com",
		"stripe_secret", "sk_test_123",
		"profile_id", "p-1",
	})

	assert.Equal(t, []interface{}{
		"email", "[REDACTED]",
		"stripe_secret", "[REDACTED]",
		"profile_id", "p-1",
	}, out)
}

func TestSanitizeKVsHashesUserIDs(t *testing.T) {
	out := sanitizeKVs([]interface{}{"user_id", "2b1d"})

	hashed, ok := out[1].(string)
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(hashed, "hash:"))
	assert.NotContains(t, hashed, "2b1d")
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	out := sanitizeKVs([]interface{}{"status", 200, "orphan"})
	assert.Equal(t, []interface{}{"status", 200, "orphan"}, out)
}
