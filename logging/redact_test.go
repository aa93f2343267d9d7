package logging

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestRedactField_SensitiveKeyIsRedacted(t *testing.T) {
	for _, key := range []string{"password", "Authorization", "api_key", "x-auth-token", "client_secret"} {
		f := redactField(zapcore.Field{Key: key, Type: zapcore.StringType, String: "s3cr3t-value"})
		assert.Equal(t, "[REDACTED]", f.String, "key %q should be redacted", key)
	}
}

func TestRedactField_PhoneKeyIsMasked(t *testing.T) {
	f := redactField(zapcore.Field{Key: "phone", Type: zapcore.StringType, String: "+15551234567"})
	assert.Equal(t, "***4567", f.String)
}

func TestRedactField_PhoneShapedValueIsMaskedRegardlessOfKey(t *testing.T) {
	f := redactField(zapcore.Field{Key: "note", Type: zapcore.StringType, String: "+1 (555) 123-4567"})
	assert.Equal(t, "***4567", f.String)
}

func TestRedactField_OrdinaryStringPassesThrough(t *testing.T) {
	f := redactField(zapcore.Field{Key: "status", Type: zapcore.StringType, String: "delivered"})
	assert.Equal(t, "delivered", f.String)
}

func TestRedactField_LongStringIsTruncated(t *testing.T) {
	long := strings.Repeat("a", maxStringLen+50)
	f := redactField(zapcore.Field{Key: "body", Type: zapcore.StringType, String: long})
	assert.True(t, strings.HasPrefix(f.String, strings.Repeat("a", maxStringLen)))
	assert.Contains(t, f.String, "[truncated:50]")
}

func TestRedactField_ReflectValueRoutesThroughRedactValue(t *testing.T) {
	f := redactField(zapcore.Field{Key: "payload", Type: zapcore.ReflectType, Interface: map[string]interface{}{
		"password": "hunter2",
		"phone":    "+15559876543",
		"status":   "sent",
	}})
	require.Equal(t, zapcore.StringType, f.Type)
	assert.Contains(t, f.String, `"password":"[REDACTED]"`)
	assert.Contains(t, f.String, `"phone":"***6543"`)
	assert.Contains(t, f.String, `"status":"sent"`)
}

func TestRedactValue_NestedMapMasksPhoneAndSecretAtAnyDepth(t *testing.T) {
	v := map[string]interface{}{
		"recipient": map[string]interface{}{
			"msisdn": "+15551112222",
			"token":  "abc123",
		},
	}
	out := redactValue(v, 0, newSeen())
	assert.Contains(t, out, `"msisdn":"***2222"`)
	assert.Contains(t, out, `"token":"[REDACTED]"`)
}

func TestRedactValue_BareStringScalarIsMaskedWhenPhoneShaped(t *testing.T) {
	out := redactValue("+15550001111", 0, newSeen())
	assert.Equal(t, `"***1111"`, out)
}

func TestRedactValue_DepthBeyondLimitIsTruncated(t *testing.T) {
	var v interface{} = "leaf"
	for i := 0; i < maxDepth+3; i++ {
		v = map[string]interface{}{"nested": v}
	}
	out := redactValue(v, 0, newSeen())
	assert.Contains(t, out, "[truncated:depth]")
}

func TestRedactMap_BreadthBeyondLimitIsSummarized(t *testing.T) {
	m := make(map[string]interface{}, maxBreadth+10)
	for i := 0; i < maxBreadth+10; i++ {
		m[strconv.Itoa(i)] = i
	}
	out := redactMap(m, 0, newSeen())
	assert.Contains(t, out, "...(+10 keys)")
}

func TestRedactSlice_ItemsBeyondLimitAreSummarized(t *testing.T) {
	s := make([]interface{}, maxItems+7)
	for i := range s {
		s[i] = i
	}
	out := redactSlice(s, 0, newSeen())
	assert.Contains(t, out, "...(+7 items)")
}

func TestLooksLikePhone(t *testing.T) {
	assert.True(t, looksLikePhone("+15551234567"))
	assert.True(t, looksLikePhone("(555) 123-4567"))
	assert.False(t, looksLikePhone("hello"))
	assert.False(t, looksLikePhone("12345")) // too few digits
	assert.False(t, looksLikePhone(""))
}

func TestMaskPhone_ShortDigitsFallBackToPlainMask(t *testing.T) {
	assert.Equal(t, "***", maskPhone("12"))
}

