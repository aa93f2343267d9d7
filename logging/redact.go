package logging

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	maxStringLen = 2000
	maxDepth     = 6
	maxBreadth   = 50
	maxItems     = 200
)

var sensitiveKeyPattern = regexp.MustCompile(`(?i)secret|token|password|authorization|auth|cipher|signature|api[-_]?key|bearer`)
var phoneKeyPattern = regexp.MustCompile(`(?i)phone|msisdn|wa[-_]?id|whatsapp`)
var phoneValuePattern = regexp.MustCompile(`^\+?[\d\s().\-]+$`)
var digitPattern = regexp.MustCompile(`\d`)

// redactingCore wraps a zapcore.Core and scrubs every field passed through
// Write/With before delegating to the wrapped core, so callers never need
// to remember to mask anything themselves.
type redactingCore struct {
	zapcore.Core
}

func (c *redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactingCore{Core: c.Core.With(redactFields(fields))}
}

func (c *redactingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(entry, redactFields(fields))
}

func (c *redactingCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func redactFields(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		out[i] = redactField(f)
	}
	return out
}

func redactField(f zapcore.Field) zapcore.Field {
	if sensitiveKeyPattern.MatchString(f.Key) {
		return zapcore.Field{Key: f.Key, Type: zapcore.StringType, String: "[REDACTED]"}
	}

	switch f.Type {
	case zapcore.StringType:
		value := f.String
		if phoneKeyPattern.MatchString(f.Key) || looksLikePhone(value) {
			value = maskPhone(value)
		}
		return zapcore.Field{Key: f.Key, Type: zapcore.StringType, String: truncate(value)}
	case zapcore.ReflectType:
		return zapcore.Field{Key: f.Key, Type: zapcore.StringType, String: redactValue(f.Interface, 0, newSeen())}
	default:
		return f
	}
}

// redactValue renders an arbitrary value (the shape a normalized webhook
// payload takes once decoded from JSON: maps, slices, scalars) as a string
// while enforcing depth/breadth/item caps and masking sensitive content.
// Decoded JSON is acyclic, but a map or slice built in code can contain
// itself; the seen-set tracks the containers on the current path and a
// container met again on that path is rendered as "[Circular]".
func redactValue(v interface{}, depth int, seen map[uintptr]bool) string {
	if depth > maxDepth {
		return "[truncated:depth]"
	}
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		out := val
		if looksLikePhone(out) {
			out = maskPhone(out)
		}
		return fmt.Sprintf("%q", truncate(out))
	case map[string]interface{}:
		ptr := reflect.ValueOf(val).Pointer()
		if seen[ptr] {
			return `"[Circular]"`
		}
		seen[ptr] = true
		defer delete(seen, ptr)
		return redactMap(val, depth, seen)
	case []interface{}:
		if len(val) > 0 {
			ptr := reflect.ValueOf(val).Pointer()
			if seen[ptr] {
				return `"[Circular]"`
			}
			seen[ptr] = true
			defer delete(seen, ptr)
		}
		return redactSlice(val, depth, seen)
	default:
		return truncate(fmt.Sprintf("%v", val))
	}
}

func redactMap(m map[string]interface{}, depth int, seen map[uintptr]bool) string {
	var b strings.Builder
	b.WriteString("{")
	i := 0
	for k, v := range m {
		if i >= maxBreadth {
			b.WriteString(fmt.Sprintf("...(+%d keys)", len(m)-maxBreadth))
			break
		}
		if i > 0 {
			b.WriteString(",")
		}
		if sensitiveKeyPattern.MatchString(k) {
			b.WriteString(fmt.Sprintf("%q:%q", k, "[REDACTED]"))
		} else if phoneKeyPattern.MatchString(k) {
			b.WriteString(fmt.Sprintf("%q:%q", k, maskPhone(fmt.Sprintf("%v", v))))
		} else {
			b.WriteString(fmt.Sprintf("%q:%s", k, redactValue(v, depth+1, seen)))
		}
		i++
	}
	b.WriteString("}")
	return b.String()
}

func redactSlice(s []interface{}, depth int, seen map[uintptr]bool) string {
	var b strings.Builder
	b.WriteString("[")
	n := len(s)
	if n > maxItems {
		n = maxItems
	}
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(redactValue(s[i], depth+1, seen))
	}
	if len(s) > maxItems {
		b.WriteString(fmt.Sprintf(",...(+%d items)", len(s)-maxItems))
	}
	b.WriteString("]")
	return b.String()
}

func newSeen() map[uintptr]bool { return make(map[uintptr]bool) }

func truncate(s string) string {
	if len(s) <= maxStringLen {
		return s
	}
	return s[:maxStringLen] + fmt.Sprintf("[truncated:%d]", len(s)-maxStringLen)
}

func looksLikePhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || !phoneValuePattern.MatchString(s) {
		return false
	}
	digits := digitPattern.FindAllString(s, -1)
	return len(digits) >= 8 && len(digits) <= 15
}

func maskPhone(s string) string {
	digits := digitPattern.FindAllString(s, -1)
	if len(digits) < 4 {
		return "***"
	}
	last4 := strings.Join(digits[len(digits)-4:], "")
	return "***" + last4
}
