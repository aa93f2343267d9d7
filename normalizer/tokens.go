package normalizer

import "strings"

// messageStatusTokens maps provider-reported message status tokens
// (case-insensitive) onto the normalized status vocabulary.
var messageStatusTokens = map[string]string{
	"accepted":    "accepted",
	"sent":        "sent",
	"delivered":   "delivered",
	"read":        "read",
	"failed":      "failed",
	"error":       "failed",
	"undelivered": "failed",
}

// templateStatusTokens maps provider-reported template status tokens
// onto the normalized (uppercase) template status vocabulary.
var templateStatusTokens = map[string]string{
	"approved":   "APPROVED",
	"rejected":   "REJECTED",
	"pending":    "PENDING",
	"submitted":  "SUBMITTED",
	"in_review":  "SUBMITTED",
}

// consentTokens maps provider-reported consent/subscription tokens onto
// the normalized consent vocabulary.
var consentTokens = map[string]string{
	"opt_in":          "OPT_IN",
	"subscribe":       "OPT_IN",
	"consent_granted": "OPT_IN",
	"opt_out":         "OPT_OUT",
	"unsubscribe":     "OPT_OUT",
	"consent_revoked": "OPT_OUT",
	"blocked":         "BLOCKED",
	"block":           "BLOCKED",
	"user_blocked":    "BLOCKED",
}

func lookupMessageStatus(raw string) (string, bool) {
	v, ok := messageStatusTokens[strings.ToLower(strings.TrimSpace(raw))]
	return v, ok
}

func lookupTemplateStatus(raw string) (string, bool) {
	v, ok := templateStatusTokens[strings.ToLower(strings.TrimSpace(raw))]
	return v, ok
}

func lookupConsentToken(raw string) (string, bool) {
	v, ok := consentTokens[strings.ToLower(strings.TrimSpace(raw))]
	return v, ok
}
