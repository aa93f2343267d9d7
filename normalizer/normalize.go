package normalizer

import (
	"strings"

	"penelope-webhooks/jsonvalue"
)

// Normalize inspects a decoded webhook payload and resolves it to exactly
// one variant: TEMPLATE, MESSAGE, USER, or UNKNOWN. Variant matching is
// tried in that priority order because a template payload and a message
// payload can both carry a generic "status" field, and template updates
// are the more specific shape (they always carry a template identity).
func Normalize(raw interface{}) Result {
	hints := extractHints(raw)

	if tpl, ok := extractTemplate(raw); ok {
		return Result{Kind: KindTemplate, Hints: hints, Template: tpl}
	}
	if msg, ok := extractMessage(raw); ok {
		return Result{Kind: KindMessage, Hints: hints, Message: msg}
	}
	if usr, ok := extractUser(raw); ok {
		return Result{Kind: KindUser, Hints: hints, User: usr}
	}
	return Result{Kind: KindUnknown, Hints: hints}
}

func extractHints(raw interface{}) Hints {
	h := Hints{}
	if v, ok := jsonvalue.ProbeFirst(raw, providerEventIDPaths...); ok {
		if s, ok := jsonvalue.AsString(v); ok {
			h.ProviderEventID = s
		}
	} else if v, ok := jsonvalue.BFSFindKey(raw, providerEventIDKeys...); ok {
		if s, ok := jsonvalue.AsString(v); ok {
			h.ProviderEventID = s
		}
	}
	if v, ok := jsonvalue.ProbeFirst(raw, messageIDPaths...); ok {
		if s, ok := jsonvalue.AsString(v); ok {
			h.MessageID = s
		}
	}
	if v, ok := jsonvalue.ProbeFirst(raw, whatsappMessageIDPaths...); ok {
		if s, ok := jsonvalue.AsString(v); ok {
			h.WhatsAppMessageID = s
		}
	}
	if v, ok := jsonvalue.ProbeFirst(raw, templateNamePaths...); ok {
		if s, ok := jsonvalue.AsString(v); ok {
			h.TemplateName = s
		}
	}
	if v, ok := jsonvalue.ProbeFirst(raw, templateProviderIDPaths...); ok {
		if s, ok := jsonvalue.AsString(v); ok {
			h.TemplateProviderID = s
		}
	}
	if v, ok := jsonvalue.ProbeFirst(raw, messageStatusPaths...); ok {
		if s, ok := jsonvalue.AsString(v); ok {
			h.EventStatus = s
		}
	}
	if v, ok := jsonvalue.ProbeFirst(raw, messageTimestampPaths...); ok {
		if t, ok := parseTimestamp(v); ok {
			h.EventAt = t
		}
	}
	return h
}

// extractTemplate matches a TEMPLATE-kind payload: it requires a
// resolvable template identity (name or provider id) plus a status token
// recognized in the template vocabulary.
func extractTemplate(raw interface{}) (*TemplateEvent, bool) {
	statusRaw, ok := jsonvalue.ProbeFirst(raw, templateStatusPaths...)
	if !ok {
		if v, ok2 := jsonvalue.BFSFindKey(raw, templateStatusKeys...); ok2 {
			statusRaw, ok = v, true
		}
	}
	if !ok {
		return nil, false
	}
	statusStr, ok := jsonvalue.AsString(statusRaw)
	if !ok {
		return nil, false
	}
	status, ok := lookupTemplateStatus(statusStr)
	if !ok {
		return nil, false
	}

	name := probeString(raw, templateNamePaths, templateNameKeys)
	providerID := probeString(raw, templateProviderIDPaths, templateProviderIDKeys)
	if name == "" && providerID == "" {
		return nil, false
	}

	ev := &TemplateEvent{
		TemplateName:       name,
		TemplateProviderID: providerID,
		Language:           probeString(raw, templateLanguagePaths, nil),
		Status:             status,
	}
	if status == "REJECTED" {
		ev.RejectionReason = probeString(raw, templateRejectionReasonPaths, nil)
		ev.CorrectCategory = probeString(raw, templateCorrectCategoryPaths, nil)
	}
	return ev, true
}

// extractMessage matches a MESSAGE-kind payload: a status token in the
// message vocabulary plus at least one of messageId/whatsappMessageId.
func extractMessage(raw interface{}) (*MessageEvent, bool) {
	statusStr := probeString(raw, messageStatusPaths, messageStatusKeys)
	if statusStr == "" {
		return nil, false
	}
	status, ok := lookupMessageStatus(statusStr)
	if !ok {
		return nil, false
	}

	messageID := probeString(raw, messageIDPaths, messageIDKeys)
	wamid := probeString(raw, whatsappMessageIDPaths, whatsappMessageIDKeys)
	if messageID == "" && wamid == "" {
		return nil, false
	}

	ev := &MessageEvent{
		MessageID:         messageID,
		WhatsAppMessageID: wamid,
		Status:            status,
	}
	if v, ok := jsonvalue.ProbeFirst(raw, messageTimestampPaths...); ok {
		if t, ok := parseTimestamp(v); ok {
			ev.EventAt = t
		}
	} else if v, ok := jsonvalue.BFSFindKey(raw, timestampKeys...); ok {
		if t, ok := parseTimestamp(v); ok {
			ev.EventAt = t
		}
	}
	if status == "failed" {
		ev.ErrorCode = probeString(raw, errorCodePaths, errorCodeKeys)
		ev.ErrorReason = probeString(raw, errorReasonPaths, errorReasonKeys)
	}
	return ev, true
}

// extractUser matches a USER-kind payload: a phone number plus a
// recognized consent/subscription token.
func extractUser(raw interface{}) (*UserEvent, bool) {
	tokenStr := probeString(raw, consentTokenPaths, consentTokenKeys)
	if tokenStr == "" {
		return nil, false
	}
	consent, ok := lookupConsentToken(tokenStr)
	if !ok {
		return nil, false
	}

	phoneRaw := probeString(raw, phonePaths, phoneKeys)
	phone := normalizePhone(phoneRaw)
	if phone == "" {
		return nil, false
	}

	ev := &UserEvent{
		Phone:         phone,
		ConsentStatus: consent,
	}
	if v, ok := jsonvalue.ProbeFirst(raw, messageTimestampPaths...); ok {
		if t, ok := parseTimestamp(v); ok {
			ev.EventAt = t
		}
	}
	return ev, true
}

func probeString(raw interface{}, paths []string, keys []string) string {
	if v, ok := jsonvalue.ProbeFirst(raw, paths...); ok {
		if s, ok := jsonvalue.AsString(v); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	if keys != nil {
		if v, ok := jsonvalue.BFSFindKey(raw, keys...); ok {
			if s, ok := jsonvalue.AsString(v); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}
