package projection

import (
	"encoding/json"
	"time"

	"github.com/jinzhu/gorm"

	"penelope-webhooks/models"
	"penelope-webhooks/normalizer"
)

// statusTarget maps a normalized message status token to the recipient
// status it would move the row to, absent any override rule.
var statusTarget = map[string]string{
	"accepted":  models.RecipientStatusSubmitted,
	"sent":      models.RecipientStatusSent,
	"delivered": models.RecipientStatusDelivered,
	"read":      models.RecipientStatusRead,
	"failed":    models.RecipientStatusFailed,
}

type transition int

const (
	transitionUpgrade transition = iota
	transitionSame
	transitionIgnoreSoft
	transitionIgnoreHard
)

// ApplyMessageEvent projects a delivery-receipt event onto the matching
// Recipient row. Lookup is first by gupshup_message_id, then by
// whatsapp_message_id; either miss (or neither id present on the event)
// is NotFound.
func ApplyMessageEvent(tx *gorm.DB, event *normalizer.MessageEvent) (Outcome, error) {
	target, ok := statusTarget[event.Status]
	if !ok {
		return Noop, ErrUnrecognizedPayload
	}

	if event.MessageID == "" && event.WhatsAppMessageID == "" {
		return NotFound, ErrRecipientNotFound
	}

	recipient, err := findRecipient(tx, event.MessageID, event.WhatsAppMessageID)
	if err != nil {
		return NotFound, err
	}

	decision := decideTransition(recipient.Status, target)
	if decision == transitionIgnoreHard {
		return Noop, nil
	}

	changed := false

	if decision == transitionUpgrade {
		recipient.Status = target
		changed = true
	}

	if recipient.WhatsAppMessageID == "" && event.WhatsAppMessageID != "" {
		recipient.WhatsAppMessageID = event.WhatsAppMessageID
		changed = true
	}

	if decision == transitionUpgrade && event.EventAt != nil {
		if recipient.LastEventAt == nil || event.EventAt.After(*recipient.LastEventAt) {
			recipient.LastEventAt = event.EventAt
			changed = true
		}
	}

	switch event.Status {
	case "accepted":
		if recipient.AcceptedAt == nil {
			recipient.AcceptedAt = firstOccurrence(event.EventAt)
			changed = true
		}
	case "sent":
		if recipient.SentAt == nil {
			recipient.SentAt = firstOccurrence(event.EventAt)
			changed = true
		}
	case "delivered", "read":
		if recipient.ReachedAt == nil {
			recipient.ReachedAt = firstOccurrence(event.EventAt)
			changed = true
		}
	case "failed":
		if recipient.FailedAt == nil {
			recipient.FailedAt = firstOccurrence(event.EventAt)
			changed = true
		}
		if event.ErrorCode != "" && recipient.LastErrorCode != event.ErrorCode {
			recipient.LastErrorCode = event.ErrorCode
			changed = true
		}
		if event.ErrorReason != "" && recipient.LastErrorReason != event.ErrorReason {
			recipient.LastErrorReason = event.ErrorReason
			changed = true
		}
		errJSON := event.RawError
		if len(errJSON) == 0 {
			errJSON = marshalError(event.ErrorCode, event.ErrorReason)
		}
		if len(errJSON) > 0 {
			recipient.Error = models.JSONText(errJSON)
			changed = true
		}
	}

	if !changed {
		return Noop, nil
	}

	recipient.UpdatedAt = time.Now().UTC()
	if err := tx.Save(recipient).Error; err != nil {
		return Noop, err
	}
	return Updated, nil
}

// decideTransition decides whether an incoming status advances, repeats,
// or should be ignored relative to the recipient's current status. The
// two hard-ignore branches (failed arriving after READ, any non-failed
// status arriving after FAILED) short-circuit before any field is
// evaluated; failed arriving after FAILED counts as a repeat, so its
// error fields are still written;
// every other branch still runs the opportunistic null-fill writes even
// when the status itself does not advance.
func decideTransition(current, target string) transition {
	if target == models.RecipientStatusFailed {
		switch current {
		case models.RecipientStatusRead:
			return transitionIgnoreHard
		case models.RecipientStatusFailed:
			return transitionSame
		default:
			return transitionUpgrade
		}
	}

	if current == models.RecipientStatusFailed {
		return transitionIgnoreHard
	}

	rt := models.StatusRank[target]
	rc := models.StatusRank[current]
	switch {
	case rt > rc:
		return transitionUpgrade
	case rt == rc && target == current:
		return transitionSame
	default:
		return transitionIgnoreSoft
	}
}

func findRecipient(tx *gorm.DB, messageID, whatsappMessageID string) (*models.Recipient, error) {
	var recipient models.Recipient
	if messageID != "" {
		if err := tx.Where("gupshup_message_id = ?", messageID).First(&recipient).Error; err == nil {
			return &recipient, nil
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	if whatsappMessageID != "" {
		if err := tx.Where("whatsapp_message_id = ?", whatsappMessageID).First(&recipient).Error; err == nil {
			return &recipient, nil
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	return nil, ErrRecipientNotFound
}

func firstOccurrence(t *time.Time) *time.Time {
	if t == nil {
		now := time.Now().UTC()
		return &now
	}
	cp := t.UTC()
	return &cp
}

// marshalError builds the JSON object stored in recipient.Error when the
// event carries only a code/reason pair and no raw error payload.
func marshalError(code, reason string) []byte {
	if code == "" && reason == "" {
		return nil
	}
	b, err := json.Marshal(map[string]string{"code": code, "message": reason})
	if err != nil {
		return nil
	}
	return b
}
