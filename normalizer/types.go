package normalizer

import "time"

// Kind tags which variant a normalized payload resolved to.
type Kind string

const (
	KindMessage  Kind = "MESSAGE"
	KindTemplate Kind = "TEMPLATE"
	KindUser     Kind = "USER"
	KindUnknown  Kind = "UNKNOWN"
)

// Hints are the denormalized lookup fields stored alongside every raw
// event row, regardless of kind. They exist so the ingest path can build
// a dedupe key and so downstream tooling can filter/search raw rows
// without re-parsing payload_json.
type Hints struct {
	ProviderEventID    string
	MessageID          string
	WhatsAppMessageID  string
	TemplateName       string
	TemplateProviderID  string
	EventStatus         string
	EventAt             *time.Time
}

// MessageEvent is the MESSAGE-kind variant: a delivery-receipt update for
// an outbound message.
type MessageEvent struct {
	MessageID         string
	WhatsAppMessageID string
	Status            string // accepted | sent | delivered | read | failed
	EventAt           *time.Time
	ErrorCode         string
	ErrorReason       string
	RawError          []byte // original error object, JSON-encoded, or nil
}

// TemplateEvent is the TEMPLATE-kind variant: a template lifecycle update.
type TemplateEvent struct {
	TemplateName       string
	TemplateProviderID string
	Language           string
	Status             string // APPROVED | REJECTED | PENDING | SUBMITTED
	RejectionReason    string
	CorrectCategory    string
}

// UserEvent is the USER-kind variant: a consent/subscription change.
type UserEvent struct {
	Phone         string
	ConsentStatus string // OPT_IN | OPT_OUT | BLOCKED
	EventAt       *time.Time
}

// Result is the tagged union produced by Normalize: for MESSAGE, TEMPLATE
// and USER exactly one of Message, Template, User is non-nil, selected by
// Kind; for UNKNOWN all three are nil.
type Result struct {
	Kind     Kind
	Hints    Hints
	Message  *MessageEvent
	Template *TemplateEvent
	User     *UserEvent
}
