package models

import "time"

// Recipient is an external, pre-existing table (campaign send tracking).
// This service only ever updates rows here; it never creates or migrates
// the table.
const (
	RecipientStatusPending   = "PENDING"
	RecipientStatusSkipped   = "SKIPPED"
	RecipientStatusSubmitted = "SUBMITTED"
	RecipientStatusSent      = "SENT"
	RecipientStatusDelivered = "DELIVERED"
	RecipientStatusRead      = "READ"
	RecipientStatusFailed    = "FAILED"
	RecipientStatusRetrying  = "RETRYING"
)

// StatusRank orders recipient statuses for the monotonic-upgrade rule.
var StatusRank = map[string]int{
	RecipientStatusPending:   0,
	RecipientStatusSkipped:   0,
	RecipientStatusSubmitted: 1,
	RecipientStatusRetrying:  1,
	RecipientStatusSent:      2,
	RecipientStatusDelivered: 3,
	RecipientStatusRead:      4,
	RecipientStatusFailed:    5,
}

type Recipient struct {
	ID                int64      `gorm:"primary_key" json:"id"`
	GupshupMessageID  string     `gorm:"column:gupshup_message_id;index" json:"gupshup_message_id"`
	WhatsAppMessageID string     `gorm:"column:whatsapp_message_id;index" json:"whatsapp_message_id"`
	Status            string     `gorm:"column:status" json:"status"`
	AcceptedAt        *time.Time `gorm:"column:accepted_at" json:"accepted_at"`
	SentAt            *time.Time `gorm:"column:sent_at" json:"sent_at"`
	ReachedAt         *time.Time `gorm:"column:reached_at" json:"reached_at"`
	FailedAt          *time.Time `gorm:"column:failed_at" json:"failed_at"`
	LastEventAt       *time.Time `gorm:"column:last_event_at" json:"last_event_at"`
	LastErrorCode     string     `gorm:"column:last_error_code" json:"last_error_code"`
	LastErrorReason   string     `gorm:"column:last_error_reason" json:"last_error_reason"`
	Error             JSONText   `gorm:"column:error;type:json" json:"error"`
	UpdatedAt         time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Recipient) TableName() string {
	return "recipients"
}
