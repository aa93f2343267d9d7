package models

import "time"

// Event kinds, mirrors normalizer.Kind as a stored string.
const (
	EventKindMessage  = "MESSAGE"
	EventKindTemplate = "TEMPLATE"
	EventKindUser     = "USER"
	EventKindUnknown  = "UNKNOWN"
)

// RawEvent is the durable, append-only ingest buffer. It is the only
// table this service automigrates; every other model in this package describes a
// table owned by the wider system and is never migrated from here.
type RawEvent struct {
	ID                 int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	AppID              string     `gorm:"column:app_id;not null;index" json:"app_id"`
	EventKind          string     `gorm:"column:event_kind;not null" json:"event_kind"`
	ProviderEventID    string     `gorm:"column:provider_event_id" json:"provider_event_id"`
	MessageID          string     `gorm:"column:message_id" json:"message_id"`
	WhatsAppMessageID  string     `gorm:"column:whatsapp_message_id" json:"whatsapp_message_id"`
	TemplateName       string     `gorm:"column:template_name" json:"template_name"`
	TemplateProviderID string     `gorm:"column:template_provider_id" json:"template_provider_id"`
	EventStatus        string     `gorm:"column:event_status" json:"event_status"`
	ReceivedAt         time.Time  `gorm:"column:received_at;not null;index:idx_processed_received" json:"received_at"`
	PayloadJSON        JSONText   `gorm:"column:payload_json;type:json" json:"payload_json"`
	Processed          bool       `gorm:"column:processed;not null;default:false;index:idx_processed_received" json:"processed"`
	Attempts           int        `gorm:"column:attempts;not null;default:0" json:"attempts"`
	LastError          string     `gorm:"column:last_error;size:255" json:"last_error"`
	ProcessedAt        *time.Time `gorm:"column:processed_at" json:"processed_at"`
	DedupeKey          string     `gorm:"column:dedupe_key;type:char(64);unique_index" json:"dedupe_key"`
}

func (RawEvent) TableName() string {
	return "wpp_webhook_event_raw"
}
