package models

import "time"

const (
	ConsentUnknown = "UNKNOWN"
	ConsentOptIn   = "OPT_IN"
	ConsentOptOut  = "OPT_OUT"
)

// MarketingConsentEvent and MarketingCurrent are external, pre-existing
// tables. The event table is append-only; current is a per-user upsert
// target locked during the projection transaction.
type MarketingConsentEvent struct {
	ID        int64     `gorm:"primary_key" json:"id"`
	UserID    int64     `gorm:"column:user_id;index" json:"user_id"`
	CompanyID int64     `gorm:"column:company_id;index" json:"company_id"`
	EventType string    `gorm:"column:event_type" json:"event_type"`
	EventAt   time.Time `gorm:"column:event_at" json:"event_at"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (MarketingConsentEvent) TableName() string {
	return "marketing_consent_events"
}

type MarketingCurrent struct {
	UserID       int64      `gorm:"column:user_id;primary_key;AUTO_INCREMENT:false" json:"user_id"`
	CompanyID    int64      `gorm:"column:company_id;primary_key;AUTO_INCREMENT:false" json:"company_id"`
	Status       string     `gorm:"column:status" json:"status"`
	LastOptInAt  *time.Time `gorm:"column:last_opt_in_at" json:"last_opt_in_at"`
	LastOptOutAt *time.Time `gorm:"column:last_opt_out_at" json:"last_opt_out_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (MarketingCurrent) TableName() string {
	return "marketing_current"
}
