package models

import "time"

const (
	TemplateStatusDraft     = "DRAFT"
	TemplateStatusSubmitted = "SUBMITTED"
	TemplateStatusPending   = "PENDING"
	TemplateStatusApproved  = "APPROVED"
	TemplateStatusRejected  = "REJECTED"
)

// Template and TemplateVersion are external, pre-existing tables.
type Template struct {
	ID                 int64     `gorm:"primary_key" json:"id"`
	CompanyID          int64     `gorm:"column:company_id;index" json:"company_id"`
	IntegrationID      int64     `gorm:"column:integration_id;index" json:"integration_id"`
	Name               string    `gorm:"column:name;index" json:"name"`
	Language           string    `gorm:"column:language" json:"language"`
	ProviderTemplateID string    `gorm:"column:provider_template_id;index" json:"provider_template_id"`
	Status             string    `gorm:"column:status" json:"status"`
	RejectionReason    string    `gorm:"column:rejection_reason" json:"rejection_reason"`
	CorrectCategory    string    `gorm:"column:correct_category" json:"correct_category"`
	LastSyncedAt       *time.Time `gorm:"column:last_synced_at" json:"last_synced_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Template) TableName() string {
	return "templates"
}

type TemplateVersion struct {
	ID              int64      `gorm:"primary_key" json:"id"`
	TemplateID      int64      `gorm:"column:template_id;index" json:"template_id"`
	VersionNo       int        `gorm:"column:version_no" json:"version_no"`
	Status          string     `gorm:"column:status" json:"status"`
	RejectionReason string     `gorm:"column:rejection_reason" json:"rejection_reason"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	ApprovedAt      *time.Time `gorm:"column:approved_at" json:"approved_at"`
	RejectedAt      *time.Time `gorm:"column:rejected_at" json:"rejected_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (TemplateVersion) TableName() string {
	return "template_versions"
}
