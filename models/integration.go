package models

// IntegrationMapping is a read-only external table; the core consults it
// to resolve app_id to a company and to check the integration is active.
type IntegrationMapping struct {
	ID        int64  `gorm:"primary_key" json:"id"`
	AppID     string `gorm:"column:app_id;index" json:"app_id"`
	CompanyID int64  `gorm:"column:company_id" json:"company_id"`
	IsActive  bool   `gorm:"column:is_active" json:"is_active"`
}

func (IntegrationMapping) TableName() string {
	return "integration_mappings"
}
