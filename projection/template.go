package projection

import (
	"time"

	"github.com/jinzhu/gorm"

	"penelope-webhooks/models"
	"penelope-webhooks/normalizer"
)

// ApplyTemplateEvent projects a template lifecycle update onto the
// Template row and its latest TemplateVersion. Identity resolution
// prefers the provider-assigned template id, scoped to the caller's
// resolved integration, and falls back to a name (+language) match
// scoped to the company.
func ApplyTemplateEvent(tx *gorm.DB, integrationID, companyID int64, event *normalizer.TemplateEvent) (Outcome, error) {
	template, err := findTemplate(tx, integrationID, companyID, event)
	if err != nil {
		return NotFound, err
	}

	now := time.Now().UTC()

	template.Status = event.Status
	if event.Status == models.TemplateStatusRejected {
		template.RejectionReason = event.RejectionReason
		template.CorrectCategory = event.CorrectCategory
	} else {
		template.RejectionReason = ""
		template.CorrectCategory = ""
	}
	template.LastSyncedAt = &now
	template.UpdatedAt = now
	if err := tx.Save(template).Error; err != nil {
		return Noop, err
	}

	if err := applyTemplateVersion(tx, template.ID, event, now); err != nil {
		return Noop, err
	}

	return Updated, nil
}

func findTemplate(tx *gorm.DB, integrationID, companyID int64, event *normalizer.TemplateEvent) (*models.Template, error) {
	var template models.Template

	if event.TemplateProviderID != "" {
		err := tx.Where("integration_id = ? AND provider_template_id = ?", integrationID, event.TemplateProviderID).
			First(&template).Error
		if err == nil {
			return &template, nil
		}
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	if event.TemplateName == "" {
		return nil, ErrTemplateNotFound
	}

	query := tx.Where("company_id = ? AND name = ?", companyID, event.TemplateName)
	if event.Language != "" {
		query = query.Where("language = ?", event.Language)
	}
	err := query.Order("id DESC").First(&template).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func applyTemplateVersion(tx *gorm.DB, templateID int64, event *normalizer.TemplateEvent, now time.Time) error {
	var version models.TemplateVersion
	err := models.WithRowLock(tx, "FOR UPDATE").
		Where("template_id = ?", templateID).
		Order("version_no DESC").
		First(&version).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	version.Status = event.Status
	switch event.Status {
	case models.TemplateStatusSubmitted:
		if version.SubmittedAt == nil {
			version.SubmittedAt = &now
		}
	case models.TemplateStatusApproved:
		if version.ApprovedAt == nil {
			version.ApprovedAt = &now
		}
	case models.TemplateStatusRejected:
		if version.RejectedAt == nil {
			version.RejectedAt = &now
		}
		version.RejectionReason = event.RejectionReason
	}
	version.UpdatedAt = now

	return tx.Save(&version).Error
}
