package projection

import (
	"database/sql"
	"regexp"
	"time"

	"github.com/jinzhu/gorm"

	"penelope-webhooks/models"
	"penelope-webhooks/normalizer"
)

// identifierPattern guards the configured phone column name before it is
// interpolated into a raw SQL statement. Config.Load already rejects
// startup on a bad value; this is the second line of defense at the
// call site itself.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ApplyConsentEvent resolves the user by phone, appends a consent event
// row, and recomputes the per-user consent aggregate under a row lock.
func ApplyConsentEvent(tx *gorm.DB, companyID int64, phoneColumn string, blockedAsOptOut bool, event *normalizer.UserEvent) (Outcome, error) {
	if !identifierPattern.MatchString(phoneColumn) {
		return Noop, ErrInvalidPhoneColumn
	}

	eventType, ok := resolveEventType(event.ConsentStatus, blockedAsOptOut)
	if !ok {
		return Noop, ErrBlockedIgnored
	}

	if event.Phone == "" {
		return NotFound, ErrUserNotFound
	}

	userID, err := lookupUserID(tx, phoneColumn, event.Phone)
	if err == sql.ErrNoRows {
		return NotFound, ErrUserNotFound
	}
	if err != nil {
		return Noop, err
	}

	eventAt := time.Now().UTC()
	if event.EventAt != nil {
		eventAt = *event.EventAt
	}

	if err := tx.Create(&models.MarketingConsentEvent{
		UserID:    userID,
		CompanyID: companyID,
		EventType: eventType,
		EventAt:   eventAt,
		CreatedAt: time.Now().UTC(),
	}).Error; err != nil {
		return Noop, err
	}

	if err := upsertMarketingCurrent(tx, userID, companyID, eventType, eventAt); err != nil {
		return Noop, err
	}

	return Updated, nil
}

func resolveEventType(consentStatus string, blockedAsOptOut bool) (string, bool) {
	switch consentStatus {
	case "OPT_IN":
		return models.ConsentOptIn, true
	case "OPT_OUT":
		return models.ConsentOptOut, true
	case "BLOCKED":
		if blockedAsOptOut {
			return models.ConsentOptOut, true
		}
		return "", false
	default:
		return "", false
	}
}

func lookupUserID(tx *gorm.DB, phoneColumn, phone string) (int64, error) {
	var id int64
	row := tx.Raw(`SELECT id FROM user WHERE `+phoneColumn+` = ?`, phone).Row()
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func upsertMarketingCurrent(tx *gorm.DB, userID, companyID int64, eventType string, eventAt time.Time) error {
	var current models.MarketingCurrent
	err := models.WithRowLock(tx, "FOR UPDATE").
		Where("user_id = ? AND company_id = ?", userID, companyID).
		First(&current).Error

	isNew := false
	switch {
	case err == gorm.ErrRecordNotFound:
		current = models.MarketingCurrent{UserID: userID, CompanyID: companyID}
		isNew = true
	case err != nil:
		return err
	}

	if eventType == models.ConsentOptIn {
		current.LastOptInAt = laterOf(current.LastOptInAt, eventAt)
	} else {
		current.LastOptOutAt = laterOf(current.LastOptOutAt, eventAt)
	}
	current.Status = deriveConsentStatus(current.LastOptInAt, current.LastOptOutAt)
	current.UpdatedAt = time.Now().UTC()

	// Save() decides insert-vs-update by checking whether the primary key
	// is blank, and this table's primary key (user_id, company_id) is
	// always non-blank by the time we get here, so a first-time row must
	// go through Create explicitly or GORM tries an UPDATE that matches
	// nothing.
	if isNew {
		return tx.Create(&current).Error
	}
	return tx.Save(&current).Error
}

// deriveConsentStatus implements the tie-to-OPT_IN rule: OPT_IN wins
// when the two timestamps are equal or opt-out is absent.
func deriveConsentStatus(lastOptIn, lastOptOut *time.Time) string {
	switch {
	case lastOptIn == nil && lastOptOut == nil:
		return models.ConsentUnknown
	case lastOptIn == nil:
		return models.ConsentOptOut
	case lastOptOut == nil:
		return models.ConsentOptIn
	case lastOptIn.Before(*lastOptOut):
		return models.ConsentOptOut
	default:
		return models.ConsentOptIn
	}
}

func laterOf(existing *time.Time, candidate time.Time) *time.Time {
	if existing == nil || candidate.After(*existing) {
		cp := candidate
		return &cp
	}
	return existing
}
