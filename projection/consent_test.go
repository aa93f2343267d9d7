package projection

import (
	"testing"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/require"

	"penelope-webhooks/models"
	"penelope-webhooks/normalizer"
)

// consent projection resolves user_id via raw SQL against a "user" table
// with a configurable phone column; the in-memory test DB needs that
// table created by hand since models package owns no User struct (the
// table belongs to the wider system).
func createUserTable(t *testing.T, db *gorm.DB, userID int64, phone string) {
	t.Helper()
	require.NoError(t, db.Exec(`CREATE TABLE user (id INTEGER PRIMARY KEY, phone TEXT)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO user (id, phone) VALUES (?, ?)`, userID, phone).Error)
}

// BLOCKED with blockedAsOptOut=true maps to OPT_OUT and updates the aggregate.
func TestApplyConsentEvent_BlockedAsOptOut(t *testing.T) {
	db := openTestDB(t)
	createUserTable(t, db, 42, "+15551234567")

	outcome, err := ApplyConsentEvent(db, 3, "phone", true, &normalizer.UserEvent{
		Phone:         "+15551234567",
		ConsentStatus: "BLOCKED",
		EventAt:       ts(1739112000),
	})
	require.NoError(t, err)
	require.Equal(t, Updated, outcome)

	var events []models.MarketingConsentEvent
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	require.Equal(t, models.ConsentOptOut, events[0].EventType)

	var current models.MarketingCurrent
	require.NoError(t, db.Where("user_id = ? AND company_id = ?", 42, 3).First(&current).Error)
	require.Equal(t, models.ConsentOptOut, current.Status)
}

// BLOCKED with blockedAsOptOut=false is dropped entirely, no rows written.
func TestApplyConsentEvent_BlockedDroppedWhenFlagFalse(t *testing.T) {
	db := openTestDB(t)
	createUserTable(t, db, 42, "+15551234567")

	outcome, err := ApplyConsentEvent(db, 3, "phone", false, &normalizer.UserEvent{
		Phone:         "+15551234567",
		ConsentStatus: "BLOCKED",
	})
	require.ErrorIs(t, err, ErrBlockedIgnored)
	require.Equal(t, Noop, outcome)

	var count int
	require.NoError(t, db.Model(&models.MarketingConsentEvent{}).Count(&count).Error)
	require.Equal(t, 0, count)
}

func TestApplyConsentEvent_UserNotFound(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE user (id INTEGER PRIMARY KEY, phone TEXT)`).Error)

	outcome, err := ApplyConsentEvent(db, 3, "phone", true, &normalizer.UserEvent{
		Phone:         "+19999999999",
		ConsentStatus: "OPT_IN",
	})
	require.ErrorIs(t, err, ErrUserNotFound)
	require.Equal(t, NotFound, outcome)
}

func TestApplyConsentEvent_InvalidPhoneColumnRejected(t *testing.T) {
	db := openTestDB(t)
	createUserTable(t, db, 1, "+15550000000")

	outcome, err := ApplyConsentEvent(db, 3, "phone; DROP TABLE user;--", true, &normalizer.UserEvent{
		Phone:         "+15550000000",
		ConsentStatus: "OPT_IN",
	})
	require.ErrorIs(t, err, ErrInvalidPhoneColumn)
	require.Equal(t, Noop, outcome)
}

func TestDeriveConsentStatus_TieResolvesToOptIn(t *testing.T) {
	tm := ts(1739112000)
	require.Equal(t, models.ConsentOptIn, deriveConsentStatus(tm, tm))
}

func TestApplyConsentEvent_OptOutThenOptInUpgradesAggregate(t *testing.T) {
	db := openTestDB(t)
	createUserTable(t, db, 7, "+15551230000")

	_, err := ApplyConsentEvent(db, 1, "phone", true, &normalizer.UserEvent{
		Phone: "+15551230000", ConsentStatus: "OPT_OUT", EventAt: ts(1739112000),
	})
	require.NoError(t, err)

	_, err = ApplyConsentEvent(db, 1, "phone", true, &normalizer.UserEvent{
		Phone: "+15551230000", ConsentStatus: "OPT_IN", EventAt: ts(1739112500),
	})
	require.NoError(t, err)

	var current models.MarketingCurrent
	require.NoError(t, db.Where("user_id = ? AND company_id = ?", 7, 1).First(&current).Error)
	require.Equal(t, models.ConsentOptIn, current.Status)
}
