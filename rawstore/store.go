// Package rawstore is the durable ingest buffer: an append-only table
// with a unique dedupe key, claimed for processing via row-level
// skip-locking so that multiple worker instances never double-process a
// row.
package rawstore

import (
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jinzhu/gorm"

	"penelope-webhooks/models"
	"penelope-webhooks/normalizer"
)

// InsertInput carries everything the ingest path knows about an event
// before it becomes a RawEvent row.
type InsertInput struct {
	AppID       string
	Kind        normalizer.Kind
	Hints       normalizer.Hints
	PayloadJSON []byte
	DedupeKey   string
}

// Store is the persistence boundary the ingest endpoint and the worker
// loop depend on. It is implemented once, against GORM, but kept as an
// interface so tests can swap in a fake without a database.
type Store interface {
	InsertRawEvent(db *gorm.DB, input InsertInput) (inserted bool, err error)
	LockNextBatch(tx *gorm.DB, batchSize int) ([]models.RawEvent, error)
	MarkProcessed(tx *gorm.DB, id int64, lastError string) error
	MarkFailedAttempt(tx *gorm.DB, id int64, attempts int, lastError string, finalize bool) error
}

type GormStore struct{}

func NewGormStore() *GormStore {
	return &GormStore{}
}

func (s *GormStore) InsertRawEvent(db *gorm.DB, input InsertInput) (bool, error) {
	row := models.RawEvent{
		AppID:              input.AppID,
		EventKind:          string(input.Kind),
		ProviderEventID:    input.Hints.ProviderEventID,
		MessageID:          input.Hints.MessageID,
		WhatsAppMessageID:  input.Hints.WhatsAppMessageID,
		TemplateName:       input.Hints.TemplateName,
		TemplateProviderID: input.Hints.TemplateProviderID,
		EventStatus:        input.Hints.EventStatus,
		ReceivedAt:         time.Now().UTC(),
		PayloadJSON:        models.JSONText(input.PayloadJSON),
		DedupeKey:          input.DedupeKey,
	}

	err := db.Create(&row).Error
	if err == nil {
		return true, nil
	}
	if isDuplicateKeyError(err) {
		return false, nil
	}
	return false, err
}

// LockNextBatch claims up to batchSize pending rows, oldest first,
// skipping any row another transaction already holds. Must run inside
// the caller's open transaction.
func (s *GormStore) LockNextBatch(tx *gorm.DB, batchSize int) ([]models.RawEvent, error) {
	var rows []models.RawEvent
	err := models.WithRowLock(tx, "FOR UPDATE SKIP LOCKED").
		Where("processed = ?", false).
		Order("received_at ASC").
		Limit(batchSize).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) MarkProcessed(tx *gorm.DB, id int64, lastError string) error {
	now := time.Now().UTC()
	return tx.Model(&models.RawEvent{}).Where("id = ?", id).Updates(map[string]interface{}{
		"processed":    true,
		"processed_at": &now,
		"last_error":   truncateError(lastError),
	}).Error
}

func (s *GormStore) MarkFailedAttempt(tx *gorm.DB, id int64, attempts int, lastError string, finalize bool) error {
	updates := map[string]interface{}{
		"attempts":   attempts,
		"last_error": truncateError(lastError),
	}
	if finalize {
		now := time.Now().UTC()
		updates["processed"] = true
		updates["processed_at"] = &now
	}
	return tx.Model(&models.RawEvent{}).Where("id = ?", id).Updates(updates).Error
}

func truncateError(s string) string {
	const max = 255
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if mysqlErr, ok := err.(*mysql.MySQLError); ok {
		return mysqlErr.Number == 1062
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
