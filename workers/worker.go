// Package workers runs the periodic tick loop that drains the raw event
// buffer: claim a batch under skip-lock, re-normalize each row, dispatch
// it to the matching projection, and account for retries/finalization.
package workers

import (
	"sync/atomic"
	"time"

	"github.com/jinzhu/gorm"

	"penelope-webhooks/logging"
	"penelope-webhooks/models"
	"penelope-webhooks/normalizer"
	"penelope-webhooks/projection"
	"penelope-webhooks/rawstore"
)

// Processor runs the tick loop. A single in-process instance owns the
// re-entrancy guard; separate process replicas each run their own loop
// and rely on the store's skip-lock claim to stay disjoint.
type Processor struct {
	db          *gorm.DB
	store       rawstore.Store
	log         *logging.Logger
	batchSize   int
	interval    time.Duration
	maxAttempts int
	phoneColumn string
	blockedOut  bool

	running int32
	stop    chan struct{}
	done    chan struct{}
}

func NewProcessor(db *gorm.DB, store rawstore.Store, log *logging.Logger, batchSize int, interval time.Duration, maxAttempts int, phoneColumn string, blockedAsOptOut bool) *Processor {
	return &Processor{
		db:          db,
		store:       store,
		log:         log,
		batchSize:   batchSize,
		interval:    interval,
		maxAttempts: maxAttempts,
		phoneColumn: phoneColumn,
		blockedOut:  blockedAsOptOut,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start runs the tick loop in a background goroutine until Stop is
// called. A tick that's still running when the next one fires is
// skipped rather than overlapped.
func (p *Processor) Start() {
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-p.stop:
				return
			case <-ticker.C:
				p.runTick()
			}
		}
	}()
}

// Stop requests the loop to exit and blocks until the in-flight tick (if
// any) has committed or rolled back.
func (p *Processor) Stop() {
	close(p.stop)
	<-p.done
}

func (p *Processor) runTick() {
	if !atomic.CompareAndSwapInt32(&p.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&p.running, 0)

	tx := p.db.Begin()
	if tx.Error != nil {
		p.log.Errorw("worker tick begin failed", "error", tx.Error)
		return
	}

	rows, err := p.store.LockNextBatch(tx, p.batchSize)
	if err != nil {
		tx.Rollback()
		p.log.Errorw("worker tick claim failed", "error", err)
		return
	}
	if len(rows) == 0 {
		tx.Commit()
		return
	}

	for i := range rows {
		p.processRow(tx, &rows[i])
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		p.log.Errorw("worker tick commit failed", "error", err)
	}
}

func (p *Processor) processRow(tx *gorm.DB, row *models.RawEvent) {
	outcome, projErr := p.dispatch(tx, row)

	switch outcome {
	case projection.Updated, projection.Noop:
		if projErr != nil {
			// Soft failures reach here as NotFound; an error paired with
			// Updated/Noop is a failed write and is retried.
			p.recordTransientFailure(tx, row, projErr)
			return
		}
		lastError := ""
		if projErr != nil {
			lastError = projErr.Error()
		}
		if err := p.store.MarkProcessed(tx, row.ID, lastError); err != nil {
			p.log.Errorw("mark processed failed", "raw_event_id", row.ID, "error", err)
		}
	case projection.NotFound:
		if err := p.store.MarkProcessed(tx, row.ID, projErr.Error()); err != nil {
			p.log.Errorw("mark processed failed", "raw_event_id", row.ID, "error", err)
		}
	default:
		p.recordTransientFailure(tx, row, projErr)
	}
}

func (p *Processor) recordTransientFailure(tx *gorm.DB, row *models.RawEvent, cause error) {
	attempts := row.Attempts + 1
	finalize := attempts > p.maxAttempts
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if err := p.store.MarkFailedAttempt(tx, row.ID, attempts, msg, finalize); err != nil {
		p.log.Errorw("mark failed attempt failed", "raw_event_id", row.ID, "error", err)
	}
}

// dispatch re-normalizes the payload (the stored columns are hints
// only; the payload is authoritative) and routes it to a projection.
// The three outcomes used here are Updated/Noop (terminal success),
// NotFound (terminal soft failure), or a bare error (transient, retried).
func (p *Processor) dispatch(tx *gorm.DB, row *models.RawEvent) (projection.Outcome, error) {
	var decoded interface{}
	if err := row.PayloadJSON.Decode(&decoded); err != nil {
		return projection.NotFound, projection.ErrUnrecognizedPayload
	}
	result := normalizer.Normalize(decoded)

	switch result.Kind {
	case normalizer.KindMessage:
		if result.Message == nil || result.Message.Status == "" {
			return projection.NotFound, projection.ErrUnrecognizedPayload
		}
		outcome, err := projection.ApplyMessageEvent(tx, result.Message)
		if err == projection.ErrRecipientNotFound {
			return projection.NotFound, err
		}
		if err == projection.ErrUnrecognizedPayload {
			return projection.NotFound, err
		}
		return outcome, err

	case normalizer.KindTemplate:
		integration, err := p.resolveIntegration(tx, row.AppID)
		if err != nil {
			return projection.NotFound, err
		}
		outcome, err := projection.ApplyTemplateEvent(tx, integration.ID, integration.CompanyID, result.Template)
		if err == projection.ErrTemplateNotFound {
			return projection.NotFound, err
		}
		return outcome, err

	case normalizer.KindUser:
		integration, err := p.resolveIntegration(tx, row.AppID)
		if err != nil {
			return projection.NotFound, err
		}
		outcome, err := projection.ApplyConsentEvent(tx, integration.CompanyID, p.phoneColumn, p.blockedOut, result.User)
		switch err {
		case nil:
			return outcome, nil
		case projection.ErrBlockedIgnored, projection.ErrUserNotFound, projection.ErrInvalidPhoneColumn:
			return projection.NotFound, err
		default:
			return outcome, err
		}

	default:
		return projection.NotFound, projection.ErrUnrecognizedPayload
	}
}

func (p *Processor) resolveIntegration(tx *gorm.DB, appID string) (*models.IntegrationMapping, error) {
	var integration models.IntegrationMapping
	err := tx.Where("app_id = ? AND is_active = ?", appID, true).First(&integration).Error
	if err == gorm.ErrRecordNotFound {
		return nil, projection.ErrIntegrationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &integration, nil
}
