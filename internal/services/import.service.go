package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"towerdb/config"
	"towerdb/internal/database"
	"towerdb/internal/events"
	. "towerdb/internal/models"
	"towerdb/internal/repositories"
	"towerdb/internal/validation"
	"towerdb/pkg/logger"

	"gorm.io/gorm"
)

var ErrReloadInProgress = errors.New("a reload is already running")

// RowSource supplies the rows of the master tower list.
type RowSource interface {
	Source() string
	Fetch(ctx context.Context) ([]SheetRow, error)
}

// ImportService replaces the whole tower list with the master spreadsheet.
type ImportService struct {
	db          database.DB
	repos       repositories.Repository
	transaction *TransactionService
	source      RowSource
	events      events.Publisher
	skipInvalid bool
	mu          sync.Mutex
	log         logger.Logger
}

func NewImportService(
	db database.DB,
	repos repositories.Repository,
	transaction *TransactionService,
	source RowSource,
	publisher events.Publisher,
	config config.Config,
) *ImportService {
	return &ImportService{
		db:          db,
		repos:       repos,
		transaction: transaction,
		source:      source,
		events:      publisher,
		skipInvalid: config.ImportSkipInvalid,
		log:         logger.New("importService"),
	}
}

// Reload deletes every tower and contact and reinserts them from the
// spreadsheet in one transaction. The returned run reports each row that
// failed conversion or validation; it is returned even when the reload fails.
func (s *ImportService) Reload(ctx context.Context) (*ImportRun, error) {
	if !s.mu.TryLock() {
		return nil, ErrReloadInProgress
	}
	defer s.mu.Unlock()

	log := s.log.TraceFromContext(ctx).Function("Reload")
	done := log.Timer("Spreadsheet reload")
	defer done()

	run := &ImportRun{
		Source:    s.source.Source(),
		Status:    ImportRunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := s.repos.ImportRun.Create(ctx, s.db.SQL, run); err != nil {
		return nil, err
	}

	rows, err := s.source.Fetch(ctx)
	if err != nil {
		return s.finish(ctx, run, err)
	}
	run.RowsRead = len(rows)

	err = s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return s.replaceAll(ctx, tx, rows, run)
	})
	if err != nil {
		return s.finish(ctx, run, err)
	}

	if err := s.repos.Tower.ClearCache(ctx, nil); err != nil {
		log.Warn("failed to clear tower cache after reload", "error", err)
	}

	return s.finish(ctx, run, nil)
}

func (s *ImportService) replaceAll(
	ctx context.Context,
	tx *gorm.DB,
	rows []SheetRow,
	run *ImportRun,
) error {
	log := s.log.TraceFromContext(ctx).Function("replaceAll")

	// counts restart if the transaction is retried
	run.RowsSkipped, run.RowsInvalid = 0, 0
	run.TowersCreated, run.ContactsCreated = 0, 0
	run.Failures = nil

	towersDeleted, err := s.repos.Tower.DeleteAll(ctx, tx)
	if err != nil {
		return err
	}
	contactsDeleted, err := s.repos.Contact.DeleteAll(ctx, tx)
	if err != nil {
		return err
	}
	log.Info("Cleared existing data", "towers", towersDeleted, "contacts", contactsDeleted)

	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		if rowIsBlank(row) {
			run.RowsSkipped++
			continue
		}

		tower, contact, problems := TowerFromRow(row)
		storable := true

		if err := validation.CheckRequired(tower); err != nil {
			problems = append(problems, err.Error())
			storable = false
		} else {
			key := tower.Place + "\x00" + tower.Dedication
			if first, ok := seen[key]; ok {
				problems = append(problems, duplicateRowMessage(first))
				storable = false
			} else {
				seen[key] = row.Number
			}
		}

		errs := validation.Validate(tower)
		if len(errs.Unstorable()) > 0 {
			storable = false
		}
		problems = append(problems, errs.Messages()...)
		if len(problems) > 0 {
			run.RowsInvalid++
			if s.skipInvalid {
				storable = false
			}
			run.Failures = append(run.Failures, RowFailure{
				Row:        row.Number,
				Place:      tower.Place,
				Dedication: tower.Dedication,
				Stored:     storable,
				Errors:     problems,
			})
		}

		if !storable {
			run.RowsSkipped++
			continue
		}

		if contact != nil {
			if err := s.repos.Contact.Create(ctx, tx, contact); err != nil {
				return err
			}
			tower.PrimaryContactID = &contact.ID
			run.ContactsCreated++
		}

		if err := s.repos.Tower.Create(ctx, tx, tower); err != nil {
			return err
		}
		run.TowersCreated++
	}

	return nil
}

func duplicateRowMessage(first int) string {
	return fmt.Sprintf("duplicate of row %d (same place and dedication)", first)
}

func (s *ImportService) finish(ctx context.Context, run *ImportRun, reloadErr error) (*ImportRun, error) {
	log := s.log.TraceFromContext(ctx).Function("finish")

	completed := time.Now().UTC()
	run.CompletedAt = &completed
	messageType := events.IMPORT_COMPLETE

	if reloadErr != nil {
		message := reloadErr.Error()
		run.Status = ImportRunStatusFailed
		run.ErrorMessage = &message
		run.TowersCreated, run.ContactsCreated = 0, 0
		messageType = events.IMPORT_FAILED
	} else {
		run.Status = ImportRunStatusCompleted
	}

	if err := s.repos.ImportRun.Update(ctx, s.db.SQL, run); err != nil {
		log.Warn("failed to record import run result", "importRunID", run.ID, "error", err)
	}

	log.Info("Reload finished",
		"importRunID", run.ID,
		"status", run.Status,
		"rowsRead", run.RowsRead,
		"towersCreated", run.TowersCreated,
		"rowsInvalid", run.RowsInvalid,
		"rowsSkipped", run.RowsSkipped,
	)

	if s.events != nil {
		if err := s.events.Publish(events.IMPORT_CHANNEL, events.Event{
			Type: messageType,
			Data: map[string]any{
				"importRunId":   run.ID.String(),
				"towersCreated": run.TowersCreated,
				"rowsInvalid":   run.RowsInvalid,
			},
		}); err != nil {
			log.Warn("failed to publish import event", "error", err)
		}
	}

	return run, reloadErr
}

// LatestRuns returns the most recent reload reports, newest first.
func (s *ImportService) LatestRuns(ctx context.Context, limit int) ([]*ImportRun, error) {
	return s.repos.ImportRun.GetRecent(ctx, s.db.SQL, limit)
}
