package workflow

import (
	"context"
	"sync"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BulkFailure pairs a row with the error that kept it from persisting.
type BulkFailure struct {
	Row models.ReconciliationRow `json:"row"`
	Err error                    `json:"-"`
}

// BulkOutcome is the aggregated result of a bulk status transition.
// Locked rows land in Skipped, persistence errors in Failed; neither aborts
// the rest of the batch.
type BulkOutcome struct {
	Applied []models.ReconciliationRow `json:"applied"`
	Skipped []models.ReconciliationRow `json:"skipped"`
	Failed  []BulkFailure              `json:"failed"`
}

// RowSaver persists one reconciled row.
type RowSaver func(ctx context.Context, row *models.ReconciliationRow) error

// ApplyStatusToRows applies one status to every unlocked row, reconciles and
// persists each through the given db handle.
func ApplyStatusToRows(ctx context.Context, db *gorm.DB, logger *logrus.Logger, rows []models.ReconciliationRow, status models.ReconciliationStatus) BulkOutcome {
	return ApplyStatusToRowsWith(ctx, logger, rows, status, func(ctx context.Context, row *models.ReconciliationRow) error {
		return models.UpdateReconciliationRow(ctx, db, row)
	})
}

// ApplyStatusToRowsWith is ApplyStatusToRows with the persistence step
// supplied by the caller. Rows fan out concurrently; each row is reconciled
// on its own so there is no shared state between them, and one row's
// persistence failure never blocks its siblings. The batch cannot be
// cancelled midway; callers only observe the final outcome.
func ApplyStatusToRowsWith(ctx context.Context, logger *logrus.Logger, rows []models.ReconciliationRow, status models.ReconciliationStatus, save RowSaver) BulkOutcome {
	var outcome BulkOutcome
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, row := range rows {
		if row.IsLocked() {
			outcome.Skipped = append(outcome.Skipped, row)
			continue
		}

		wg.Add(1)
		go func(row models.ReconciliationRow) {
			defer wg.Done()

			lock, err := AcquireRowEditLock(ctx, row.ID)
			if err != nil {
				config.LogError(ctx, logger, "bulkTransition.go", "ApplyStatusToRowsWith", "AcquireRowEditLock", row.ID, err)
				mu.Lock()
				outcome.Failed = append(outcome.Failed, BulkFailure{Row: row, Err: err})
				mu.Unlock()
				return
			}
			defer ReleaseRowEditLock(ctx, lock)

			updated := ApplyRowStatus(row, status)
			if err := save(ctx, &updated); err != nil {
				config.LogError(ctx, logger, "bulkTransition.go", "ApplyStatusToRowsWith", "save", updated.ID, err)
				mu.Lock()
				outcome.Failed = append(outcome.Failed, BulkFailure{Row: row, Err: err})
				mu.Unlock()
				return
			}

			mu.Lock()
			outcome.Applied = append(outcome.Applied, updated)
			mu.Unlock()
		}(row)
	}

	wg.Wait()
	return outcome
}
