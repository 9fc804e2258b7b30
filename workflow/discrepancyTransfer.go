package workflow

import (
	"context"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/models"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TransferRowDiscrepancy moves amount transactions from one discrepancy
// bucket into matches and re-reconciles the row. Pure; validation errors
// leave the row untouched and nothing is ever partially applied.
func TransferRowDiscrepancy(row models.ReconciliationRow, bucket models.DiscrepancyBucket, amount int) (models.ReconciliationRow, error) {
	if amount <= 0 {
		return row, utils.ErrorInvalidAmount
	}
	if row.IsLocked() {
		return row, utils.ErrorRowLocked
	}

	switch bucket {
	case models.DiscrepancyBucketBoOnly:
		if amount > row.BoOnly {
			return row, utils.ErrorAmountExceedsAvailable
		}
		row.BoOnly -= amount
	case models.DiscrepancyBucketPartnerOnly:
		if amount > row.PartnerOnly {
			return row, utils.ErrorAmountExceedsAvailable
		}
		row.PartnerOnly -= amount
	default:
		return row, utils.ErrorInvalidBucket
	}
	row.Matches += amount

	return ReconcileRow(row), nil
}

// TransferDiscrepancy applies TransferRowDiscrepancy and persists the
// result, typically after an operator has manually matched records the
// engine could not.
func TransferDiscrepancy(ctx context.Context, db *gorm.DB, logger *logrus.Logger, row models.ReconciliationRow, bucket models.DiscrepancyBucket, amount int) (*models.ReconciliationRow, error) {
	row, err := TransferRowDiscrepancy(row, bucket, amount)
	if err != nil {
		return nil, err
	}

	lock, err := AcquireRowEditLock(ctx, row.ID)
	if err != nil {
		config.LogError(ctx, logger, "discrepancyTransfer.go", "TransferDiscrepancy", "AcquireRowEditLock", row.ID, err)
		return nil, err
	}
	defer ReleaseRowEditLock(ctx, lock)

	if err := models.UpdateReconciliationRow(ctx, db, &row); err != nil {
		config.LogError(ctx, logger, "discrepancyTransfer.go", "TransferDiscrepancy", "UpdateReconciliationRow", row.ID, err)
		return nil, err
	}
	return &row, nil
}
