package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Operation is one ledger movement on a BO account as reported by the
// operation supplier.
//
// BalanceBefore/BalanceAfter are snapshots taken at operation time and are
// the source of truth for statement balances. They are never recomputed from
// amounts; adjustment and rounding operations would drift otherwise.
type Operation struct {
	ID                int             `gorm:"primary_key;index:idx_op_acct_ts,priority:3" json:"id"`
	AccountId         int             `gorm:"index;not null;index:idx_op_acct_ts,priority:1" json:"account_id"`
	Timestamp         time.Time       `gorm:"index;not null;index:idx_op_acct_ts,priority:2" json:"timestamp"`
	Type              OperationType   `gorm:"size:100;index;not null" json:"type"`
	Service           string          `gorm:"size:255" json:"service"`
	Amount            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	BalanceBefore     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance_before"`
	BalanceAfter      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance_after"`
	Status            OperationStatus `gorm:"size:20;index;default:'VALIDATED'" json:"status"`
	ParentOperationId *int            `gorm:"index" json:"parent_operation_id"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o Operation) GetId() int {
	return o.ID
}

func (o Operation) IsRejected() bool {
	return o.Status == OperationStatusRejected
}

// ListOperationsByAccountAndRange is the operation supplier for statement
// rendering: every operation of the account inside [fromDate, toDate],
// rejected ones included (the aggregator decides what they count for).
func ListOperationsByAccountAndRange(ctx context.Context, accountId int, fromDate time.Time, toDate time.Time) ([]Operation, error) {
	db := config.GetDB()
	var operations []Operation
	err := db.WithContext(ctx).
		Where("account_id = ? AND timestamp >= ? AND timestamp < ?", accountId, fromDate, toDate.AddDate(0, 0, 1)).
		Order("timestamp ASC, id ASC").
		Find(&operations).Error
	if err != nil {
		return nil, err
	}
	return operations, nil
}

// ParentsByOperationId resolves every fee row's parent in one query so
// statement classification does not do N lookups.
func ParentsByOperationId(ctx context.Context, db *gorm.DB, operations []Operation) (map[int]*Operation, error) {
	var parentIds []int
	for _, op := range operations {
		if op.ParentOperationId != nil {
			parentIds = append(parentIds, *op.ParentOperationId)
		}
	}
	parents := make(map[int]*Operation)
	if len(parentIds) == 0 {
		return parents, nil
	}

	// Parents usually travel in the same statement window; resolve from the
	// in-memory slice first and only query for the remainder.
	byId := make(map[int]*Operation, len(operations))
	for i := range operations {
		byId[operations[i].ID] = &operations[i]
	}
	var missing []int
	for _, id := range parentIds {
		if p, ok := byId[id]; ok {
			parents[id] = p
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return parents, nil
	}

	var fetched []Operation
	err := db.WithContext(ctx).Where("id IN ?", missing).Find(&fetched).Error
	if err != nil {
		return nil, err
	}
	for i := range fetched {
		parents[fetched[i].ID] = &fetched[i]
	}
	return parents, nil
}
