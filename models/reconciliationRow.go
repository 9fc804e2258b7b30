package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReconciliationRow is one (date, agency, service, country) aggregate under
// reconciliation review. The four counters come from the upstream matching
// engine; everything derived (total, match rate, status, comment) is owned by
// workflow.ReconcileRow and must not be recomputed anywhere else.
type ReconciliationRow struct {
	ID                 int                  `gorm:"primary_key" json:"id"`
	ReconciliationDate time.Time            `gorm:"index;not null;index:idx_rr_date_agency,priority:1" json:"reconciliation_date"`
	Agency             string               `gorm:"size:255;index;index:idx_rr_date_agency,priority:2" json:"agency"`
	Service            string               `gorm:"size:255;index" json:"service"`
	Country            string               `gorm:"size:10;index" json:"country"`
	TotalTransactions  int                  `gorm:"not null;default:0" json:"total_transactions"`
	Matches            int                  `gorm:"not null;default:0" json:"matches"`
	BoOnly             int                  `gorm:"not null;default:0" json:"bo_only"`
	PartnerOnly        int                  `gorm:"not null;default:0" json:"partner_only"`
	Mismatches         int                  `gorm:"not null;default:0" json:"mismatches"`
	MatchRate          decimal.Decimal      `gorm:"type:decimal(7,2);default:0" json:"match_rate"`
	Status             ReconciliationStatus `gorm:"size:30;index;default:'EN_COURS'" json:"status"`
	Comment            string               `gorm:"type:text" json:"comment"`
	Treatment          TreatmentLevel       `gorm:"size:30;index" json:"treatment"`
	TicketId           *string              `gorm:"size:64;index" json:"ticket_id"`
	CreatedAt          time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r ReconciliationRow) GetId() int {
	return r.ID
}

// IsSettled reports whether automatic comment/status regeneration is
// suppressed for this row.
func (r ReconciliationRow) IsSettled() bool {
	return r.Status == ReconciliationStatusOk || r.Treatment == TreatmentLevelTermine
}

// IsLocked reports whether the row is fully immutable: no edit, no bulk
// transition, no discrepancy transfer.
func (r ReconciliationRow) IsLocked() bool {
	return r.Status == ReconciliationStatusOk && r.Treatment == TreatmentLevelTermine
}

func GetReconciliationRowById(ctx context.Context, db *gorm.DB, id int) (*ReconciliationRow, error) {
	var row ReconciliationRow
	err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &row, nil
}

func CreateReconciliationRow(ctx context.Context, db *gorm.DB, row *ReconciliationRow) error {
	return db.WithContext(ctx).Create(row).Error
}

func UpdateReconciliationRow(ctx context.Context, db *gorm.DB, row *ReconciliationRow) error {
	return db.WithContext(ctx).Save(row).Error
}

func DeleteReconciliationRow(ctx context.Context, db *gorm.DB, id int) error {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&ReconciliationRow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

func ListReconciliationRowsByIds(ctx context.Context, db *gorm.DB, ids []int) ([]ReconciliationRow, error) {
	var rows []ReconciliationRow
	err := db.WithContext(ctx).Where("id IN ?", utils.UniqueSlice(ids)).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
