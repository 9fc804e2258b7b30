package models

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
)

// FilterCriteria is an immutable filter over reconciliation rows. Zero values
// mean "no constraint". It replaces per-screen flag soup: the HTTP layer
// builds one criteria value and both the DB listing and the in-memory filter
// consume it.
type FilterCriteria struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Agency     string
	Service    string
	Country    string
	Statuses   []ReconciliationStatus
	Treatments []TreatmentLevel
	// OnlyWithDiscrepancies keeps rows where at least one discrepancy bucket
	// is non-zero.
	OnlyWithDiscrepancies bool
}

// FilterRows applies criteria to in-memory rows. Pure; input order is kept.
func FilterRows(rows []ReconciliationRow, criteria FilterCriteria) []ReconciliationRow {
	var out []ReconciliationRow
	for _, row := range rows {
		if !matchesCriteria(row, criteria) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchesCriteria(row ReconciliationRow, criteria FilterCriteria) bool {
	if criteria.FromDate != nil && row.ReconciliationDate.Before(utils.DateOnly(*criteria.FromDate)) {
		return false
	}
	if criteria.ToDate != nil && row.ReconciliationDate.After(utils.DateOnly(*criteria.ToDate)) {
		return false
	}
	if criteria.Agency != "" && !strings.EqualFold(row.Agency, criteria.Agency) {
		return false
	}
	if criteria.Service != "" && !strings.EqualFold(row.Service, criteria.Service) {
		return false
	}
	if criteria.Country != "" && !strings.EqualFold(row.Country, criteria.Country) {
		return false
	}
	if len(criteria.Statuses) > 0 && !containsStatus(criteria.Statuses, row.Status) {
		return false
	}
	if len(criteria.Treatments) > 0 && !containsTreatment(criteria.Treatments, row.Treatment) {
		return false
	}
	if criteria.OnlyWithDiscrepancies && row.BoOnly == 0 && row.PartnerOnly == 0 && row.Mismatches == 0 {
		return false
	}
	return true
}

func containsStatus(statuses []ReconciliationStatus, s ReconciliationStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func containsTreatment(treatments []TreatmentLevel, t TreatmentLevel) bool {
	for _, candidate := range treatments {
		if candidate == t {
			return true
		}
	}
	return false
}

// ListReconciliationRows pushes the same criteria down to MySQL for the
// listing endpoints. FilterRows stays the reference semantics; this must
// match it. The plain `=` on agency/service/country matches FilterRows'
// case-insensitive compare only because the columns use MySQL's default
// accent/case-insensitive collation (utf8mb4 *_ci); a case-sensitive
// collation on those columns would make the two paths diverge.
func ListReconciliationRows(ctx context.Context, criteria FilterCriteria) ([]ReconciliationRow, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Model(&ReconciliationRow{})

	if criteria.FromDate != nil {
		query = query.Where("reconciliation_date >= ?", utils.DateOnly(*criteria.FromDate))
	}
	if criteria.ToDate != nil {
		query = query.Where("reconciliation_date <= ?", utils.DateOnly(*criteria.ToDate))
	}
	if criteria.Agency != "" {
		query = query.Where("agency = ?", criteria.Agency)
	}
	if criteria.Service != "" {
		query = query.Where("service = ?", criteria.Service)
	}
	if criteria.Country != "" {
		query = query.Where("country = ?", criteria.Country)
	}
	if len(criteria.Statuses) > 0 {
		query = query.Where("status IN ?", criteria.Statuses)
	}
	if len(criteria.Treatments) > 0 {
		query = query.Where("treatment IN ?", criteria.Treatments)
	}
	if criteria.OnlyWithDiscrepancies {
		query = query.Where("bo_only > 0 OR partner_only > 0 OR mismatches > 0")
	}

	var rows []ReconciliationRow
	err := query.Order("reconciliation_date ASC, agency ASC, service ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
