package workflow

import (
	"fmt"
	"strings"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/models"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"github.com/shopspring/decimal"
)

const CommentNoDiscrepancies = "no discrepancies found"

// ReconcileRow restores every derived field of a reconciliation row from its
// four discrepancy counters. It is total, pure and idempotent: garbage
// numeric input normalizes to zero and the function never fails. Every call
// site that touches counters must funnel through here; match-rate math lives
// nowhere else.
//
// Invariant: after reconciling, totalTransactions equals
// matches+boOnly+partnerOnly+mismatches whenever that sum is positive. The
// four buckets are ground truth; the total yields to them, never the
// reverse.
func ReconcileRow(row models.ReconciliationRow) models.ReconciliationRow {
	return ReconcileRowWithDetailSource(row, config.DetailSourceAvailable())
}

// ReconcileRowWithDetailSource is ReconcileRow with the detailed-source
// availability pinned by the caller (tests, backfills).
func ReconcileRowWithDetailSource(row models.ReconciliationRow, detailSourceAvailable bool) models.ReconciliationRow {
	settled := row.IsSettled()

	row.TotalTransactions = utils.NormalizeCount(row.TotalTransactions)
	row.Matches = utils.NormalizeCount(row.Matches)
	row.BoOnly = utils.NormalizeCount(row.BoOnly)
	row.PartnerOnly = utils.NormalizeCount(row.PartnerOnly)
	row.Mismatches = utils.NormalizeCount(row.Mismatches)

	calculatedTotal := row.Matches + row.BoOnly + row.PartnerOnly + row.Mismatches
	if calculatedTotal > 0 {
		row.TotalTransactions = calculatedTotal
	}

	// Back-derive matches from the bucket sum. When every bucket is empty a
	// positive total means everything matched.
	bucketDiscrepancy := row.BoOnly + row.PartnerOnly + row.Mismatches
	if row.TotalTransactions > 0 {
		if bucketDiscrepancy > 0 {
			row.Matches = row.TotalTransactions - bucketDiscrepancy
			if row.Matches < 0 {
				row.Matches = 0
			}
		} else {
			row.Matches = row.TotalTransactions
		}
	} else {
		row.Matches = 0
	}

	totalDiscrepancy := effectiveDiscrepancy(row)
	row.MatchRate = matchRate(row.TotalTransactions, totalDiscrepancy)

	if !settled {
		row.Status = deriveStatus(row, detailSourceAvailable)
	}

	// A settled row keeps its comment, unless the row is provably clean and
	// the comment still describes discrepancies; that stale narrative heals.
	clean := totalDiscrepancy == 0 || row.Matches == row.TotalTransactions
	if !settled || clean {
		row.Comment = buildComment(row, clean)
	}

	if row.Treatment == "" {
		if bucketDiscrepancy > 0 {
			row.Treatment = models.TreatmentLevelSupport
		} else {
			row.Treatment = models.TreatmentLevelGroup
		}
	}

	return row
}

// effectiveDiscrepancy counts distinct transactions in dispute. When both
// sides report discrepancies they overlap up to the smaller count, so only
// the partner excess adds on top of the BO side; counting both in full would
// double-count the same missing transactions.
func effectiveDiscrepancy(row models.ReconciliationRow) int {
	effectivePartnerOnly := row.PartnerOnly
	if row.BoOnly > 0 && row.PartnerOnly > 0 && row.PartnerOnly > row.BoOnly {
		effectivePartnerOnly = row.PartnerOnly - row.BoOnly
	}
	return row.BoOnly + effectivePartnerOnly + row.Mismatches
}

// matchRate forces an exact 100 whenever nothing is in dispute; deriving it
// by division would leak rounding noise into a value operators filter on.
func matchRate(total int, totalDiscrepancy int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	if totalDiscrepancy == 0 {
		return decimal.NewFromInt(100)
	}
	matched := total - totalDiscrepancy
	if matched < 0 {
		matched = 0
	}
	return decimal.NewFromInt(int64(matched)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// deriveStatus is the workflow status decision table, evaluated top to
// bottom, first match wins. NOK is never derived; it only enters a row by
// explicit operator choice.
func deriveStatus(row models.ReconciliationRow, detailSourceAvailable bool) models.ReconciliationStatus {
	if row.TotalTransactions == 0 {
		return models.ReconciliationStatusReportingIndisponible
	}
	if row.BoOnly == 0 && row.PartnerOnly == 0 && row.Mismatches == 0 && row.Matches == row.TotalTransactions {
		return models.ReconciliationStatusOk
	}
	if !detailSourceAvailable {
		return models.ReconciliationStatusEnCours
	}
	if row.Matches == 0 && (row.BoOnly > 0) != (row.PartnerOnly > 0) {
		return models.ReconciliationStatusReportingIncomplet
	}
	return models.ReconciliationStatusEnCours
}

// buildComment regenerates the row summary, listing only non-zero buckets
// after the match count.
func buildComment(row models.ReconciliationRow, clean bool) string {
	if clean {
		return CommentNoDiscrepancies
	}
	parts := []string{fmt.Sprintf("%d matches", row.Matches)}
	if row.BoOnly > 0 {
		parts = append(parts, fmt.Sprintf("%d BO discrepancy(ies)", row.BoOnly))
	}
	if row.PartnerOnly > 0 {
		parts = append(parts, fmt.Sprintf("%d partner discrepancy(ies)", row.PartnerOnly))
	}
	if row.Mismatches > 0 {
		parts = append(parts, fmt.Sprintf("%d mismatch(es)", row.Mismatches))
	}
	return strings.Join(parts, " • ")
}

// ApplyRowStatus applies an explicit operator status change and re-derives
// the row.
//
// Marking an unsettled row OK means "accept as fully matched": remaining
// discrepancies are written off into matches. The pre-transition comment is
// kept verbatim; the operator's narrative of what was wrong stays on record
// after the write-off.
func ApplyRowStatus(row models.ReconciliationRow, status models.ReconciliationStatus) models.ReconciliationRow {
	if status == models.ReconciliationStatusOk && !row.IsSettled() {
		preservedComment := row.Comment
		row.Matches = row.TotalTransactions
		row.BoOnly = 0
		row.PartnerOnly = 0
		row.Mismatches = 0
		row.Status = status
		row = ReconcileRow(row)
		row.Comment = preservedComment
		return row
	}

	row.Status = status
	row = ReconcileRow(row)
	// The engine derives status for unsettled rows; an explicit operator
	// choice outranks the derivation.
	row.Status = status
	return row
}
