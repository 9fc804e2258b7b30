package workflow

import (
	"testing"

	"bitbucket.org/mmdatafocus/recon_backend/models"
	"github.com/shopspring/decimal"
)

func row(total, matches, boOnly, partnerOnly, mismatches int) models.ReconciliationRow {
	return models.ReconciliationRow{
		TotalTransactions: total,
		Matches:           matches,
		BoOnly:            boOnly,
		PartnerOnly:       partnerOnly,
		Mismatches:        mismatches,
	}
}

func TestReconcileRow_TotalEqualsBucketSum(t *testing.T) {
	rows := []models.ReconciliationRow{
		row(10, 7, 1, 1, 1),
		row(999, 7, 1, 1, 1),
		row(0, 3, 2, 0, 0),
		row(5, 0, 0, 0, 0),
		row(-4, -1, -2, 3, 1),
	}
	for i, in := range rows {
		out := ReconcileRowWithDetailSource(in, true)
		sum := out.Matches + out.BoOnly + out.PartnerOnly + out.Mismatches
		if sum > 0 && out.TotalTransactions != sum {
			t.Errorf("row %d: total %d, bucket sum %d", i, out.TotalTransactions, sum)
		}
	}
}

func TestReconcileRow_Idempotent(t *testing.T) {
	rows := []models.ReconciliationRow{
		row(10, 7, 1, 1, 1),
		row(206, 197, 4, 5, 0),
		row(12, 0, 2, 5, 0),
		row(0, 0, 0, 0, 0),
		row(8, 0, 0, 3, 0),
	}
	for i, in := range rows {
		once := ReconcileRowWithDetailSource(in, true)
		twice := ReconcileRowWithDetailSource(once, true)
		same := once.TotalTransactions == twice.TotalTransactions &&
			once.Matches == twice.Matches &&
			once.BoOnly == twice.BoOnly &&
			once.PartnerOnly == twice.PartnerOnly &&
			once.Mismatches == twice.Mismatches &&
			once.MatchRate.Equal(twice.MatchRate) &&
			once.Status == twice.Status &&
			once.Comment == twice.Comment &&
			once.Treatment == twice.Treatment
		if !same {
			t.Errorf("row %d: not idempotent\nonce:  %+v\ntwice: %+v", i, once, twice)
		}
	}
}

func TestReconcileRow_ZeroDiscrepancyIsFullMatch(t *testing.T) {
	out := ReconcileRowWithDetailSource(row(42, 0, 0, 0, 0), true)

	if out.Matches != 42 {
		t.Errorf("expected matches 42, got %d", out.Matches)
	}
	if !out.MatchRate.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected match rate exactly 100, got %s", out.MatchRate)
	}
	if out.Status != models.ReconciliationStatusOk {
		t.Errorf("expected status OK, got %s", out.Status)
	}
	if out.Comment != CommentNoDiscrepancies {
		t.Errorf("unexpected comment %q", out.Comment)
	}
}

func TestReconcileRow_NormalizesGarbageCounters(t *testing.T) {
	out := ReconcileRowWithDetailSource(row(-10, -3, -1, 4, -2), true)

	if out.BoOnly != 0 || out.Mismatches != 0 {
		t.Errorf("negative buckets should clamp to zero, got %+v", out)
	}
	if out.TotalTransactions != 4 || out.PartnerOnly != 4 {
		t.Errorf("expected total 4 from surviving bucket, got %+v", out)
	}
}

func TestReconcileRow_MatchRate(t *testing.T) {
	// Both sides in dispute: the partner count overlaps the BO count, so
	// only 5 distinct transactions are broken out of 206.
	out := ReconcileRowWithDetailSource(row(206, 197, 4, 5, 0), true)

	expected := decimal.NewFromInt(201).
		Div(decimal.NewFromInt(206)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	if !out.MatchRate.Equal(expected) {
		t.Errorf("expected match rate %s, got %s", expected, out.MatchRate)
	}
	if out.Matches != 197 {
		t.Errorf("expected matches untouched at 197, got %d", out.Matches)
	}
}

func TestReconcileRow_StatusTable(t *testing.T) {
	tests := []struct {
		name         string
		in           models.ReconciliationRow
		detailSource bool
		expected     models.ReconciliationStatus
	}{
		{"no reporting at all", row(0, 0, 0, 0, 0), true, models.ReconciliationStatusReportingIndisponible},
		{"fully matched", row(9, 9, 0, 0, 0), true, models.ReconciliationStatusOk},
		{"bo only no matches", row(3, 0, 3, 0, 0), true, models.ReconciliationStatusReportingIncomplet},
		{"partner only no matches", row(3, 0, 0, 3, 0), true, models.ReconciliationStatusReportingIncomplet},
		{"both sides no matches", row(5, 0, 2, 3, 0), true, models.ReconciliationStatusEnCours},
		{"mixed with matches", row(10, 6, 2, 2, 0), true, models.ReconciliationStatusEnCours},
		{"mismatches only", row(4, 0, 0, 0, 4), true, models.ReconciliationStatusEnCours},
		{"no detail source falls back to in progress", row(3, 0, 3, 0, 0), false, models.ReconciliationStatusEnCours},
		{"no detail source still detects clean rows", row(9, 9, 0, 0, 0), false, models.ReconciliationStatusOk},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out := ReconcileRowWithDetailSource(test.in, test.detailSource)
			if out.Status != test.expected {
				t.Errorf("expected %s, got %s", test.expected, out.Status)
			}
		})
	}
}

func TestReconcileRow_SettledStatusPreserved(t *testing.T) {
	in := row(10, 6, 2, 2, 0)
	in.Status = models.ReconciliationStatusOk
	in.Comment = "written off after ticket 812"

	out := ReconcileRowWithDetailSource(in, true)

	if out.Status != models.ReconciliationStatusOk {
		t.Errorf("settled status must survive, got %s", out.Status)
	}
	if out.Comment != "written off after ticket 812" {
		t.Errorf("settled comment must survive, got %q", out.Comment)
	}
}

func TestReconcileRow_SettledCleanCommentHeals(t *testing.T) {
	in := row(10, 10, 0, 0, 0)
	in.Treatment = models.TreatmentLevelTermine
	in.Comment = "3 matches • 7 BO discrepancy(ies)"

	out := ReconcileRowWithDetailSource(in, true)

	if out.Comment != CommentNoDiscrepancies {
		t.Errorf("stale comment on a clean settled row should heal, got %q", out.Comment)
	}
}

func TestReconcileRow_CommentListsNonZeroBuckets(t *testing.T) {
	tests := []struct {
		name     string
		in       models.ReconciliationRow
		expected string
	}{
		{"all buckets", row(10, 4, 2, 3, 1), "4 matches • 2 BO discrepancy(ies) • 3 partner discrepancy(ies) • 1 mismatch(es)"},
		{"bo only", row(10, 8, 2, 0, 0), "8 matches • 2 BO discrepancy(ies)"},
		{"mismatches only", row(10, 9, 0, 0, 1), "9 matches • 1 mismatch(es)"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out := ReconcileRowWithDetailSource(test.in, true)
			if out.Comment != test.expected {
				t.Errorf("expected %q, got %q", test.expected, out.Comment)
			}
		})
	}
}

func TestReconcileRow_TreatmentDefaults(t *testing.T) {
	dirty := ReconcileRowWithDetailSource(row(10, 6, 2, 2, 0), true)
	if dirty.Treatment != models.TreatmentLevelSupport {
		t.Errorf("expected support level on discrepancies, got %s", dirty.Treatment)
	}

	clean := ReconcileRowWithDetailSource(row(10, 10, 0, 0, 0), true)
	if clean.Treatment != models.TreatmentLevelGroup {
		t.Errorf("expected group level on clean rows, got %s", clean.Treatment)
	}

	assigned := row(10, 6, 2, 2, 0)
	assigned.Treatment = models.TreatmentLevelTermine
	out := ReconcileRowWithDetailSource(assigned, true)
	if out.Treatment != models.TreatmentLevelTermine {
		t.Errorf("assigned treatment must never be overwritten, got %s", out.Treatment)
	}
}

func TestApplyRowStatus_OkWritesOffDiscrepancies(t *testing.T) {
	in := row(206, 197, 4, 5, 0)
	in.Status = models.ReconciliationStatusEnCours
	in.Comment = "197 matches • 4 BO discrepancy(ies) • 5 partner discrepancy(ies)"

	out := ApplyRowStatus(in, models.ReconciliationStatusOk)

	if out.Status != models.ReconciliationStatusOk {
		t.Fatalf("expected status OK, got %s", out.Status)
	}
	if out.Matches != 206 || out.TotalTransactions != 206 {
		t.Errorf("expected full write-off to 206, got matches %d total %d", out.Matches, out.TotalTransactions)
	}
	if out.BoOnly != 0 || out.PartnerOnly != 0 || out.Mismatches != 0 {
		t.Errorf("expected buckets zeroed, got %+v", out)
	}
	if !out.MatchRate.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected match rate 100, got %s", out.MatchRate)
	}
	if out.Comment != in.Comment {
		t.Errorf("pre-transition comment must be kept verbatim, got %q", out.Comment)
	}
}

func TestApplyRowStatus_ExplicitStatusOutranksDerivation(t *testing.T) {
	in := row(10, 10, 0, 0, 0)

	out := ApplyRowStatus(in, models.ReconciliationStatusNok)

	if out.Status != models.ReconciliationStatusNok {
		t.Errorf("explicit NOK must survive reconciliation, got %s", out.Status)
	}
}

func TestApplyRowStatus_OkOnSettledRowKeepsCounters(t *testing.T) {
	in := row(10, 6, 2, 2, 0)
	in.Treatment = models.TreatmentLevelTermine

	out := ApplyRowStatus(in, models.ReconciliationStatusOk)

	if out.BoOnly != 2 || out.PartnerOnly != 2 {
		t.Errorf("settled row must not be written off, got %+v", out)
	}
	if out.Status != models.ReconciliationStatusOk {
		t.Errorf("expected status OK, got %s", out.Status)
	}
}
