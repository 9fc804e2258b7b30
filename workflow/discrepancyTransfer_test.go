package workflow

import (
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/recon_backend/models"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
)

func TestTransferRowDiscrepancy_MovesCountIntoMatches(t *testing.T) {
	in := row(206, 197, 4, 5, 0)

	out, err := TransferRowDiscrepancy(in, models.DiscrepancyBucketBoOnly, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.BoOnly != 1 {
		t.Errorf("expected boOnly 1, got %d", out.BoOnly)
	}
	if out.Matches != 200 {
		t.Errorf("expected matches 200, got %d", out.Matches)
	}
	if out.TotalTransactions != 206 {
		t.Errorf("total must not move, got %d", out.TotalTransactions)
	}
}

func TestTransferRowDiscrepancy_PartnerBucket(t *testing.T) {
	in := row(206, 197, 4, 5, 0)

	out, err := TransferRowDiscrepancy(in, models.DiscrepancyBucketPartnerOnly, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.PartnerOnly != 0 {
		t.Errorf("expected partnerOnly drained, got %d", out.PartnerOnly)
	}
	if out.Matches != 202 {
		t.Errorf("expected matches 202, got %d", out.Matches)
	}
}

func TestTransferRowDiscrepancy_Errors(t *testing.T) {
	locked := row(10, 6, 2, 2, 0)
	locked.Status = models.ReconciliationStatusOk
	locked.Treatment = models.TreatmentLevelTermine

	tests := []struct {
		name     string
		in       models.ReconciliationRow
		bucket   models.DiscrepancyBucket
		amount   int
		expected error
	}{
		{"zero amount", row(10, 6, 2, 2, 0), models.DiscrepancyBucketBoOnly, 0, utils.ErrorInvalidAmount},
		{"negative amount", row(10, 6, 2, 2, 0), models.DiscrepancyBucketBoOnly, -3, utils.ErrorInvalidAmount},
		{"exceeds available", row(206, 197, 4, 5, 0), models.DiscrepancyBucketBoOnly, 5, utils.ErrorAmountExceedsAvailable},
		{"unknown bucket", row(10, 6, 2, 2, 0), models.DiscrepancyBucket("SOMEWHERE"), 1, utils.ErrorInvalidBucket},
		{"locked row", locked, models.DiscrepancyBucketBoOnly, 1, utils.ErrorRowLocked},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := TransferRowDiscrepancy(test.in, test.bucket, test.amount)
			if !errors.Is(err, test.expected) {
				t.Errorf("expected %v, got %v", test.expected, err)
			}
		})
	}
}

func TestTransferRowDiscrepancy_DrainedRowBecomesClean(t *testing.T) {
	in := row(10, 8, 2, 0, 0)

	out, err := TransferRowDiscrepancy(in, models.DiscrepancyBucketBoOnly, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Matches != 10 || out.BoOnly != 0 {
		t.Errorf("expected full match after drain, got %+v", out)
	}
	if out.Status != models.ReconciliationStatusOk {
		t.Errorf("expected derived status OK, got %s", out.Status)
	}
	if out.Comment != CommentNoDiscrepancies {
		t.Errorf("expected clean comment, got %q", out.Comment)
	}
}
