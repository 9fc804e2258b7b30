package workflow

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/recon_backend/models"
	"github.com/sirupsen/logrus"
)

func TestApplyStatusToRows_SkipsLockedRows(t *testing.T) {
	first := row(10, 6, 2, 2, 0)
	first.ID = 1
	first.Status = models.ReconciliationStatusOk
	first.Treatment = models.TreatmentLevelTermine
	first.Comment = "closed out last month"

	second := row(5, 5, 0, 0, 0)
	second.ID = 2
	second.Status = models.ReconciliationStatusOk
	second.Treatment = models.TreatmentLevelTermine

	outcome := ApplyStatusToRows(context.Background(), nil, logrus.New(), []models.ReconciliationRow{first, second}, models.ReconciliationStatusNok)

	if len(outcome.Applied) != 0 || len(outcome.Failed) != 0 {
		t.Fatalf("locked rows must not be applied: %+v", outcome)
	}
	if len(outcome.Skipped) != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", len(outcome.Skipped))
	}
	if outcome.Skipped[0].ID != 1 || outcome.Skipped[1].ID != 2 {
		t.Errorf("skipped rows should keep input order, got %+v", outcome.Skipped)
	}
	if outcome.Skipped[0].Status != models.ReconciliationStatusOk {
		t.Errorf("skipped row must be returned untouched, got %s", outcome.Skipped[0].Status)
	}
	if outcome.Skipped[0].Comment != "closed out last month" {
		t.Errorf("skipped row comment must be untouched, got %q", outcome.Skipped[0].Comment)
	}
}

func TestApplyStatusToRows_PersistenceFailureDoesNotBlockSiblings(t *testing.T) {
	healthy := row(10, 6, 2, 2, 0)
	healthy.ID = 1
	broken := row(5, 0, 5, 0, 0)
	broken.ID = 2
	locked := row(4, 4, 0, 0, 0)
	locked.ID = 3
	locked.Status = models.ReconciliationStatusOk
	locked.Treatment = models.TreatmentLevelTermine

	saveErr := errors.New("driver: bad connection")
	save := func(ctx context.Context, r *models.ReconciliationRow) error {
		if r.ID == 2 {
			return saveErr
		}
		return nil
	}

	outcome := ApplyStatusToRowsWith(context.Background(), logrus.New(), []models.ReconciliationRow{healthy, broken, locked}, models.ReconciliationStatusOk, save)

	if len(outcome.Applied) != 1 || outcome.Applied[0].ID != 1 {
		t.Fatalf("expected row 1 applied, got %+v", outcome.Applied)
	}
	if outcome.Applied[0].Status != models.ReconciliationStatusOk || outcome.Applied[0].BoOnly != 0 {
		t.Errorf("applied row must be reconciled with the new status, got %+v", outcome.Applied[0])
	}
	if len(outcome.Failed) != 1 || outcome.Failed[0].Row.ID != 2 {
		t.Fatalf("expected row 2 failed, got %+v", outcome.Failed)
	}
	if !errors.Is(outcome.Failed[0].Err, saveErr) {
		t.Errorf("expected save error surfaced per-row, got %v", outcome.Failed[0].Err)
	}
	if len(outcome.Skipped) != 1 || outcome.Skipped[0].ID != 3 {
		t.Fatalf("expected row 3 skipped, got %+v", outcome.Skipped)
	}
}

func TestApplyStatusToRows_EmptyBatch(t *testing.T) {
	outcome := ApplyStatusToRows(context.Background(), nil, logrus.New(), nil, models.ReconciliationStatusOk)

	if len(outcome.Applied) != 0 || len(outcome.Skipped) != 0 || len(outcome.Failed) != 0 {
		t.Errorf("empty batch should yield empty outcome, got %+v", outcome)
	}
}
