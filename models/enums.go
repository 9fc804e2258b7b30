package models

import (
	"encoding/json"
	"errors"
	"strings"
)

type OperationType string

const (
	OperationTypeTotalCashin         OperationType = "TOTAL_CASHIN"
	OperationTypeTotalPaiement       OperationType = "TOTAL_PAIEMENT"
	OperationTypeApproClient         OperationType = "APPRO_CLIENT"
	OperationTypeApproFournisseur    OperationType = "APPRO_FOURNISSEUR"
	OperationTypeCompenseClient      OperationType = "COMPENSE_CLIENT"
	OperationTypeCompenseFournisseur OperationType = "COMPENSE_FOURNISSEUR"
	OperationTypeAjustement          OperationType = "AJUSTEMENT"
	OperationTypeNivellement         OperationType = "NIVELLEMENT"
	OperationTypeRegularisationSolde OperationType = "REGULARISATION_SOLDE"
	OperationTypeFraisTransaction    OperationType = "FRAIS_TRANSACTION"
	OperationTypeTransactionCree     OperationType = "TRANSACTION_CREE"
	OperationTypeBo                  OperationType = "BO"
	OperationTypePartenaire          OperationType = "PARTENAIRE"
)

// CancellationPrefix marks operations that undo an earlier operation's ledger
// effect, e.g. ANNULATION_APPRO_CLIENT.
const CancellationPrefix = "ANNULATION_"

func (t OperationType) IsCancellation() bool {
	return strings.HasPrefix(string(t), CancellationPrefix)
}

// CancelledType returns the type a cancellation operation refers to.
func (t OperationType) CancelledType() (OperationType, bool) {
	if !t.IsCancellation() {
		return "", false
	}
	return OperationType(strings.TrimPrefix(string(t), CancellationPrefix)), true
}

type OperationStatus string

const (
	OperationStatusValidated OperationStatus = "VALIDATED"
	OperationStatusRejected  OperationStatus = "REJECTED"
)

// EntryDirection is the display-side debit/credit label of an operation.
// It never feeds balance math; balances come from the operation snapshots.
type EntryDirection string

const (
	EntryDirectionDebit  EntryDirection = "DEBIT"
	EntryDirectionCredit EntryDirection = "CREDIT"
)

func (d EntryDirection) Invert() EntryDirection {
	if d == EntryDirectionDebit {
		return EntryDirectionCredit
	}
	return EntryDirectionDebit
}

type ReconciliationStatus string

const (
	ReconciliationStatusOk                    ReconciliationStatus = "OK"
	ReconciliationStatusNok                   ReconciliationStatus = "NOK"
	ReconciliationStatusReportingIncomplet    ReconciliationStatus = "REPORTING_INCOMPLET"
	ReconciliationStatusReportingIndisponible ReconciliationStatus = "REPORTING_INDISPONIBLE"
	ReconciliationStatusEnCours               ReconciliationStatus = "EN_COURS"
)

func (s *ReconciliationStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("reconciliation status must be string")
	}
	switch ReconciliationStatus(str) {
	case ReconciliationStatusOk,
		ReconciliationStatusNok,
		ReconciliationStatusReportingIncomplet,
		ReconciliationStatusReportingIndisponible,
		ReconciliationStatusEnCours:
		*s = ReconciliationStatus(str)
	default:
		return errors.New("invalid reconciliation status")
	}
	return nil
}

type TreatmentLevel string

const (
	TreatmentLevelSupport TreatmentLevel = "NIVEAU_SUPPORT"
	TreatmentLevelGroup   TreatmentLevel = "NIVEAU_GROUP"
	TreatmentLevelTermine TreatmentLevel = "TERMINE"
)

func (t *TreatmentLevel) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("treatment level must be string")
	}
	switch TreatmentLevel(str) {
	case TreatmentLevelSupport, TreatmentLevelGroup, TreatmentLevelTermine, "":
		*t = TreatmentLevel(str)
	default:
		return errors.New("invalid treatment level")
	}
	return nil
}

// DiscrepancyBucket names a counter a manual transfer can draw from.
type DiscrepancyBucket string

const (
	DiscrepancyBucketBoOnly      DiscrepancyBucket = "BO_ONLY"
	DiscrepancyBucketPartnerOnly DiscrepancyBucket = "PARTNER_ONLY"
)

// ParseDiscrepancyBucket accepts the casings seen in uploaded reports and UI
// payloads (boOnly, bo_only, BO_ONLY ...).
func ParseDiscrepancyBucket(s string) (DiscrepancyBucket, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BO_ONLY", "BOONLY":
		return DiscrepancyBucketBoOnly, true
	case "PARTNER_ONLY", "PARTNERONLY":
		return DiscrepancyBucketPartnerOnly, true
	}
	return "", false
}
