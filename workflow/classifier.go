package workflow

import (
	"bitbucket.org/mmdatafocus/recon_backend/models"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"github.com/shopspring/decimal"
)

// ClassifyOperation labels one operation DEBIT or CREDIT for statement
// display. Classification is cosmetic and never feeds balance math, so it
// never fails: an unrecognized type defaults to DEBIT.
//
// A cancellation (ANNULATION_<X>) takes the inverse polarity of whatever <X>
// classifies to; it undoes the original operation's ledger effect.
func ClassifyOperation(opType models.OperationType, service string, amount decimal.Decimal) models.EntryDirection {
	if cancelled, ok := opType.CancelledType(); ok {
		return ClassifyOperation(cancelled, service, amount).Invert()
	}

	switch opType {
	case models.OperationTypeTransactionCree, models.OperationTypeBo:
		if utils.ContainsFold(service, "paiement") {
			return models.EntryDirectionCredit
		}
		// "cashin" and unrecognized services both debit.
		return models.EntryDirectionDebit
	case models.OperationTypeCompenseClient, models.OperationTypeCompenseFournisseur:
		return models.EntryDirectionDebit
	case models.OperationTypeApproClient, models.OperationTypeApproFournisseur:
		return models.EntryDirectionCredit
	case models.OperationTypeAjustement, models.OperationTypeNivellement, models.OperationTypeRegularisationSolde:
		if amount.IsNegative() {
			return models.EntryDirectionDebit
		}
		return models.EntryDirectionCredit
	case models.OperationTypePartenaire:
		return models.EntryDirectionDebit
	case models.OperationTypeTotalCashin, models.OperationTypeFraisTransaction:
		return models.EntryDirectionDebit
	case models.OperationTypeTotalPaiement:
		return models.EntryDirectionCredit
	default:
		return models.EntryDirectionDebit
	}
}

// ClassifyStatementOperation classifies an operation in its statement
// context. A transaction fee normally debits, but a fee whose parent is a
// cancellation flows the opposite way.
func ClassifyStatementOperation(op models.Operation, parent *models.Operation) models.EntryDirection {
	if op.Type == models.OperationTypeFraisTransaction && parent != nil && parent.Type.IsCancellation() {
		return models.EntryDirectionCredit
	}
	return ClassifyOperation(op.Type, op.Service, op.Amount)
}
