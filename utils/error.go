package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// Discrepancy transfer validation errors. These are returned to the caller
// as-is and must never leave a row partially mutated.
var (
	ErrorInvalidAmount          = errors.New("transfer amount must be a positive finite number")
	ErrorAmountExceedsAvailable = errors.New("transfer amount exceeds available discrepancies")
	ErrorRowLocked              = errors.New("reconciliation row is locked")
	ErrorInvalidBucket          = errors.New("unknown discrepancy bucket")
)
