package config

import (
	"os"
	"strings"
)

// DetailSourceAvailable reports whether the detailed classified-record source
// (the external matching engine's per-record output) is reachable. When it is
// not, reconciliation rows that cannot be proven clean stay in EN_COURS
// instead of being downgraded on partial information.
//
// Set via env:
// - RECON_DETAIL_SOURCE=true
func DetailSourceAvailable() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("RECON_DETAIL_SOURCE")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// StrictRowEditLock enables fintech-grade guardrails: mutations on a
// reconciliation row (bulk status apply, discrepancy transfer) must hold the
// per-row Redis lock, and fail instead of degrading when Redis is down.
//
// Set via env:
// - STRICT_ROW_EDIT_LOCK=true
func StrictRowEditLock() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_ROW_EDIT_LOCK")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
