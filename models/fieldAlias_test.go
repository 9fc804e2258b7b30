package models

import (
	"testing"
)

func TestRowFromRecord_FrenchHeaders(t *testing.T) {
	record := map[string]any{
		"Agence":          "DKR-01",
		"Service":         "cashin",
		"Pays":            "SN",
		"Total":           float64(206),
		"correspondances": "197",
		"EcartBO":         4,
		"EcartPartenaire": float64(5),
		"Commentaire":     "fichier partenaire en retard",
		"NumeroTicket":    "JIRA-812",
	}

	row := RowFromRecord(record, date("2026-08-15"), nil)

	if row.Agency != "DKR-01" || row.Service != "cashin" || row.Country != "SN" {
		t.Errorf("identity fields mis-resolved: %+v", row)
	}
	if row.TotalTransactions != 206 || row.Matches != 197 || row.BoOnly != 4 || row.PartnerOnly != 5 {
		t.Errorf("counters mis-resolved: %+v", row)
	}
	if row.Comment != "fichier partenaire en retard" {
		t.Errorf("unexpected comment %q", row.Comment)
	}
	if row.TicketId == nil || *row.TicketId != "JIRA-812" {
		t.Errorf("unexpected ticket %v", row.TicketId)
	}
	if row.Status != ReconciliationStatusEnCours {
		t.Errorf("new rows must start in progress, got %s", row.Status)
	}
	if !row.ReconciliationDate.Equal(date("2026-08-15")) {
		t.Errorf("unexpected date %s", row.ReconciliationDate)
	}
}

func TestRowFromRecord_EnglishHeaders(t *testing.T) {
	record := map[string]any{
		"agency":       "ABJ-07",
		"service":      "paiement",
		"country":      "CI",
		"total":        "12",
		"matches":      9,
		"partner_only": 3,
	}

	row := RowFromRecord(record, date("2026-08-15"), nil)

	if row.Agency != "ABJ-07" || row.Country != "CI" {
		t.Errorf("identity fields mis-resolved: %+v", row)
	}
	if row.TotalTransactions != 12 || row.Matches != 9 || row.PartnerOnly != 3 {
		t.Errorf("counters mis-resolved: %+v", row)
	}
	if row.TicketId != nil {
		t.Errorf("missing ticket should stay nil, got %v", row.TicketId)
	}
}

func TestRowFromRecord_GarbageCountersParseToZero(t *testing.T) {
	record := map[string]any{
		"Agence":  "DKR-01",
		"Total":   "n/a",
		"Matches": nil,
		"EcartBO": "four",
	}

	row := RowFromRecord(record, date("2026-08-15"), nil)

	if row.TotalTransactions != 0 || row.Matches != 0 || row.BoOnly != 0 {
		t.Errorf("unparseable counters must read as zero, got %+v", row)
	}
}

func TestFieldAliasResolver_FirstAliasWins(t *testing.T) {
	record := map[string]any{
		"Agence": "DKR-01",
		"agency": "SHOULD-LOSE",
	}

	got := DefaultReportAliases.ResolveString(record, "agency")
	if got != "DKR-01" {
		t.Errorf("expected first alias to win, got %q", got)
	}
}
