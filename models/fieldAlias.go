package models

import (
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/recon_backend/utils"
)

// FieldAliasResolver maps a canonical field name to the ordered list of
// source keys accepted for it. Uploaded classification summaries come from
// several partner tools that disagree on header naming and casing; the
// resolver confines that mess to ingestion instead of letting
// record["Agence"] || record["agency"] lookups leak into business logic.
type FieldAliasResolver map[string][]string

// DefaultReportAliases covers the partner report headers seen in production
// files (French BO exports and English partner extracts).
var DefaultReportAliases = FieldAliasResolver{
	"agency":            {"Agence", "agence", "AGENCE", "agency", "Agency"},
	"service":           {"Service", "service", "SERVICE"},
	"country":           {"Pays", "pays", "country", "Country"},
	"totalTransactions": {"TotalTransactions", "total_transactions", "Total", "total", "NbTransactions"},
	"matches":           {"Matches", "matches", "Matched", "NbMatches", "correspondances"},
	"boOnly":            {"BoOnly", "bo_only", "boOnly", "EcartBO", "ecart_bo"},
	"partnerOnly":       {"PartnerOnly", "partner_only", "partnerOnly", "EcartPartenaire", "ecart_partenaire"},
	"mismatches":        {"Mismatches", "mismatches", "Ecarts", "NbEcarts"},
	"comment":           {"Commentaire", "commentaire", "comment", "Comment"},
	"ticketId":          {"TicketId", "ticket_id", "Ticket", "NumeroTicket"},
}

// Resolve returns the first matching source key's value.
func (r FieldAliasResolver) Resolve(record map[string]any, canonical string) (any, bool) {
	for _, key := range r[canonical] {
		if v, ok := record[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r FieldAliasResolver) ResolveString(record map[string]any, canonical string) string {
	v, ok := r.Resolve(record, canonical)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (r FieldAliasResolver) ResolveCount(record map[string]any, canonical string) int {
	v, _ := r.Resolve(record, canonical)
	return utils.ParseCount(v)
}

// RowFromRecord builds an un-reconciled row from one raw classification
// summary record. Callers must run workflow.ReconcileRow on the result
// before persisting or displaying it.
func RowFromRecord(record map[string]any, date time.Time, aliases FieldAliasResolver) ReconciliationRow {
	if aliases == nil {
		aliases = DefaultReportAliases
	}
	row := ReconciliationRow{
		ReconciliationDate: utils.DateOnly(date),
		Agency:             aliases.ResolveString(record, "agency"),
		Service:            aliases.ResolveString(record, "service"),
		Country:            aliases.ResolveString(record, "country"),
		TotalTransactions:  aliases.ResolveCount(record, "totalTransactions"),
		Matches:            aliases.ResolveCount(record, "matches"),
		BoOnly:             aliases.ResolveCount(record, "boOnly"),
		PartnerOnly:        aliases.ResolveCount(record, "partnerOnly"),
		Mismatches:         aliases.ResolveCount(record, "mismatches"),
		Comment:            aliases.ResolveString(record, "comment"),
		Status:             ReconciliationStatusEnCours,
	}
	if ticket := aliases.ResolveString(record, "ticketId"); ticket != "" {
		row.TicketId = &ticket
	}
	return row
}
