package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/models"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"bitbucket.org/mmdatafocus/recon_backend/workflow"
	"github.com/shopspring/decimal"
)

const statementCacheTTL = 5 * time.Minute

type StatementLine struct {
	Operation models.Operation      `json:"operation"`
	Direction models.EntryDirection `json:"direction"`
}

type DailySection struct {
	Date    time.Time       `json:"date"`
	Opening decimal.Decimal `json:"opening"`
	Closing decimal.Decimal `json:"closing"`
	Lines   []StatementLine `json:"lines"`
}

// AccountStatementReport is the rendered BO statement for one account over a
// date window: classified operations grouped per day with opening/closing
// balances, plus the window-level snapshot balances.
type AccountStatementReport struct {
	AccountId int                      `json:"account_id"`
	Window    workflow.StatementWindow `json:"window"`
	Days      []DailySection           `json:"days"`
}

// GetAccountStatementReport loads the account's operations, derives daily
// balances and per-line debit/credit labels, and caches the rendered report
// briefly (statement screens are re-fetched on every filter change).
func GetAccountStatementReport(ctx context.Context, accountId int, fromDate time.Time, toDate time.Time) (*AccountStatementReport, error) {
	cacheKey := fmt.Sprintf("statement:%d:%s:%s", accountId, fromDate.Format("2006-01-02"), toDate.Format("2006-01-02"))
	var cached AccountStatementReport
	if found, err := config.GetRedisObject(cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	operations, err := models.ListOperationsByAccountAndRange(ctx, accountId, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	report, err := BuildAccountStatement(ctx, accountId, operations)
	if err != nil {
		return nil, err
	}

	_ = config.SetRedisObject(cacheKey, report, statementCacheTTL)
	return report, nil
}

// BuildAccountStatement renders a statement from already-loaded operations.
func BuildAccountStatement(ctx context.Context, accountId int, operations []models.Operation) (*AccountStatementReport, error) {
	perDay, window := workflow.AggregateDailyBalances(operations)

	parents, err := models.ParentsByOperationId(ctx, config.GetDB(), operations)
	if err != nil {
		return nil, err
	}

	linesByDay := make(map[time.Time][]StatementLine)
	for _, op := range operations {
		var parent *models.Operation
		if op.ParentOperationId != nil {
			parent = parents[*op.ParentOperationId]
		}
		day := utils.DateOnly(op.Timestamp)
		linesByDay[day] = append(linesByDay[day], StatementLine{
			Operation: op,
			Direction: workflow.ClassifyStatementOperation(op, parent),
		})
	}

	report := &AccountStatementReport{AccountId: accountId, Window: window}
	for day, balance := range perDay {
		lines := linesByDay[day]
		sort.Slice(lines, func(i, j int) bool {
			a, b := lines[i].Operation, lines[j].Operation
			if a.Timestamp.Equal(b.Timestamp) {
				return a.ID < b.ID
			}
			return a.Timestamp.Before(b.Timestamp)
		})
		report.Days = append(report.Days, DailySection{
			Date:    day,
			Opening: balance.Opening,
			Closing: balance.Closing,
			Lines:   lines,
		})
	}
	sort.Slice(report.Days, func(i, j int) bool { return report.Days[i].Date.Before(report.Days[j].Date) })

	return report, nil
}
