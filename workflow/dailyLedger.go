package workflow

import (
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/recon_backend/models"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"github.com/shopspring/decimal"
)

// DailyBalance is the opening/closing pair derived for one calendar day of
// an account statement.
type DailyBalance struct {
	Date    time.Time       `json:"date"`
	Opening decimal.Decimal `json:"opening"`
	Closing decimal.Decimal `json:"closing"`
}

// StatementWindow summarizes the whole requested period. Global balances are
// snapshots (the opening of the earliest day, the closing of the latest),
// never sums.
type StatementWindow struct {
	FirstDate     time.Time       `json:"first_date"`
	LastDate      time.Time       `json:"last_date"`
	GlobalOpening decimal.Decimal `json:"global_opening"`
	GlobalClosing decimal.Decimal `json:"global_closing"`
}

// AggregateDailyBalances groups operations by calendar day and derives each
// day's opening and closing balance from the operation snapshots.
//
// Rules:
//   - rejected operations are excluded from balance derivation; a day whose
//     operations are all rejected had no net effect and reports the first
//     operation's balanceBefore as both opening and closing
//   - within a day, operations order by timestamp then id; the ordering
//     decides which operation is "last" for the closing balance
//   - a day's opening prefers the balanceBefore of its first TOTAL_CASHIN or
//     TOTAL_PAIEMENT, falling back to the first non-rejected operation
//
// An empty input yields an empty map and a zero window.
func AggregateDailyBalances(operations []models.Operation) (map[time.Time]DailyBalance, StatementWindow) {
	perDay := make(map[time.Time]DailyBalance)
	if len(operations) == 0 {
		return perDay, StatementWindow{}
	}

	byDay := make(map[time.Time][]models.Operation)
	for _, op := range operations {
		day := utils.DateOnly(op.Timestamp)
		byDay[day] = append(byDay[day], op)
	}

	var days []time.Time
	for day, ops := range byDay {
		sortOperations(ops)
		perDay[day] = deriveDailyBalance(day, ops)
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	first, last := days[0], days[len(days)-1]
	window := StatementWindow{
		FirstDate:     first,
		LastDate:      last,
		GlobalOpening: perDay[first].Opening,
		GlobalClosing: perDay[last].Closing,
	}
	return perDay, window
}

func sortOperations(ops []models.Operation) {
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Timestamp.Equal(ops[j].Timestamp) {
			return ops[i].ID < ops[j].ID
		}
		return ops[i].Timestamp.Before(ops[j].Timestamp)
	})
}

func deriveDailyBalance(day time.Time, sorted []models.Operation) DailyBalance {
	var kept []models.Operation
	for _, op := range sorted {
		if !op.IsRejected() {
			kept = append(kept, op)
		}
	}

	if len(kept) == 0 {
		// Every operation of the day was rejected: no net effect.
		return DailyBalance{
			Date:    day,
			Opening: sorted[0].BalanceBefore,
			Closing: sorted[0].BalanceBefore,
		}
	}

	opening := kept[0].BalanceBefore
	for _, op := range kept {
		if op.Type == models.OperationTypeTotalCashin || op.Type == models.OperationTypeTotalPaiement {
			opening = op.BalanceBefore
			break
		}
	}

	return DailyBalance{
		Date:    day,
		Opening: opening,
		Closing: kept[len(kept)-1].BalanceAfter,
	}
}
