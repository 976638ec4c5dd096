package insights

import (
	"time"

	"github.com/grokalmighty/PennyPincher/internal/core"
)

type (
	Projection struct {
		ProjectedBalance  float64 `json:"projected_balance"`
		ProjectedSpending float64 `json:"projected_spending"`
		Confidence        float64 `json:"confidence"`
		DailyRate         float64 `json:"daily_rate"`
	}

	Projections struct {
		OneWeek  Projection `json:"1_week"`
		OneMonth Projection `json:"1_month"`
	}
)

// ProjectBalances forecasts the account balance 7 and 30 days out from the
// recent daily spending rate. Returns nil when the account has no
// transactions, no expenses, or no expense carries a parseable date.
func ProjectBalances(account core.Account, now time.Time) *Projections {
	if len(account.Transactions) == 0 {
		return nil
	}
	expenses := filterExpenses(account.Transactions)
	if len(expenses) == 0 {
		return nil
	}

	rate, ok := dailySpendingRate(expenses, now)
	if !ok {
		return nil
	}

	return &Projections{
		OneWeek:  projectBalance(account.CurrentBalance, rate, 7),
		OneMonth: projectBalance(account.CurrentBalance, rate, 30),
	}
}

// dailySpendingRate averages absolute spend per day over the last 30 days,
// falling back to the full expense history when the window is empty.
func dailySpendingRate(expenses []core.Transaction, now time.Time) (float64, bool) {
	type dated struct {
		when   time.Time
		amount float64
	}

	cutoff := now.AddDate(0, 0, -30)
	var recent, all []dated
	for _, t := range expenses {
		d, err := core.ParseDate(t.Date)
		if err != nil {
			continue
		}
		entry := dated{when: d, amount: -t.Amount}
		all = append(all, entry)
		if !d.Before(cutoff) {
			recent = append(recent, entry)
		}
	}

	chosen := recent
	if len(chosen) == 0 {
		chosen = all
	}
	if len(chosen) == 0 {
		return 0, false
	}

	minDate, maxDate := chosen[0].when, chosen[0].when
	var total float64
	for _, e := range chosen {
		total += e.amount
		if e.when.Before(minDate) {
			minDate = e.when
		}
		if e.when.After(maxDate) {
			maxDate = e.when
		}
	}

	daysCovered := int(maxDate.Sub(minDate).Hours()/24) + 1
	if daysCovered <= 1 {
		// Same-day history: the day's total is the rate.
		return total, true
	}
	return total / float64(daysCovered), true
}

func projectBalance(currentBalance, dailyRate float64, days int) Projection {
	projectedSpending := dailyRate * float64(days)
	confidence := minFloat(0.9, 0.3+float64(days)/30*0.6)

	return Projection{
		ProjectedBalance:  round2(currentBalance - projectedSpending),
		ProjectedSpending: round2(projectedSpending),
		Confidence:        round2(confidence),
		DailyRate:         round2(dailyRate),
	}
}
