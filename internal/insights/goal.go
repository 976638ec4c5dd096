package insights

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/grokalmighty/PennyPincher/internal/core"
)

// avgMonthDays converts day counts to months.
const avgMonthDays = 30.44

type (
	GoalDetails struct {
		OnTrack            bool    `json:"on_track"`
		ProgressPercentage float64 `json:"progress_percentage"`
		MonthsRemaining    float64 `json:"months_remaining"`
		RequiredMonthly    float64 `json:"required_monthly"`
		ActualMonthly      float64 `json:"actual_monthly"`
		AmountNeeded       float64 `json:"amount_needed"`
		Confidence         float64 `json:"confidence"`
	}

	// GoalProgress is either an expired marker (Status/Message only) or a
	// full progress report via the embedded details.
	GoalProgress struct {
		Status  string `json:"status,omitempty"`
		Message string `json:"message,omitempty"`
		*GoalDetails
	}
)

// TrackGoal evaluates progress toward a goal account's target by its
// deadline. It only applies to goal accounts with a deadline set. Internal
// faults are contained here: the result degrades to absent, never an error
// surfaced to the caller.
func TrackGoal(account core.Account, now time.Time) (result *GoalProgress) {
	if account.Type != core.Goal || account.Deadline == "" {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("goal tracking failed",
				"account_id", account.ID,
				"panic", r)
			result = nil
		}
	}()

	deadline, err := core.ParseDate(account.Deadline)
	if err != nil {
		slog.Warn("goal deadline does not parse",
			"account_id", account.ID,
			"deadline", account.Deadline)
		return nil
	}

	if now.After(deadline) {
		return &GoalProgress{Status: "expired", Message: "Deadline has passed"}
	}

	daysRemaining := int(deadline.Sub(now).Hours() / 24)
	monthsRemaining := float64(daysRemaining) / avgMonthDays

	if account.TargetAmount <= 0 {
		return nil
	}

	progressPercentage := account.CurrentBalance / account.TargetAmount * 100
	amountNeeded := account.TargetAmount - account.CurrentBalance

	requiredMonthly := amountNeeded
	if monthsRemaining > 0 {
		requiredMonthly = amountNeeded / monthsRemaining
	}

	actualMonthly := actualMonthlyContribution(account.Transactions, now)
	onTrack := actualMonthly >= requiredMonthly*0.8 // 20% slack

	return &GoalProgress{
		GoalDetails: &GoalDetails{
			OnTrack:            onTrack,
			ProgressPercentage: round1(progressPercentage),
			MonthsRemaining:    round1(monthsRemaining),
			RequiredMonthly:    round2(requiredMonthly),
			ActualMonthly:      round2(actualMonthly),
			AmountNeeded:       round2(amountNeeded),
			Confidence:         goalConfidence(account.Transactions),
		},
	}
}

// actualMonthlyContribution converts income inflows into a monthly rate,
// preferring the last 90 days and falling back to the full income history.
func actualMonthlyContribution(transactions []core.Transaction, now time.Time) float64 {
	type dated struct {
		when   time.Time
		amount float64
	}

	cutoff := now.AddDate(0, 0, -90)
	var recent, all []dated
	for _, t := range transactions {
		if t.Amount <= 0 {
			continue
		}
		d, err := core.ParseDate(t.Date)
		if err != nil {
			continue
		}
		entry := dated{when: d, amount: t.Amount}
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
		return 0
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

	if maxDate.Equal(minDate) {
		// Single contribution or zero span: no rate to derive.
		return total
	}
	daysCovered := float64(int(maxDate.Sub(minDate).Hours()/24) + 1)
	return total / (daysCovered / avgMonthDays)
}

// goalConfidence scores the contribution estimate: 0.3 base, up to 0.5 for
// data volume, up to 0.5 for contribution consistency. Deliberately not
// capped at 1.0.
func goalConfidence(transactions []core.Transaction) float64 {
	if len(transactions) == 0 {
		return 0.3
	}

	countConfidence := minFloat(0.5, float64(len(transactions))/20)

	var amounts []float64
	for _, t := range transactions {
		if t.Amount > 0 {
			amounts = append(amounts, t.Amount)
		}
	}

	consistencyConfidence := 0.2
	if len(amounts) > 1 {
		mean := stat.Mean(amounts, nil)
		sd := stat.StdDev(amounts, nil)
		consistency := 0.0
		if mean > 0 {
			consistency = 1 - sd/mean
		}
		consistencyConfidence = clamp(consistency, 0, 0.5)
	}

	return round2(0.3 + countConfidence + consistencyConfidence)
}
