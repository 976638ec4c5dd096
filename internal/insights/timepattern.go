package insights

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/grokalmighty/PennyPincher/internal/core"
)

// timeBuckets partition the day into half-open hour intervals. The late
// night bucket wraps midnight: hour >= 21 or hour < 5.
var timeBuckets = []struct {
	name  string
	label string
	start int
	end   int
}{
	{"early_morning", "Early morning (5 - 9 AM)", 5, 9},
	{"midday", "Midday (9 AM - 4 PM)", 9, 16},
	{"evening", "Evening (4 - 9 PM)", 16, 21},
	{"late_night", "Late night (9 PM - 5 AM)", 21, 5},
}

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type (
	TimeOfDayInsight struct {
		DominantPeriod string  `json:"dominant_period"`
		Percentage     float64 `json:"percentage"`
		AverageAmount  float64 `json:"average_amount"`
		ImpactScore    float64 `json:"impact_score"`
	}

	WeekendFocus struct {
		Day        string  `json:"day"`
		Percentage float64 `json:"percentage"`
		Message    string  `json:"message"`
	}

	DayOfWeekInsight struct {
		WeekendFocus *WeekendFocus `json:"weekend_focus,omitempty"`
	}

	VelocityInsight struct {
		AverageDaysBetween float64 `json:"average_days_between"`
		Consistency        float64 `json:"consistency"`
		Pattern            string  `json:"pattern"`
		Message            string  `json:"message"`
	}

	// TimePatterns carries the three time-based sub-analyses. A nil field
	// means that sub-analysis found nothing significant.
	TimePatterns struct {
		TimeOfDay        *TimeOfDayInsight `json:"time_of_day,omitempty"`
		DayOfWeek        *DayOfWeekInsight `json:"day_of_week,omitempty"`
		SpendingVelocity *VelocityInsight  `json:"spending_velocity,omitempty"`
	}
)

// AnalyzeTimePatterns detects time-of-day and day-of-week spending
// concentration and spending-interval regularity over the account's
// expenses. Returns nil when there are no expenses or no sub-analysis
// produced a result.
func AnalyzeTimePatterns(transactions []core.Transaction) *TimePatterns {
	expenses := filterExpenses(transactions)
	if len(expenses) == 0 {
		return nil
	}

	p := &TimePatterns{
		TimeOfDay:        analyzeTimeOfDay(expenses),
		DayOfWeek:        analyzeDayOfWeek(expenses),
		SpendingVelocity: analyzeSpendingVelocity(expenses),
	}
	if p.TimeOfDay == nil && p.DayOfWeek == nil && p.SpendingVelocity == nil {
		return nil
	}
	return p
}

func analyzeTimeOfDay(expenses []core.Transaction) *TimeOfDayInsight {
	totals := make([]float64, len(timeBuckets))
	counts := make([]int, len(timeBuckets))

	for _, t := range expenses {
		d, err := core.ParseDate(t.Date)
		if err != nil {
			continue
		}
		hour := d.Hour()
		for i, b := range timeBuckets {
			inBucket := false
			if b.start < b.end {
				inBucket = hour >= b.start && hour < b.end
			} else {
				inBucket = hour >= b.start || hour < b.end
			}
			if inBucket {
				totals[i] += -t.Amount
				counts[i]++
			}
		}
	}

	var sum float64
	for _, v := range totals {
		sum += v
	}
	if sum <= 0 {
		return nil
	}

	dominant := 0
	for i, v := range totals {
		if v > totals[dominant] {
			dominant = i
		}
	}
	percentage := totals[dominant] / sum * 100
	if percentage <= 60 {
		return nil
	}

	count := counts[dominant]
	if count < 1 {
		count = 1
	}
	return &TimeOfDayInsight{
		DominantPeriod: timeBuckets[dominant].label,
		Percentage:     round1(percentage),
		AverageAmount:  totals[dominant] / float64(count),
		ImpactScore:    minFloat(0.9, percentage/100),
	}
}

func analyzeDayOfWeek(expenses []core.Transaction) *DayOfWeekInsight {
	var totals [7]float64 // Monday=0 .. Sunday=6
	for _, t := range expenses {
		d, err := core.ParseDate(t.Date)
		if err != nil {
			continue
		}
		day := (int(d.Weekday()) + 6) % 7
		totals[day] += -t.Amount
	}

	var weekdayTotal, weekendTotal float64
	for i := 0; i < 5; i++ {
		weekdayTotal += totals[i]
	}
	weekendTotal = totals[5] + totals[6]

	total := weekdayTotal + weekendTotal
	if total == 0 {
		return nil
	}

	weekendRatio := weekendTotal / total
	if weekendRatio <= 0.6 {
		return nil
	}

	peak := 0
	for i, v := range totals {
		if v > totals[peak] {
			peak = i
		}
	}
	return &DayOfWeekInsight{
		WeekendFocus: &WeekendFocus{
			Day:        dayNames[peak],
			Percentage: round1(totals[peak] / total * 100),
			Message:    fmt.Sprintf("%s is your biggest spending day", dayNames[peak]),
		},
	}
}

func analyzeSpendingVelocity(expenses []core.Transaction) *VelocityInsight {
	if len(expenses) < 3 {
		return nil
	}

	dates := make([]time.Time, 0, len(expenses))
	for _, t := range expenses {
		if d, err := core.ParseDate(t.Date); err == nil {
			dates = append(dates, d)
		}
	}
	if len(dates) < 3 {
		return nil
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	gaps := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, float64(int(dates[i].Sub(dates[i-1]).Hours()/24)))
	}

	avg := stat.Mean(gaps, nil)
	var sd float64
	if len(gaps) > 1 {
		sd = stat.StdDev(gaps, nil)
	}
	consistency := 0.0
	if avg > 0 {
		consistency = 1 - sd/avg
	}

	pattern := "occasional"
	switch {
	case avg <= 2:
		pattern = "frequent"
	case avg <= 7:
		pattern = "regular"
	}

	return &VelocityInsight{
		AverageDaysBetween: round1(avg),
		Consistency:        round2(consistency),
		Pattern:            pattern,
		Message:            fmt.Sprintf("%s spending (every %.1f days)", capitalize(pattern), avg),
	}
}
