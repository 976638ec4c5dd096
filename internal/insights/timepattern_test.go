package insights

import (
	"testing"

	"github.com/grokalmighty/PennyPincher/internal/core"
)

func TestAnalyzeTimePatterns_NoExpenses(t *testing.T) {
	tests := []struct {
		name         string
		transactions []core.Transaction
	}{
		{name: "empty history"},
		{
			name: "income only",
			transactions: []core.Transaction{
				{Amount: 500, Date: "2024-03-10T10:00:00"},
				{Amount: 800, Date: "2024-03-15T10:00:00"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnalyzeTimePatterns(tt.transactions); got != nil {
				t.Errorf("AnalyzeTimePatterns() = %+v, want nil", got)
			}
		})
	}
}

func TestAnalyzeTimeOfDay_DominantMidday(t *testing.T) {
	// 70% of spend between 9 and 16, rest late night.
	transactions := []core.Transaction{
		{Amount: -35, Date: "2024-03-11T10:00:00"},
		{Amount: -35, Date: "2024-03-12T14:30:00"},
		{Amount: -30, Date: "2024-03-13T23:00:00"},
	}

	got := AnalyzeTimePatterns(transactions)
	if got == nil || got.TimeOfDay == nil {
		t.Fatalf("expected time_of_day insight, got %+v", got)
	}

	tod := got.TimeOfDay
	if tod.DominantPeriod != "Midday (9 AM - 4 PM)" {
		t.Errorf("DominantPeriod = %q", tod.DominantPeriod)
	}
	if tod.Percentage != 70.0 {
		t.Errorf("Percentage = %v, want 70.0", tod.Percentage)
	}
	if tod.AverageAmount != 35 {
		t.Errorf("AverageAmount = %v, want 35", tod.AverageAmount)
	}
	if tod.ImpactScore != 0.7 {
		t.Errorf("ImpactScore = %v, want 0.7", tod.ImpactScore)
	}
}

func TestAnalyzeTimeOfDay_BelowThresholdIsAbsent(t *testing.T) {
	// Even split: no bucket exceeds 60%.
	transactions := []core.Transaction{
		{Amount: -50, Date: "2024-03-11T10:00:00"},
		{Amount: -50, Date: "2024-03-11T22:00:00"},
	}

	got := AnalyzeTimePatterns(transactions)
	if got != nil && got.TimeOfDay != nil {
		t.Errorf("expected absent time_of_day, got %+v", got.TimeOfDay)
	}
}

func TestAnalyzeTimeOfDay_LateNightWrap(t *testing.T) {
	// Hours 23 and 3 both land in the wrapping late-night bucket.
	transactions := []core.Transaction{
		{Amount: -40, Date: "2024-03-11T23:00:00"},
		{Amount: -40, Date: "2024-03-12T03:00:00"},
		{Amount: -20, Date: "2024-03-12T12:00:00"},
	}

	got := AnalyzeTimePatterns(transactions)
	if got == nil || got.TimeOfDay == nil {
		t.Fatal("expected time_of_day insight")
	}
	if got.TimeOfDay.DominantPeriod != "Late night (9 PM - 5 AM)" {
		t.Errorf("DominantPeriod = %q", got.TimeOfDay.DominantPeriod)
	}
	if got.TimeOfDay.Percentage != 80.0 {
		t.Errorf("Percentage = %v, want 80.0", got.TimeOfDay.Percentage)
	}
}

func TestAnalyzeDayOfWeek_AllSaturday(t *testing.T) {
	// 2024-03-16 and 2024-03-23 are Saturdays.
	transactions := []core.Transaction{
		{Amount: -60, Date: "2024-03-16T12:00:00"},
		{Amount: -40, Date: "2024-03-23T12:00:00"},
	}

	got := AnalyzeTimePatterns(transactions)
	if got == nil || got.DayOfWeek == nil || got.DayOfWeek.WeekendFocus == nil {
		t.Fatalf("expected weekend_focus insight, got %+v", got)
	}

	wf := got.DayOfWeek.WeekendFocus
	if wf.Day != "Saturday" {
		t.Errorf("Day = %q, want Saturday", wf.Day)
	}
	if wf.Percentage != 100.0 {
		t.Errorf("Percentage = %v, want 100.0", wf.Percentage)
	}
	if wf.Message != "Saturday is your biggest spending day" {
		t.Errorf("Message = %q", wf.Message)
	}
}

func TestAnalyzeDayOfWeek_WeekdaySpendIsAbsent(t *testing.T) {
	// Mostly weekday spend: ratio under 0.6.
	transactions := []core.Transaction{
		{Amount: -80, Date: "2024-03-11T12:00:00"}, // Monday
		{Amount: -20, Date: "2024-03-16T12:00:00"}, // Saturday
	}

	got := AnalyzeTimePatterns(transactions)
	if got != nil && got.DayOfWeek != nil {
		t.Errorf("expected absent day_of_week, got %+v", got.DayOfWeek)
	}
}

func TestAnalyzeSpendingVelocity(t *testing.T) {
	tests := []struct {
		name            string
		transactions    []core.Transaction
		wantAbsent      bool
		wantPattern     string
		wantAvg         float64
		wantConsistency float64
		wantMessage     string
	}{
		{
			name: "two expenses insufficient",
			transactions: []core.Transaction{
				{Amount: -10, Date: "2024-03-10"},
				{Amount: -10, Date: "2024-03-11"},
			},
			wantAbsent: true,
		},
		{
			name: "daily gaps are frequent",
			transactions: []core.Transaction{
				{Amount: -10, Date: "2024-03-10"},
				{Amount: -10, Date: "2024-03-11"},
				{Amount: -10, Date: "2024-03-12"},
			},
			wantPattern:     "frequent",
			wantAvg:         1.0,
			wantConsistency: 1.0,
			wantMessage:     "Frequent spending (every 1.0 days)",
		},
		{
			name: "weekly gaps are regular",
			transactions: []core.Transaction{
				{Amount: -10, Date: "2024-03-01"},
				{Amount: -10, Date: "2024-03-08"},
				{Amount: -10, Date: "2024-03-15"},
			},
			wantPattern:     "regular",
			wantAvg:         7.0,
			wantConsistency: 1.0,
			wantMessage:     "Regular spending (every 7.0 days)",
		},
		{
			name: "sparse gaps are occasional",
			transactions: []core.Transaction{
				{Amount: -10, Date: "2024-01-01"},
				{Amount: -10, Date: "2024-01-21"},
				{Amount: -10, Date: "2024-02-10"},
			},
			wantPattern:     "occasional",
			wantAvg:         20.0,
			wantConsistency: 1.0,
			wantMessage:     "Occasional spending (every 20.0 days)",
		},
		{
			name: "unparseable dates excluded",
			transactions: []core.Transaction{
				{Amount: -10, Date: "2024-03-10"},
				{Amount: -10, Date: "not-a-date"},
				{Amount: -10, Date: "2024-03-11"},
			},
			wantAbsent: true, // only two dated expenses survive
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzeSpendingVelocity(tt.transactions)
			if tt.wantAbsent {
				if got != nil {
					t.Fatalf("analyzeSpendingVelocity() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("analyzeSpendingVelocity() = nil, want insight")
			}
			if got.Pattern != tt.wantPattern {
				t.Errorf("Pattern = %q, want %q", got.Pattern, tt.wantPattern)
			}
			if got.AverageDaysBetween != tt.wantAvg {
				t.Errorf("AverageDaysBetween = %v, want %v", got.AverageDaysBetween, tt.wantAvg)
			}
			if got.Consistency != tt.wantConsistency {
				t.Errorf("Consistency = %v, want %v", got.Consistency, tt.wantConsistency)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestAnalyzeSpendingVelocity_IrregularConsistencyUnclamped(t *testing.T) {
	// Gaps of 1 and 29 days: stdev well above the mean, consistency < 0.
	transactions := []core.Transaction{
		{Amount: -10, Date: "2024-03-01"},
		{Amount: -10, Date: "2024-03-02"},
		{Amount: -10, Date: "2024-03-31"},
	}

	got := analyzeSpendingVelocity(transactions)
	if got == nil {
		t.Fatal("expected insight")
	}
	if got.Consistency >= 0 {
		t.Errorf("Consistency = %v, want negative (not clamped)", got.Consistency)
	}
}
