package insights

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/grokalmighty/PennyPincher/internal/core"
)

func testAnalyzer() *Analyzer {
	return NewAnalyzer(NewClassifier("", 200, 42))
}

func TestAnalyzer_EmptyAccount(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	got := testAnalyzer().Analyze(context.Background(), core.Account{Type: core.Expense}, now)
	if !got.Empty() {
		t.Errorf("Analyze(empty account) = %+v, want all absent", got)
	}
}

func TestAnalyzer_ZeroExpensesOmitsPatternsAndProjections(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	account := core.Account{
		Type:           core.Savings,
		CurrentBalance: 900,
		Transactions: []core.Transaction{
			{Amount: 300, Date: "2024-06-01"},
			{Amount: 300, Date: "2024-06-08"},
			{Amount: 300, Date: "2024-06-14"},
		},
	}

	got := testAnalyzer().Analyze(context.Background(), account, now)
	if got.TimePatterns != nil {
		t.Errorf("TimePatterns = %+v, want nil without expenses", got.TimePatterns)
	}
	if got.Projections != nil {
		t.Errorf("Projections = %+v, want nil without expenses", got.Projections)
	}
	if got.SpendingPersonality == nil {
		t.Error("SpendingPersonality = nil, want classification from income history")
	}
}

func TestAnalyzer_GoalGating(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	goal := core.Account{
		Type:           core.Goal,
		Deadline:       "2024-12-15",
		TargetAmount:   10000,
		CurrentBalance: 5000,
		Transactions: []core.Transaction{
			{Amount: 800, Date: "2024-05-01"},
		},
	}
	got := testAnalyzer().Analyze(context.Background(), goal, now)
	if got.GoalProgress == nil {
		t.Error("GoalProgress = nil for goal account with deadline")
	}

	// Same data on a checking account: goal tracking never runs.
	checking := goal
	checking.Type = core.Checking
	got = testAnalyzer().Analyze(context.Background(), checking, now)
	if got.GoalProgress != nil {
		t.Errorf("GoalProgress = %+v for checking account, want nil", got.GoalProgress)
	}
}

func TestAccountInsights_AbsentKeysOmittedFromJSON(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	account := core.Account{
		Type:           core.Expense,
		CurrentBalance: 1000,
		Transactions: []core.Transaction{
			{Amount: -10, Category: "dining", Date: "2024-06-10T12:00:00"},
			{Amount: -10, Category: "dining", Date: "2024-06-11T12:00:00"},
			{Amount: -10, Category: "dining", Date: "2024-06-12T12:00:00"},
		},
	}

	insights := testAnalyzer().Analyze(context.Background(), account, now)
	raw, err := json.Marshal(insights)
	if err != nil {
		t.Fatal(err)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		t.Fatal(err)
	}

	if _, ok := keys["goal_progress"]; ok {
		t.Error("goal_progress present for non-goal account")
	}
	for _, want := range []string{"time_patterns", "projections", "spending_personality"} {
		if _, ok := keys[want]; !ok {
			t.Errorf("missing %q key in %s", want, raw)
		}
	}
}

func TestRoundHelpers(t *testing.T) {
	if got := round1(66.666); got != 66.7 {
		t.Errorf("round1(66.666) = %v", got)
	}
	if got := round2(0.4366); got != 0.44 {
		t.Errorf("round2(0.4366) = %v", got)
	}
	if got := clamp(1.2, 0, 0.5); got != 0.5 {
		t.Errorf("clamp(1.2, 0, 0.5) = %v", got)
	}
	if got := clamp(-0.2, 0, 0.5); got != 0 {
		t.Errorf("clamp(-0.2, 0, 0.5) = %v", got)
	}
}
