package insights

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/grokalmighty/PennyPincher/internal/core"
)

func TestExtractFeatures_Defaults(t *testing.T) {
	tests := []struct {
		name         string
		transactions []core.Transaction
		want         Features
	}{
		{
			name: "empty history is all zero",
			want: Features{},
		},
		{
			name: "expenses only defaults savings rate",
			transactions: []core.Transaction{
				{Amount: -100, Category: "rent", Date: "2024-03-01"},
			},
			want: Features{
				SavingsRate:           0.05,
				SpendingVolatility:    0.2,
				DiscretionaryRatio:    0.1, // zero spend clamps up
				EssentialRatio:        0.9, // all essential clamps down from 1.0
				RecurringExpenseRatio: 0.1,
			},
		},
		{
			name: "income only uses ratio defaults",
			transactions: []core.Transaction{
				{Amount: 1000, Date: "2024-03-01"},
			},
			want: Features{
				SavingsRate:           0.5, // full savings clamps to the cap
				SpendingVolatility:    0.2,
				DiscretionaryRatio:    0.3,
				EssentialRatio:        0.6,
				RecurringExpenseRatio: 0.2,
			},
		},
		{
			name: "overspending clamps savings rate to floor",
			transactions: []core.Transaction{
				{Amount: 100, Date: "2024-03-01"},
				{Amount: -500, Category: "shopping", Date: "2024-03-02"},
			},
			want: Features{
				SavingsRate:           0.01,
				SpendingVolatility:    0.2,
				DiscretionaryRatio:    0.8, // all discretionary clamps down from 1.0
				EssentialRatio:        0.3,
				RecurringExpenseRatio: 0.1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFeatures(tt.transactions); got != tt.want {
				t.Errorf("ExtractFeatures() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractFeatures_CategoryRatios(t *testing.T) {
	transactions := []core.Transaction{
		{Amount: 2000, Date: "2024-03-01"},
		{Amount: -500, Category: "Dining", Date: "2024-03-02"},
		{Amount: -300, Category: "RENT", Date: "2024-03-03"},
		{Amount: -200, Category: "subscriptions", Date: "2024-03-04"},
	}

	got := ExtractFeatures(transactions)
	if got.DiscretionaryRatio != 0.5 {
		t.Errorf("DiscretionaryRatio = %v, want 0.5", got.DiscretionaryRatio)
	}
	if got.EssentialRatio != 0.3 {
		t.Errorf("EssentialRatio = %v, want 0.3", got.EssentialRatio)
	}
	if got.RecurringExpenseRatio != 0.2 {
		t.Errorf("RecurringExpenseRatio = %v, want 0.2", got.RecurringExpenseRatio)
	}
	if got.SavingsRate != 0.5 { // (2000-1000)/2000
		t.Errorf("SavingsRate = %v, want 0.5", got.SavingsRate)
	}
}

func TestExtractFeatures_UnknownCategoryIsOther(t *testing.T) {
	transactions := []core.Transaction{
		{Amount: -100, Category: "llama grooming", Date: "2024-03-01"},
	}

	got := ExtractFeatures(transactions)
	// Unrecognized spend feeds no ratio; all three sit at their clamp floors.
	if got.DiscretionaryRatio != 0.1 || got.EssentialRatio != 0.3 || got.RecurringExpenseRatio != 0.1 {
		t.Errorf("ratios = %v/%v/%v, want floors 0.1/0.3/0.1",
			got.DiscretionaryRatio, got.EssentialRatio, got.RecurringExpenseRatio)
	}
}

func TestExtractFeatures_MonthlyVolatility(t *testing.T) {
	// Two months at 100 and 200: stdev/mean = 70.71/150.
	transactions := []core.Transaction{
		{Amount: -100, Category: "groceries", Date: "2024-01-15"},
		{Amount: -200, Category: "groceries", Date: "2024-02-15"},
	}

	got := ExtractFeatures(transactions)
	if math.Abs(got.SpendingVolatility-0.4714) > 0.001 {
		t.Errorf("SpendingVolatility = %v, want ≈0.4714", got.SpendingVolatility)
	}
}

func TestClassifier_Predict(t *testing.T) {
	c := NewClassifier("", 1000, 42)

	tests := []struct {
		name     string
		features Features
		want     string
	}{
		{
			name: "frugal center",
			features: Features{
				SavingsRate:           0.35,
				SpendingVolatility:    0.2,
				DiscretionaryRatio:    0.15,
				EssentialRatio:        0.6,
				RecurringExpenseRatio: 0.25,
			},
			want: "Frugal",
		},
		{
			name: "balanced center",
			features: Features{
				SavingsRate:           0.20,
				SpendingVolatility:    0.2,
				DiscretionaryRatio:    0.30,
				EssentialRatio:        0.6,
				RecurringExpenseRatio: 0.25,
			},
			want: "Balanced",
		},
		{
			name: "big spender center",
			features: Features{
				SavingsRate:           0.05,
				SpendingVolatility:    0.2,
				DiscretionaryRatio:    0.60,
				EssentialRatio:        0.6,
				RecurringExpenseRatio: 0.25,
			},
			want: "Big Spender",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, confidence := c.Predict(tt.features)
			if label != tt.want {
				t.Errorf("Predict() label = %q, want %q", label, tt.want)
			}
			if confidence <= 0 || confidence > 1 || math.IsNaN(confidence) {
				t.Errorf("Predict() confidence = %v, want in (0, 1]", confidence)
			}
		})
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := NewClassifier("", 1000, 42)
	features := Features{
		SavingsRate:           0.12,
		SpendingVolatility:    0.3,
		DiscretionaryRatio:    0.45,
		EssentialRatio:        0.5,
		RecurringExpenseRatio: 0.2,
	}

	label1, conf1 := c.Predict(features)
	label2, conf2 := c.Predict(features)
	if label1 != label2 || conf1 != conf2 {
		t.Errorf("repeated predictions differ: %q/%v vs %q/%v", label1, conf1, label2, conf2)
	}

	// A separately trained classifier with the same seed agrees.
	other := NewClassifier("", 1000, 42)
	label3, conf3 := other.Predict(features)
	if label1 != label3 || conf1 != conf3 {
		t.Errorf("retrained model diverges: %q/%v vs %q/%v", label1, conf1, label3, conf3)
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier("", 1000, 42)

	if got := c.Classify(nil); got != nil {
		t.Errorf("Classify(empty) = %+v, want nil", got)
	}

	got := c.Classify([]core.Transaction{
		{Amount: 2000, Date: "2024-03-01"},
		{Amount: -300, Category: "dining", Date: "2024-03-05"},
		{Amount: -400, Category: "rent", Date: "2024-03-06"},
	})
	if got == nil {
		t.Fatal("Classify() = nil, want personality")
	}
	if got.PersonalityType == "" {
		t.Error("PersonalityType is empty")
	}
	if got.Confidence <= 0 || got.Confidence > 1 || math.IsNaN(got.Confidence) {
		t.Errorf("Confidence = %v, want in (0, 1]", got.Confidence)
	}
}

func TestClassifier_ParameterCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personality.db")
	features := Features{
		SavingsRate:           0.35,
		SpendingVolatility:    0.2,
		DiscretionaryRatio:    0.15,
		EssentialRatio:        0.6,
		RecurringExpenseRatio: 0.25,
	}

	first := NewClassifier(path, 1000, 42)
	label1, conf1 := first.Predict(features)

	// Second holder loads the cached parameters instead of retraining.
	second := NewClassifier(path, 1000, 42)
	label2, conf2 := second.Predict(features)

	if label1 != label2 || conf1 != conf2 {
		t.Errorf("cached model diverges: %q/%v vs %q/%v", label1, conf1, label2, conf2)
	}
}

func TestClassifyCategory(t *testing.T) {
	tests := []struct {
		category string
		want     categoryClass
	}{
		{"dining", classDiscretionary},
		{"  Travel ", classDiscretionary},
		{"RENT", classEssential},
		{"loan_payments", classRecurring},
		{"", classOther},
		{"mystery", classOther},
	}

	for _, tt := range tests {
		if got := classifyCategory(tt.category); got != tt.want {
			t.Errorf("classifyCategory(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}
