package insights

import (
	"strings"
	"sync"

	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/grokalmighty/PennyPincher/internal/core"
)

// categoryClass tags a transaction category for feature extraction.
// Unrecognized categories are classOther and contribute to no ratio.
type categoryClass int

const (
	classOther categoryClass = iota
	classDiscretionary
	classEssential
	classRecurring
)

var categoryClasses = map[string]categoryClass{
	"dining":        classDiscretionary,
	"entertainment": classDiscretionary,
	"shopping":      classDiscretionary,
	"hobbies":       classDiscretionary,
	"travel":        classDiscretionary,

	"rent":           classEssential,
	"utilities":      classEssential,
	"groceries":      classEssential,
	"transportation": classEssential,
	"healthcare":     classEssential,

	"subscriptions": classRecurring,
	"memberships":   classRecurring,
	"loan_payments": classRecurring,
}

func classifyCategory(category string) categoryClass {
	return categoryClasses[strings.ToLower(strings.TrimSpace(category))]
}

type (
	// Features are the five normalized behavioral inputs to the
	// personality model, each clamped to a plausible range.
	Features struct {
		SavingsRate           float64 `json:"savings_rate"`
		SpendingVolatility    float64 `json:"spending_volatility"`
		DiscretionaryRatio    float64 `json:"discretionary_ratio"`
		EssentialRatio        float64 `json:"essential_ratio"`
		RecurringExpenseRatio float64 `json:"recurring_expense_ratio"`
	}

	Personality struct {
		PersonalityType string   `json:"personality_type"`
		Features        Features `json:"features"`
		Confidence      float64  `json:"confidence"`
	}
)

// vector returns the features in model order.
func (f Features) vector() []float64 {
	return []float64{
		f.SavingsRate,
		f.SpendingVolatility,
		f.DiscretionaryRatio,
		f.EssentialRatio,
		f.RecurringExpenseRatio,
	}
}

// ExtractFeatures derives the behavioral feature vector from a transaction
// history. Degenerate inputs (zero income, zero expenses, under two months
// of data) fall back to documented defaults before clamping.
func ExtractFeatures(transactions []core.Transaction) Features {
	if len(transactions) == 0 {
		return Features{}
	}

	var income, expenses float64
	var discretionary, essential, recurring float64
	monthly := make(map[string]float64)

	for _, t := range transactions {
		if t.Amount > 0 {
			income += t.Amount
			continue
		}
		if t.Amount == 0 {
			continue
		}

		amount := -t.Amount
		expenses += amount
		switch classifyCategory(t.Category) {
		case classDiscretionary:
			discretionary += amount
		case classEssential:
			essential += amount
		case classRecurring:
			recurring += amount
		}
		if d, err := core.ParseDate(t.Date); err == nil {
			monthly[d.Format("2006-01")] += amount
		}
	}

	savingsRate := 0.05
	if income > 0 {
		savingsRate = (income - expenses) / income
	}

	discretionaryRatio, essentialRatio, recurringRatio := 0.3, 0.6, 0.2
	if expenses > 0 {
		discretionaryRatio = discretionary / expenses
		essentialRatio = essential / expenses
		recurringRatio = recurring / expenses
	}

	volatility := 0.2
	if len(monthly) > 1 {
		totals := make([]float64, 0, len(monthly))
		for _, v := range monthly {
			totals = append(totals, v)
		}
		mean := stat.Mean(totals, nil)
		if mean > 0 {
			volatility = stat.StdDev(totals, nil) / mean
		}
	}

	return Features{
		SavingsRate:           clamp(savingsRate, 0.01, 0.5),
		SpendingVolatility:    clamp(volatility, 0.1, 0.8),
		DiscretionaryRatio:    clamp(discretionaryRatio, 0.1, 0.8),
		EssentialRatio:        clamp(essentialRatio, 0.3, 0.9),
		RecurringExpenseRatio: clamp(recurringRatio, 0.1, 0.5),
	}
}

// Classifier owns the trained personality model. The model is built (or
// loaded from the parameter cache) at most once per process, on first use.
// Predict is stateless and safe for concurrent callers.
type Classifier struct {
	cachePath string
	samples   int
	seed      int64

	once  sync.Once
	model *naiveBayes
}

// NewClassifier creates a classifier holder. cachePath may be empty to
// disable on-disk parameter caching; samples and seed control the synthetic
// training set.
func NewClassifier(cachePath string, samples int, seed int64) *Classifier {
	if samples < 100 {
		samples = 100
	}
	return &Classifier{cachePath: cachePath, samples: samples, seed: seed}
}

func (c *Classifier) ensure() *naiveBayes {
	c.once.Do(func() {
		if c.cachePath != "" {
			m, err := loadModel(c.cachePath)
			if err == nil {
				slog.Info("loaded personality model from cache", "path", c.cachePath)
				c.model = m
				return
			}
			if err != errModelNotCached {
				slog.Warn("personality model cache unreadable, retraining",
					"path", c.cachePath,
					"error", err)
			}
		}

		c.model = trainPersonalityModel(c.samples, c.seed)
		slog.Info("trained personality model",
			"samples", c.samples,
			"classes", len(c.model.Classes))

		if c.cachePath != "" {
			if err := saveModel(c.cachePath, c.model); err != nil {
				slog.Warn("failed to cache personality model",
					"path", c.cachePath,
					"error", err)
			}
		}
	})
	return c.model
}

// Warm trains or loads the model eagerly. Optional; Predict does the same
// lazily.
func (c *Classifier) Warm() {
	c.ensure()
}

// Predict maps a feature vector to a personality label and the maximum
// predicted class probability. Deterministic for a fixed trained model.
func (c *Classifier) Predict(f Features) (string, float64) {
	return c.ensure().predict(f.vector())
}

// Classify derives features from the transaction history and predicts the
// spending personality. Returns nil when there is no history to read.
func (c *Classifier) Classify(transactions []core.Transaction) *Personality {
	if len(transactions) == 0 {
		return nil
	}
	features := ExtractFeatures(transactions)
	label, confidence := c.Predict(features)
	return &Personality{
		PersonalityType: label,
		Features:        features,
		Confidence:      round2(confidence),
	}
}
