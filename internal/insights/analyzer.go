// Package insights derives behavioral patterns, balance projections,
// goal-progress assessments, and a spending-personality classification from
// an account's transaction history. Every analysis runs over an immutable
// snapshot and degrades to an absent result on insufficient or malformed
// data instead of surfacing an error.
package insights

import (
	"context"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/grokalmighty/PennyPincher/internal/core"
)

// AccountInsights aggregates the four analytical modules. Keys absent from
// the JSON payload mean that module had insufficient data.
type AccountInsights struct {
	TimePatterns        *TimePatterns `json:"time_patterns,omitempty"`
	Projections         *Projections  `json:"projections,omitempty"`
	GoalProgress        *GoalProgress `json:"goal_progress,omitempty"`
	SpendingPersonality *Personality  `json:"spending_personality,omitempty"`
}

// Empty reports whether no module produced a result.
func (i AccountInsights) Empty() bool {
	return i.TimePatterns == nil && i.Projections == nil &&
		i.GoalProgress == nil && i.SpendingPersonality == nil
}

// Analyzer fans an account snapshot out to the analytical modules. The
// modules are pure and share nothing but the classifier's trained model, so
// they run concurrently.
type Analyzer struct {
	classifier *Classifier
}

func NewAnalyzer(classifier *Classifier) *Analyzer {
	return &Analyzer{classifier: classifier}
}

// Analyze runs every applicable module over the account snapshot. Goal
// tracking only applies to goal accounts with a deadline.
func (a *Analyzer) Analyze(ctx context.Context, account core.Account, now time.Time) AccountInsights {
	var out AccountInsights

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.TimePatterns = AnalyzeTimePatterns(account.Transactions)
		return nil
	})
	g.Go(func() error {
		out.Projections = ProjectBalances(account, now)
		return nil
	})
	g.Go(func() error {
		out.SpendingPersonality = a.classifier.Classify(account.Transactions)
		return nil
	})
	if account.Type == core.Goal && account.Deadline != "" {
		g.Go(func() error {
			out.GoalProgress = TrackGoal(account, now)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func filterExpenses(transactions []core.Transaction) []core.Transaction {
	var out []core.Transaction
	for _, t := range transactions {
		if t.Amount < 0 {
			out = append(out, t)
		}
	}
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
