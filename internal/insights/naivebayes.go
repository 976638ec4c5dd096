package insights

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// personalityTypes in model class order.
var personalityTypes = []string{"Frugal", "Balanced", "Spender", "Big Spender"}

// naiveBayes is a Gaussian naive-Bayes model over the five behavioral
// features. Fields are exported for the parameter cache.
type naiveBayes struct {
	Classes   []string    `json:"classes"`
	Priors    []float64   `json:"priors"`
	Means     [][]float64 `json:"means"`
	Variances [][]float64 `json:"variances"`
}

const (
	numFeatures   = 5
	varianceFloor = 1e-9
)

// predict returns the most probable class label and its posterior
// probability.
func (m *naiveBayes) predict(x []float64) (string, float64) {
	logPosteriors := make([]float64, len(m.Classes))
	for c := range m.Classes {
		lp := math.Log(m.Priors[c])
		for j, v := range x {
			variance := m.Variances[c][j]
			diff := v - m.Means[c][j]
			lp += -0.5*math.Log(2*math.Pi*variance) - diff*diff/(2*variance)
		}
		logPosteriors[c] = lp
	}

	// Normalize in log space before exponentiating.
	maxLog := logPosteriors[0]
	for _, lp := range logPosteriors[1:] {
		if lp > maxLog {
			maxLog = lp
		}
	}
	var sum float64
	probs := make([]float64, len(logPosteriors))
	for c, lp := range logPosteriors {
		probs[c] = math.Exp(lp - maxLog)
		sum += probs[c]
	}

	best := 0
	for c := range probs {
		probs[c] /= sum
		if probs[c] > probs[best] {
			best = c
		}
	}
	return m.Classes[best], probs[best]
}

// trainPersonalityModel fits the model on a synthetic labeled set. Each
// class sits at a distinct center in (savings_rate, discretionary_ratio)
// space; the other three features are drawn from fixed class-independent
// distributions. The seeded source makes training deterministic.
func trainPersonalityModel(samples int, seed int64) *naiveBayes {
	rng := rand.New(rand.NewSource(seed))

	rows := make([][]float64, 0, samples)
	labels := make([]int, 0, samples)
	for i := 0; i < samples; i++ {
		var savingsRate, discretionaryRatio float64
		var class int
		switch {
		case i < samples/4: // Frugal: high savings, low discretionary
			savingsRate = rng.NormFloat64()*0.05 + 0.35
			discretionaryRatio = rng.NormFloat64()*0.03 + 0.15
			class = 0
		case i < samples/2: // Balanced: moderate on both
			savingsRate = rng.NormFloat64()*0.04 + 0.20
			discretionaryRatio = rng.NormFloat64()*0.05 + 0.30
			class = 1
		case i < 3*samples/4: // Spender: low savings, high discretionary
			savingsRate = rng.NormFloat64()*0.05 + 0.10
			discretionaryRatio = rng.NormFloat64()*0.06 + 0.45
			class = 2
		default: // Big Spender: very low savings, very high discretionary
			savingsRate = rng.NormFloat64()*0.03 + 0.05
			discretionaryRatio = rng.NormFloat64()*0.07 + 0.60
			class = 3
		}

		rows = append(rows, []float64{
			maxFloat(0.01, savingsRate),
			rng.NormFloat64()*0.1 + 0.2,
			clamp(discretionaryRatio, 0.01, 0.8),
			rng.NormFloat64()*0.1 + 0.6,
			rng.NormFloat64()*0.08 + 0.25,
		})
		labels = append(labels, class)
	}

	model := &naiveBayes{
		Classes:   personalityTypes,
		Priors:    make([]float64, len(personalityTypes)),
		Means:     make([][]float64, len(personalityTypes)),
		Variances: make([][]float64, len(personalityTypes)),
	}

	for c := range personalityTypes {
		columns := make([][]float64, numFeatures)
		for i, row := range rows {
			if labels[i] != c {
				continue
			}
			for j, v := range row {
				columns[j] = append(columns[j], v)
			}
		}

		model.Priors[c] = float64(len(columns[0])) / float64(len(rows))
		model.Means[c] = make([]float64, numFeatures)
		model.Variances[c] = make([]float64, numFeatures)
		for j, col := range columns {
			mean, variance := stat.MeanVariance(col, nil)
			model.Means[c][j] = mean
			model.Variances[c][j] = maxFloat(variance, varianceFloor)
		}
	}

	return model
}
