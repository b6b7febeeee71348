package predictor

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
)

const (
	// MinSamples is the smallest table the predictor will fit.
	MinSamples = 25
	splitSeed  = 42
)

// ErrInsufficientData is returned for tables smaller than MinSamples.
var ErrInsufficientData = errors.New("insufficient data after preprocessing")

// TrainAndRank fits next-season points on an 80/20 split of table, reports test-split R^2 and
// MSE, then scores every row and returns the topN players by predicted improvement.
// Identical tables always produce identical results.
func TrainAndRank(table stats.TrainingTable, season, topN int) (stats.ModelResult, error) {
	n := len(table)
	if n < MinSamples {
		return stats.ModelResult{}, fmt.Errorf("%w: need at least %d rows, got %d", ErrInsufficientData, MinSamples, n)
	}

	train, test := Split(table)
	model, err := Fit(train)
	if err != nil {
		return stats.ModelResult{}, err
	}
	r2, mse := Evaluate(model, test)

	return stats.ModelResult{
		Season:       season,
		R2:           r2,
		MSE:          mse,
		Samples:      n,
		TopImprovers: Rank(model, table, topN),
	}, nil
}

// Split partitions rows with a seeded permutation: the first ceil(n/5) permuted rows are the
// test split and the remainder trains.
func Split(table stats.TrainingTable) (train, test []stats.TrainingRow) {
	n := len(table)
	testSize := (n + 4) / 5
	perm := rand.New(rand.NewSource(splitSeed)).Perm(n)

	test = make([]stats.TrainingRow, 0, testSize)
	train = make([]stats.TrainingRow, 0, n-testSize)
	for i, idx := range perm {
		if i < testSize {
			test = append(test, table[idx])
		} else {
			train = append(train, table[idx])
		}
	}
	return train, test
}

// Evaluate returns the coefficient of determination and mean squared error on rows.
// When the targets have zero variance R^2 is 1 for an exact fit and 0 otherwise.
func Evaluate(m *Model, rows []stats.TrainingRow) (r2, mse float64) {
	if len(rows) == 0 {
		return 0, 0
	}
	actual := make([]float64, len(rows))
	predicted := make([]float64, len(rows))
	for i, r := range rows {
		actual[i] = r.NextPts
		predicted[i] = m.Predict(r)
	}

	residuals := make([]float64, len(rows))
	floats.SubTo(residuals, actual, predicted)
	ssRes := floats.Dot(residuals, residuals)
	mse = ssRes / float64(len(rows))

	mean := stat.Mean(actual, nil)
	var ssTot float64
	for _, a := range actual {
		ssTot += (a - mean) * (a - mean)
	}
	switch {
	case ssTot > 0:
		r2 = stat.RSquaredFrom(predicted, actual, nil)
	case ssRes == 0:
		r2 = 1
	default:
		r2 = 0
	}
	return r2, mse
}

// Rank scores every row and returns the topN by predicted improvement, highest first.
// Rows with equal improvement keep their table order.
func Rank(m *Model, table stats.TrainingTable, topN int) []stats.RankedPlayer {
	scored := make([]stats.RankedPlayer, len(table))
	for i, r := range table {
		next := m.Predict(r)
		scored[i] = stats.RankedPlayer{
			PlayerName:           r.PlayerName,
			Pts:                  r.Pts,
			PredictedNextPts:     next,
			PredictedImprovement: next - r.Pts,
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PredictedImprovement > scored[j].PredictedImprovement
	})

	if topN < 0 {
		topN = 0
	}
	if topN > len(scored) {
		topN = len(scored)
	}
	return scored[:topN:topN]
}
