package predictor

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
)

// rcond is the relative singular value cutoff below which directions are treated as null.
const rcond = 1e-10

var errEmptyTraining = errors.New("predictor: no training rows")

// Model is an ordinary least-squares fit with an intercept.
type Model struct {
	coef      [stats.FeatureCount]float64
	intercept float64
}

// Fit solves min ||Xb + c - y||. Features are centered so the intercept is the target mean
// minus the centered contribution; rank-deficient systems use the minimum-norm solution.
func Fit(rows []stats.TrainingRow) (*Model, error) {
	n := len(rows)
	if n == 0 {
		return nil, errEmptyTraining
	}

	var xMean [stats.FeatureCount]float64
	var yMean float64
	for _, r := range rows {
		f := r.Features()
		for j := range f {
			xMean[j] += f[j]
		}
		yMean += r.NextPts
	}
	for j := range xMean {
		xMean[j] /= float64(n)
	}
	yMean /= float64(n)

	x := mat.NewDense(n, stats.FeatureCount, nil)
	y := mat.NewVecDense(n, nil)
	for i, r := range rows {
		f := r.Features()
		for j := range f {
			x.Set(i, j, f[j]-xMean[j])
		}
		y.SetVec(i, r.NextPts-yMean)
	}

	m := &Model{}
	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, errors.New("predictor: svd factorization failed")
	}
	if rank := svd.Rank(rcond); rank > 0 {
		var beta mat.VecDense
		svd.SolveVecTo(&beta, y, rank)
		for j := 0; j < stats.FeatureCount; j++ {
			m.coef[j] = beta.AtVec(j)
		}
	}

	m.intercept = yMean
	for j := range m.coef {
		m.intercept -= m.coef[j] * xMean[j]
	}
	return m, nil
}

// Predict returns the fitted next-season points for one row.
func (m *Model) Predict(row stats.TrainingRow) float64 {
	f := row.Features()
	out := m.intercept
	for j := range f {
		out += m.coef[j] * f[j]
	}
	return out
}

// Coefficients returns the per-feature weights in pts, ast, reb, min order.
func (m *Model) Coefficients() [stats.FeatureCount]float64 {
	return m.coef
}

func (m *Model) Intercept() float64 {
	return m.intercept
}
