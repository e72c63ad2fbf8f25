// Package forecast fits a degree-2 polynomial to the sales history and
// extrapolates cups sold for a given day.
package forecast

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/teranos/barista/errors"
	"github.com/teranos/barista/logger"
	"github.com/teranos/barista/sales"
)

// Degree of the fitted polynomial
const Degree = 2

// rcond is the relative cutoff below which singular values count as zero
const rcond = 1e-12

// Model is a fitted curve y = c0 + c1*x + c2*x².
type Model struct {
	coefficients [Degree + 1]float64
	rank         int
	samples      int
}

// Fitter fits models and logs each fit
type Fitter struct {
	logger *zap.SugaredLogger
}

// NewFitter creates a Fitter; a nil logger uses the global one
func NewFitter(log *zap.SugaredLogger) *Fitter {
	if log == nil {
		log = logger.Logger
	}
	return &Fitter{logger: log}
}

// Fit is NewFitter(nil).Fit
func Fit(observations []sales.Observation) (*Model, error) {
	return NewFitter(nil).Fit(observations)
}

// Fit solves the least-squares problem for observations.
//
// The design matrix is solved through its SVD, so fewer than three distinct days
// still produce a model: the minimum-norm solution.
func (f *Fitter) Fit(observations []sales.Observation) (*Model, error) {
	n := len(observations)
	if n == 0 {
		return nil, errors.NewInvalidArgumentError("cannot fit an empty sales history")
	}

	// Columns are scaled to unit max so x² does not dominate the conditioning.
	var scale [Degree + 1]float64
	for i := range scale {
		scale[i] = 1
	}
	for _, o := range observations {
		x := float64(o.DayIndex)
		for p := 1; p <= Degree; p++ {
			scale[p] = math.Max(scale[p], math.Pow(x, float64(p)))
		}
	}

	a := mat.NewDense(n, Degree+1, nil)
	b := mat.NewVecDense(n, nil)
	for i, o := range observations {
		x := float64(o.DayIndex)
		for p := 0; p <= Degree; p++ {
			a.Set(i, p, math.Pow(x, float64(p))/scale[p])
		}
		b.SetVec(i, float64(o.CupsSold))
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errors.New("SVD factorization of sales design matrix failed")
	}
	rank := svd.Rank(rcond)
	if rank == 0 {
		return nil, errors.New("sales design matrix has rank zero")
	}

	var solution mat.VecDense
	svd.SolveVecTo(&solution, b, rank)

	m := &Model{rank: rank, samples: n}
	for p := 0; p <= Degree; p++ {
		m.coefficients[p] = solution.AtVec(p) / scale[p]
	}

	f.logger.Debugw("Fitted sales forecast",
		logger.FieldCount, n,
		logger.FieldRank, rank,
		"coefficients", m.coefficients)
	return m, nil
}

// Evaluate returns the raw curve value at day
func (m *Model) Evaluate(day int) float64 {
	x := float64(day)
	return m.coefficients[0] + m.coefficients[1]*x + m.coefficients[2]*x*x
}

// Predict returns the curve value at day rounded half away from zero.
// The result is not clamped and may be negative far outside the history.
// Values that do not fit in an int are an error.
func (m *Model) Predict(day int) (int, error) {
	if day < 1 {
		return 0, errors.NewInvalidArgumentError("day index must be positive, got %d", day)
	}
	v := m.Evaluate(day)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Newf("forecast for day %d is not finite", day)
	}
	r := math.Round(v)
	if r < math.MinInt || r >= math.MaxInt+1 {
		return 0, errors.Newf("forecast for day %d is out of range: %g", day, v)
	}
	return int(r), nil
}

// Coefficients returns c0, c1, c2
func (m *Model) Coefficients() [Degree + 1]float64 {
	return m.coefficients
}

// Rank is the numerical rank of the design matrix; below 3 the fit is
// under-determined.
func (m *Model) Rank() int {
	return m.rank
}

// Samples is the number of observations the model was fitted on
func (m *Model) Samples() int {
	return m.samples
}
