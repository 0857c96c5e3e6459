// Package forecast fits autoregressive integrated models to a price series
// and projects them forward.
//
// Estimation is conditional least squares: the series is differenced D times
// and each differenced value is regressed on its P predecessors without an
// intercept. The fit is deterministic for a given input.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrFit is wrapped by every fitting failure.
	ErrFit = errors.New("model fit failed")
	// ErrUnsupportedOrder is returned for orders the estimator cannot handle.
	ErrUnsupportedOrder = errors.New("unsupported model order")
)

// maxCondition bounds the condition number of the lag design matrix.
const maxCondition = 1e12

// Order is the (p, d, q) order of an ARIMA model.
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// DefaultOrder is the order used by the prediction pipeline.
var DefaultOrder = Order{P: 5, D: 1, Q: 0}

func (o Order) String() string { return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q) }

// MinObservations returns the shortest series Fit accepts for the order:
// after differencing and lagging at least 2P regression rows must remain.
func MinObservations(o Order) int {
	rows := 2 * o.P
	if rows < 1 {
		rows = 1
	}
	return o.D + o.P + rows
}

// Summary describes a fitted model.
type Summary struct {
	Order         Order     `json:"order"`
	Coefficients  []float64 `json:"coefficients"`
	Sigma2        float64   `json:"sigma2"`
	LogLikelihood float64   `json:"log_likelihood"`
	AIC           float64   `json:"aic"`
	NObs          int       `json:"nobs"`
}

// Model is a fitted ARIMA(P,D,0) model.
type Model struct {
	order  Order
	coef   []float64
	sigma2 float64
	nobs   int
	rows   int

	// tail holds the last P values of the D-times differenced series.
	tail []float64
	// lastLevels[k] is the last value of the k-times differenced series, k < D.
	lastLevels []float64
}

// Fit estimates a model of the given order from y.
func Fit(y []float64, order Order) (*Model, error) {
	if order.Q != 0 {
		return nil, fmt.Errorf("%w: %w: moving-average order %d", ErrFit, ErrUnsupportedOrder, order.Q)
	}
	if order.P < 0 || order.D < 0 {
		return nil, fmt.Errorf("%w: %w: %s", ErrFit, ErrUnsupportedOrder, order)
	}
	if need := MinObservations(order); len(y) < need {
		return nil, fmt.Errorf("%w: %s needs at least %d observations, got %d", ErrFit, order, need, len(y))
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite observation at index %d", ErrFit, i)
		}
	}

	levels := difference(y, order.D)
	w := levels[order.D]
	rows := len(w) - order.P

	m := &Model{
		order: order,
		nobs:  len(y),
		rows:  rows,
		tail:  append([]float64(nil), w[len(w)-order.P:]...),
	}
	for k := 0; k < order.D; k++ {
		m.lastLevels = append(m.lastLevels, levels[k][len(levels[k])-1])
	}

	target := w[order.P:]
	residuals := make([]float64, rows)
	if order.P == 0 {
		copy(residuals, target)
	} else {
		x := mat.NewDense(rows, order.P, nil)
		for i := 0; i < rows; i++ {
			t := i + order.P
			for j := 0; j < order.P; j++ {
				x.Set(i, j, w[t-1-j])
			}
		}

		var qr mat.QR
		qr.Factorize(x)
		if c := qr.Cond(); math.IsInf(c, 1) || math.IsNaN(c) || c > maxCondition {
			return nil, fmt.Errorf("%w: lag matrix is singular (condition %.3g)", ErrFit, c)
		}
		var beta mat.VecDense
		if err := qr.SolveVecTo(&beta, false, mat.NewVecDense(rows, append([]float64(nil), target...))); err != nil {
			return nil, fmt.Errorf("%w: least squares: %v", ErrFit, err)
		}
		m.coef = make([]float64, order.P)
		for j := range m.coef {
			m.coef[j] = beta.AtVec(j)
		}
		if !allFinite(m.coef) {
			return nil, fmt.Errorf("%w: non-finite coefficients", ErrFit)
		}
		if err := checkStationary(m.coef); err != nil {
			return nil, err
		}

		var fitted mat.VecDense
		fitted.MulVec(x, &beta)
		floats.SubTo(residuals, target, fitted.RawVector().Data)
	}

	m.sigma2 = floats.Dot(residuals, residuals) / float64(rows)
	if !(m.sigma2 > 0) || math.IsInf(m.sigma2, 0) {
		return nil, fmt.Errorf("%w: degenerate residual variance %g", ErrFit, m.sigma2)
	}
	return m, nil
}

// Order returns the model order.
func (m *Model) Order() Order { return m.order }

// Coefficients returns a copy of the AR coefficients, lag 1 first.
func (m *Model) Coefficients() []float64 { return append([]float64(nil), m.coef...) }

// Summary returns the fit diagnostics. The log-likelihood is the Gaussian
// conditional likelihood of the regression residuals.
func (m *Model) Summary() Summary {
	n := float64(m.rows)
	ll := -n / 2 * (math.Log(2*math.Pi*m.sigma2) + 1)
	return Summary{
		Order:         m.order,
		Coefficients:  m.Coefficients(),
		Sigma2:        m.sigma2,
		LogLikelihood: ll,
		AIC:           -2*ll + 2*float64(m.order.P+1),
		NObs:          m.nobs,
	}
}

// Forecast returns point estimates for the next steps observations.
func (m *Model) Forecast(steps int) ([]float64, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("forecast steps must be positive, got %d", steps)
	}

	w := append(make([]float64, 0, len(m.tail)+steps), m.tail...)
	out := make([]float64, steps)
	for h := range out {
		v := 0.0
		for j, c := range m.coef {
			v += c * w[len(w)-1-j]
		}
		w = append(w, v)
		out[h] = v
	}

	// Undo the differencing, innermost level first.
	for k := len(m.lastLevels) - 1; k >= 0; k-- {
		level := m.lastLevels[k]
		for h := range out {
			level += out[h]
			out[h] = level
		}
	}

	if !allFinite(out) {
		return nil, fmt.Errorf("forecast produced non-finite values")
	}
	return out, nil
}

// difference returns levels[0..d] where levels[k] is y differenced k times.
func difference(y []float64, d int) [][]float64 {
	levels := make([][]float64, d+1)
	levels[0] = y
	for k := 1; k <= d; k++ {
		prev := levels[k-1]
		cur := make([]float64, len(prev)-1)
		for i := range cur {
			cur[i] = prev[i+1] - prev[i]
		}
		levels[k] = cur
	}
	return levels
}

// checkStationary rejects AR polynomials with a root on or inside the unit
// circle, using the eigenvalues of the companion matrix.
func checkStationary(coef []float64) error {
	p := len(coef)
	comp := mat.NewDense(p, p, nil)
	for j, c := range coef {
		comp.Set(0, j, c)
	}
	for i := 1; i < p; i++ {
		comp.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(comp, mat.EigenNone); !ok {
		return fmt.Errorf("%w: eigen decomposition of companion matrix did not converge", ErrFit)
	}
	for _, v := range eig.Values(nil) {
		if r := cmplx.Abs(v); r >= 1 {
			return fmt.Errorf("%w: non-stationary autoregressive part (root modulus %.4f)", ErrFit, r)
		}
	}
	return nil
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
