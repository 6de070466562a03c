// Package arima implements ARIMA (AutoRegressive Integrated Moving Average) models.
package arima

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/welldecline/stats"
	"github.com/sartorproj/welldecline/timeseries"
)

// ErrFit reports that a model could not be estimated: the optimizer did not
// converge or found no admissible parameters.
var ErrFit = errors.New("arima: fit failed")

// DefaultMaxIterations bounds the Nelder-Mead major iterations of a fit.
const DefaultMaxIterations = 5000

// penaltyBase is returned by the objective outside the stationary and
// invertible region. It dominates any realistic sum of squares.
const penaltyBase = 1e10

// Order represents ARIMA model order (p, d, q).
type Order struct {
	P int `json:"p"` // AR order (number of autoregressive terms)
	D int `json:"d"` // Differencing order
	Q int `json:"q"` // MA order (number of moving average terms)
}

// String formats the order as ARIMA(p,d,q).
func (o Order) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
}

// ParseOrder parses "p,d,q", with optional surrounding parentheses.
func ParseOrder(s string) (Order, error) {
	trimmed := strings.Trim(strings.TrimSpace(s), "()")
	parts := strings.Split(trimmed, ",")
	if len(parts) != 3 {
		return Order{}, fmt.Errorf("%w: order %q must have three comma separated terms", timeseries.ErrDomain, s)
	}

	var terms [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 {
			return Order{}, fmt.Errorf("%w: order %q has invalid term %q", timeseries.ErrDomain, s, part)
		}
		terms[i] = v
	}
	return Order{P: terms[0], D: terms[1], Q: terms[2]}, nil
}

// Model represents an ARIMA model.
type Model struct {
	Order     Order
	ARCoeffs  []float64 // AR coefficients (phi)
	MACoeffs  []float64 // MA coefficients (theta)
	Intercept float64   // mean of the differenced series
	Variance  float64   // Residual variance
	AIC       float64
	AICc      float64 // Corrected AIC for small sample sizes
	BIC       float64
	LogLik    float64

	// MaxIterations bounds the optimizer; zero means DefaultMaxIterations.
	MaxIterations int
	// Iterations and Evaluations record the optimizer effort of the last fit.
	Iterations  int
	Evaluations int

	fitted     bool
	data       *timeseries.Series
	diffData   *timeseries.Series
	residuals  []float64
	fittedVals []float64
}

// New creates a new ARIMA model with the specified order.
func New(p, d, q int) *Model {
	return &Model{
		Order:         Order{P: p, D: d, Q: q},
		ARCoeffs:      make([]float64, max(p, 0)),
		MACoeffs:      make([]float64, max(q, 0)),
		MaxIterations: DefaultMaxIterations,
	}
}

// NewFromOrder creates a model from an Order value.
func NewFromOrder(o Order) *Model {
	return New(o.P, o.D, o.Q)
}

// Fit estimates the model on series by conditional sum of squares. The
// series is differenced Order.D times; the fitted values and residuals are
// aligned to that differenced series.
func (m *Model) Fit(ctx context.Context, series *timeseries.Series) error {
	p, d, q := m.Order.P, m.Order.D, m.Order.Q
	if p < 0 || d < 0 || q < 0 {
		return fmt.Errorf("%w: negative order %s", timeseries.ErrDomain, m.Order)
	}
	if n := series.Len(); n-d < p+q+3 {
		return fmt.Errorf("%w: %s needs at least %d observations, got %d",
			timeseries.ErrInsufficientData, m.Order, p+q+3+d, n)
	}
	for _, v := range series.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: series contains undefined values", timeseries.ErrMalformedInput)
		}
	}

	m.data = series
	m.diffData = series.DiffN(d)
	m.fitted = false

	if err := m.fitCSS(ctx); err != nil {
		return err
	}

	m.calculateIC()
	m.fitted = true
	return nil
}

// fitCSS fits the model using Conditional Sum of Squares estimation.
func (m *Model) fitCSS(ctx context.Context) error {
	y := m.diffData.Values
	p := m.Order.P
	q := m.Order.Q

	mean := stat.Mean(y, nil)

	if p == 0 && q == 0 {
		// Just a white noise model
		m.Intercept = mean
		m.Iterations, m.Evaluations = 0, 0
		m.computeResiduals(y)
		return nil
	}

	// Parameter vector: [mu, phi_1..phi_p, theta_1..theta_q]
	init := make([]float64, 1+p+q)
	init[0] = mean
	if p > 0 {
		if acf, err := stats.ACF(m.diffData, p); err == nil {
			copy(init[1:1+p], yuleWalker(acf, p))
		}
		if !stationary(init[1 : 1+p]) {
			for i := 1; i <= p; i++ {
				init[i] = 0
			}
		}
	}
	// Initialize MA coefficients to small values
	for i := 0; i < q; i++ {
		init[1+p+i] = 0.1
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return cssObjective(y, x, p)
		},
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}

	maxIter := m.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	settings := &optimize.Settings{
		MajorIterations: maxIter,
		FuncEvaluations: 20 * maxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 100,
		},
	}

	result, err := optimize.Minimize(problem, init, settings, &optimize.NelderMead{})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if result == nil {
		return fmt.Errorf("%w: %s: %v", ErrFit, m.Order, err)
	}
	m.Iterations = result.MajorIterations
	m.Evaluations = result.FuncEvaluations

	switch result.Status {
	case optimize.Success, optimize.FunctionConvergence, optimize.FunctionThreshold,
		optimize.GradientThreshold, optimize.StepConvergence, optimize.MethodConverge:
	default:
		return fmt.Errorf("%w: %s optimizer stopped with status %s after %d iterations",
			ErrFit, m.Order, result.Status, result.MajorIterations)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFit, m.Order, err)
	}
	if result.F >= penaltyBase || math.IsNaN(result.F) {
		return fmt.Errorf("%w: %s found no stationary and invertible parameters", ErrFit, m.Order)
	}

	x := result.X
	m.Intercept = x[0]
	copy(m.ARCoeffs, x[1:1+p])
	copy(m.MACoeffs, x[1+p:])
	m.computeResiduals(y)
	return nil
}

// cssObjective returns the conditional sum of squares for parameters x, or a
// penalty when the AR part is not stationary or the MA part not invertible.
func cssObjective(y, x []float64, p int) float64 {
	phi := x[1 : 1+p]
	theta := x[1+p:]

	if modulus := maxRootModulus(phi, theta); modulus >= 1 {
		return penaltyBase * (1 + modulus)
	}

	e := cssRecursion(y, x[0], phi, theta)
	sse := floats.Dot(e[p:], e[p:])
	if math.IsNaN(sse) || math.IsInf(sse, 0) {
		return penaltyBase
	}
	return sse
}

// cssRecursion computes the one-step residuals for t >= p, treating
// pre-sample residuals as zero. Entries below p stay zero.
func cssRecursion(y []float64, mu float64, phi, theta []float64) []float64 {
	n := len(y)
	p := len(phi)
	e := make([]float64, n)

	for t := p; t < n; t++ {
		pred := mu
		for i := 0; i < p; i++ {
			pred += phi[i] * (y[t-i-1] - mu)
		}
		for j := 0; j < len(theta) && t-j-1 >= 0; j++ {
			pred += theta[j] * e[t-j-1]
		}
		e[t] = y[t] - pred
	}
	return e
}

// computeResiduals fills fitted values, residuals and variance from the
// current parameters. Positions before the first AR lag is available are
// fitted with the intercept.
func (m *Model) computeResiduals(y []float64) {
	n := len(y)
	p, q := m.Order.P, m.Order.Q

	e := cssRecursion(y, m.Intercept, m.ARCoeffs, m.MACoeffs)

	m.fittedVals = make([]float64, n)
	m.residuals = make([]float64, n)
	for t := 0; t < n; t++ {
		if t < p {
			m.fittedVals[t] = m.Intercept
			m.residuals[t] = y[t] - m.Intercept
			continue
		}
		m.fittedVals[t] = y[t] - e[t]
		m.residuals[t] = e[t]
	}

	// Calculate variance
	count := n - p
	sse := floats.Dot(e[p:], e[p:])
	if count > p+q+1 {
		m.Variance = sse / float64(count-p-q-1)
	} else {
		m.Variance = sse / float64(count)
	}
}

// calculateIC calculates the conditional log-likelihood, AIC, AICc, and BIC.
func (m *Model) calculateIC() {
	p := m.Order.P
	e := m.residuals[p:]
	n := len(e)
	k := m.Order.P + m.Order.Q + 1 // number of parameters (AR + MA + intercept)

	sigma2 := floats.Dot(e, e) / float64(n)
	if sigma2 > 0 {
		m.LogLik = -float64(n) / 2 * (math.Log(2*math.Pi*sigma2) + 1)
	} else {
		m.LogLik = math.Inf(1)
	}

	ic := stats.CalculateIC(m.LogLik, n, k)
	m.AIC = ic.AIC
	m.AICc = ic.AICc
	m.BIC = ic.BIC
}

// Fitted reports whether the model has been fitted.
func (m *Model) Fitted() bool {
	return m.fitted
}

// Residuals returns the model residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}

// FittedValues returns the in-sample fitted values of the differenced series.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.fittedVals))
	copy(result, m.fittedVals)
	return result
}

// FittedSeries returns the fitted values with the differenced series' dates.
func (m *Model) FittedSeries() *timeseries.Series {
	if !m.fitted {
		return nil
	}
	out := m.diffData.Copy()
	out.Values = m.FittedValues()
	out.Name = m.diffData.Name + "_fitted"
	return out
}

// Differenced returns the d-th difference of the fitted series.
func (m *Model) Differenced() *timeseries.Series {
	if !m.fitted {
		return nil
	}
	return m.diffData.Copy()
}

// RSS returns the residual sum of squares of the fitted values against the
// differenced series, over every position.
func (m *Model) RSS() float64 {
	if !m.fitted {
		return math.NaN()
	}
	return floats.Dot(m.residuals, m.residuals)
}

// Summary returns a summary of the fitted model.
type Summary struct {
	Order        Order                 `json:"order"`
	ARCoeffs     []float64             `json:"ar"`
	MACoeffs     []float64             `json:"ma"`
	Intercept    float64               `json:"intercept"`
	Variance     float64               `json:"variance"`
	RSS          float64               `json:"rss"`
	AIC          float64               `json:"aic"`
	AICc         float64               `json:"aicc"` // Corrected AIC
	BIC          float64               `json:"bic"`
	LogLik       float64               `json:"log_likelihood"`
	NObs         int                   `json:"observations"`
	Iterations   int                   `json:"iterations"`
	LjungBox     *stats.LjungBoxResult `json:"ljung_box,omitempty"`
	DurbinWatson float64               `json:"durbin_watson,omitempty"`
}

// Summary returns a summary of the fitted model. Residual diagnostics are
// left empty when the residual series is too short for them.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}

	resid := m.residuals[m.Order.P:]
	residSeries := timeseries.New(resid)
	lags := min(10, len(resid)-2)
	lb, err := stats.LjungBox(residSeries, lags, m.Order.P+m.Order.Q)
	if err != nil {
		lb = nil
	}
	dw, err := stats.DurbinWatson(resid)
	if err != nil {
		dw = 0
	}

	return &Summary{
		Order:        m.Order,
		ARCoeffs:     append([]float64(nil), m.ARCoeffs...),
		MACoeffs:     append([]float64(nil), m.MACoeffs...),
		Intercept:    m.Intercept,
		Variance:     m.Variance,
		RSS:          m.RSS(),
		AIC:          m.AIC,
		AICc:         m.AICc,
		BIC:          m.BIC,
		LogLik:       m.LogLik,
		NObs:         m.data.Len(),
		Iterations:   m.Iterations,
		LjungBox:     lb,
		DurbinWatson: dw,
	}
}
