package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/welldecline/timeseries"
)

// errSingular reports a design matrix without full column rank.
var errSingular = errors.New("singular design matrix")

// olsFit holds the result of an ordinary least squares regression.
type olsFit struct {
	Coeffs  []float64
	StdErrs []float64
	SSR     float64 // sum of squared residuals
	NObs    int
	K       int // number of regressors
}

// TStat returns the t statistic of coefficient i.
func (f *olsFit) TStat(i int) float64 {
	return f.Coeffs[i] / f.StdErrs[i]
}

// LogLik returns the Gaussian log-likelihood at the fitted coefficients.
func (f *olsFit) LogLik() float64 {
	n := float64(f.NObs)
	return -n / 2 * (math.Log(2*math.Pi) + math.Log(f.SSR/n) + 1)
}

// AIC returns -2*loglik + 2*k.
func (f *olsFit) AIC() float64 {
	return -2*f.LogLik() + 2*float64(f.K)
}

// BIC returns -2*loglik + k*log(n).
func (f *olsFit) BIC() float64 {
	return -2*f.LogLik() + float64(f.K)*math.Log(float64(f.NObs))
}

// olsRegression regresses y on the columns of x. Rows of x are observations.
func olsRegression(x [][]float64, y []float64) (*olsFit, error) {
	n := len(y)
	if n == 0 || len(x) != n {
		return nil, fmt.Errorf("%w: %d observations for %d rows", timeseries.ErrInsufficientData, n, len(x))
	}
	k := len(x[0])
	if n <= k {
		return nil, fmt.Errorf("%w: %d observations for %d regressors", timeseries.ErrInsufficientData, n, k)
	}

	design := mat.NewDense(n, k, nil)
	for i, row := range x {
		design.SetRow(i, row)
	}
	target := mat.NewVecDense(n, y)

	var xtx mat.Dense
	xtx.Mul(design.T(), design)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, errSingular
	}

	var qr mat.QR
	qr.Factorize(design)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, target); err != nil {
		return nil, errSingular
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &beta)
	var resid mat.VecDense
	resid.SubVec(target, &fitted)
	ssr := mat.Dot(&resid, &resid)

	s2 := ssr / float64(n-k)
	coeffs := make([]float64, k)
	stdErrs := make([]float64, k)
	for i := 0; i < k; i++ {
		coeffs[i] = beta.AtVec(i)
		stdErrs[i] = math.Sqrt(s2 * xtxInv.At(i, i))
	}

	return &olsFit{
		Coeffs:  coeffs,
		StdErrs: stdErrs,
		SSR:     ssr,
		NObs:    n,
		K:       k,
	}, nil
}
