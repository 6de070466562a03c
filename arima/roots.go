package arima

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// companionModulus returns the largest eigenvalue modulus of the companion
// matrix whose first row is coeffs. For the AR polynomial
// 1 - phi_1 B - ... - phi_p B^p the first row is phi, and the process is
// stationary when the result is below one.
func companionModulus(coeffs []float64) float64 {
	k := len(coeffs)
	switch k {
	case 0:
		return 0
	case 1:
		return math.Abs(coeffs[0])
	}

	for _, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return math.Inf(1)
		}
	}

	companion := mat.NewDense(k, k, nil)
	companion.SetRow(0, coeffs)
	for i := 1; i < k; i++ {
		companion.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return math.Inf(1)
	}

	largest := 0.0
	for _, v := range eig.Values(nil) {
		largest = math.Max(largest, cmplx.Abs(v))
	}
	return largest
}

// maxRootModulus combines the AR stationarity and MA invertibility checks.
// The MA polynomial 1 + theta_1 B + ... maps to a companion row of -theta.
func maxRootModulus(phi, theta []float64) float64 {
	ar := companionModulus(phi)

	negTheta := make([]float64, len(theta))
	for i, v := range theta {
		negTheta[i] = -v
	}
	return math.Max(ar, companionModulus(negTheta))
}

// stationary reports whether AR coefficients phi describe a stationary process.
func stationary(phi []float64) bool {
	return companionModulus(phi) < 1
}

// yuleWalker estimates AR coefficients using Yule-Walker equations.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)

	// Simple case for AR(1)
	if order == 1 {
		phi[0] = acf[1]
		return phi
	}

	// Levinson-Durbin recursion
	phi[0] = acf[1]
	v := 1 - phi[0]*phi[0]

	for i := 1; i < order; i++ {
		if v <= 0 {
			break
		}
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		// Update phi
		newPhi := make([]float64, i+1)
		for j := 0; j < i; j++ {
			newPhi[j] = phi[j] - lambda*phi[i-1-j]
		}
		newPhi[i] = lambda
		copy(phi, newPhi)

		v *= 1 - lambda*lambda
	}

	return phi
}
