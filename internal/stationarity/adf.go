// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

// Package stationarity differences the training series and runs the
// augmented Dickey-Fuller unit-root test on the result.
package stationarity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"CopperGold_Causality_VAR_Project/internal/errs"
)

// Result of an augmented Dickey-Fuller test against the alternative "stationary".
type Result struct {
	Variable       string
	Statistic      float64            // t-statistic on the lagged level
	Lags           int                // lagged differences in the regression
	NObs           int                // rows in the test regression
	PValue         float64            // interpolated, within [0.01, 0.99]
	CriticalValues map[string]float64 // "1%", "5%", "10%" at this sample size
	Stationary     bool               // PValue < Alpha
}

// Alpha is the level used for Result.Stationary
const Alpha = 0.05

// Dickey-Fuller critical values for the constant+trend regression
// (rows: sample size, columns: probabilities in adfTableP).
var (
	adfTableT = []float64{25, 50, 100, 250, 500, 100000}
	adfTableP = []float64{0.01, 0.025, 0.05, 0.10, 0.90, 0.95, 0.975, 0.99}
	adfTable  = [][]float64{
		{-4.38, -3.95, -3.60, -3.24, -1.14, -0.80, -0.50, -0.15},
		{-4.15, -3.80, -3.50, -3.18, -1.19, -0.87, -0.58, -0.24},
		{-4.04, -3.73, -3.45, -3.15, -1.22, -0.90, -0.62, -0.28},
		{-3.99, -3.69, -3.43, -3.13, -1.23, -0.92, -0.64, -0.31},
		{-3.98, -3.68, -3.42, -3.13, -1.24, -0.93, -0.65, -0.32},
		{-3.96, -3.66, -3.41, -3.12, -1.25, -0.94, -0.66, -0.33},
	}
)

// ADF runs the test on x with constant and linear trend and
// trunc((len(x)-1)^(1/3)) lagged differences:
//
//	dx_t = a + b*x_{t-1} + c*t + sum_i g_i*dx_{t-i} + e_t
//
// The statistic is the t-value of b. A constant input has no defined statistic
// and returns a FitError, as does a sample too short for the regression.
func ADF(name string, x []float64) (*Result, error) {
	N := len(x)
	if N < 4 {
		return nil, errs.Fit("stationarity", "%s: need at least 4 observations for ADF, got %d", name, N)
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errs.Fit("stationarity", "%s: non-finite value at index %d", name, i)
		}
	}
	if stat.Variance(x, nil) == 0 {
		return nil, errs.Fit("stationarity", "%s: series is constant, ADF statistic undefined", name)
	}

	lags := int(math.Trunc(math.Pow(float64(N-1), 1.0/3.0)))
	k := lags + 1

	// first differences
	n := N - 1
	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		dx[i] = x[i+1] - x[i]
	}

	nObs := n - k + 1
	m := 3 + lags // const, level, trend, lagged diffs
	if nObs <= m {
		return nil, errs.Fit("stationarity", "%s: %d observations leave no degrees of freedom for %d regressors",
			name, nObs, m)
	}

	X := mat.NewDense(nObs, m, nil)
	y := mat.NewVecDense(nObs, nil)
	for r := 0; r < nObs; r++ {
		t := r + k - 1 // index into dx
		y.SetVec(r, dx[t])
		X.Set(r, 0, 1.0)
		X.Set(r, 1, x[t])
		X.Set(r, 2, float64(t+1))
		for j := 1; j <= lags; j++ {
			X.Set(r, 2+j, dx[t-j])
		}
	}

	beta, se, err := olsWithSE(X, y)
	if err != nil {
		return nil, errs.Wrap(errs.ErrFit, "stationarity", err, "%s: ADF regression", name)
	}
	if se[1] == 0 || math.IsNaN(se[1]) {
		return nil, errs.Fit("stationarity", "%s: zero standard error on lagged level", name)
	}
	tStat := beta[1] / se[1]
	if math.IsNaN(tStat) || math.IsInf(tStat, 0) {
		return nil, errs.Fit("stationarity", "%s: ADF statistic is not finite", name)
	}

	// critical values at this sample size, then p-value from the statistic
	crit := make([]float64, len(adfTableP))
	for j := range adfTableP {
		col := make([]float64, len(adfTableT))
		for i := range adfTableT {
			col[i] = adfTable[i][j]
		}
		crit[j] = interpolate(adfTableT, col, float64(n))
	}
	pValue := interpolate(crit, adfTableP, tStat)

	return &Result{
		Variable:  name,
		Statistic: tStat,
		Lags:      lags,
		NObs:      nObs,
		PValue:    pValue,
		CriticalValues: map[string]float64{
			"1%":  crit[0],
			"5%":  crit[2],
			"10%": crit[3],
		},
		Stationary: pValue < Alpha,
	}, nil
}

// olsWithSE returns OLS coefficients and their standard errors via the SVD of X.
// (X'X)^-1 = V diag(1/s^2) V'.
func olsWithSE(X *mat.Dense, y *mat.VecDense) (beta, se []float64, err error) {
	n, m := X.Dims()

	var svd mat.SVD
	if !svd.Factorize(X, mat.SVDThin) {
		return nil, nil, fmt.Errorf("SVD factorization failed")
	}
	if rank := svd.Rank(1e-12); rank < m {
		return nil, nil, fmt.Errorf("design matrix is rank deficient: rank %d < %d columns", rank, m)
	}

	var b mat.Dense
	svd.SolveTo(&b, y, m)

	var fitted mat.Dense
	fitted.Mul(X, &b)
	rss := 0.0
	for i := 0; i < n; i++ {
		r := y.AtVec(i) - fitted.At(i, 0)
		rss += r * r
	}
	s2 := rss / float64(n-m)

	sv := svd.Values(nil)
	var V mat.Dense
	svd.VTo(&V)

	beta = make([]float64, m)
	se = make([]float64, m)
	for i := 0; i < m; i++ {
		beta[i] = b.At(i, 0)
		v := 0.0
		for j := 0; j < m; j++ {
			v += V.At(i, j) * V.At(i, j) / (sv[j] * sv[j])
		}
		se[i] = math.Sqrt(s2 * v)
	}
	return beta, se, nil
}

// interpolate is piecewise-linear interpolation of (xs, ys) at x, with xs increasing.
// Outside the range it returns the nearest end value.
func interpolate(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}
	for i := 1; i <= last; i++ {
		if x <= xs[i] {
			w := (x - xs[i-1]) / (xs[i] - xs[i-1])
			return ys[i-1] + w*(ys[i]-ys[i-1])
		}
	}
	return ys[last]
}
