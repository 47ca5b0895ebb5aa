// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"CopperGold_Causality_VAR_Project/internal/errs"
)

// SelectLag fits VAR(p) for p = 1..lagMax on the same usable sample (rows lagMax..T-1)
// and computes AIC, HQ, SC and FPE for each order.
// Selected is the AIC minimiser; on ties the smallest p wins.
func SelectLag(ts *TimeSeries, lagMax int, det Deterministic) (*LagSelection, error) {
	if ts == nil || ts.Y == nil {
		return nil, errs.Estimation("lag selection", "time series data not provided")
	}
	if lagMax < 1 {
		return nil, errs.Estimation("lag selection", "lag.max must be >= 1, got %d", lagMax)
	}
	if err := checkFinite("lag selection", ts); err != nil {
		return nil, err
	}

	T, K := ts.Y.Dims()
	N := T - lagMax
	detCols := det.cols()
	if N <= lagMax*K+detCols {
		return nil, errs.Estimation("lag selection",
			"%d observations are too few for lag.max = %d with %d variables", T, lagMax, K)
	}

	sel := &LagSelection{LagMax: lagMax, NObs: N}
	nf := float64(N)

	for p := 1; p <= lagMax; p++ {
		X, Yreg := designMatrix(ts.Y, p, lagMax, det, -1)
		_, U, err := olsFit(X, Yreg)
		if err != nil {
			return nil, errs.Wrap(errs.ErrEstimation, "lag selection", err, "VAR(%d)", p)
		}

		// sigma = det(U'U / N), the ML residual covariance
		S := mat.NewSymDense(K, nil)
		S.SymOuterK(1/nf, U.T())
		sigma := mat.Det(S)
		if sigma <= 0 || math.IsNaN(sigma) {
			return nil, errs.Estimation("lag selection", "VAR(%d) residual covariance is singular", p)
		}
		logSigma := math.Log(sigma)

		nStar := float64(p*K*K + K*detCols)
		regs := float64(p*K + detCols)

		c := LagCriteria{
			Lags: p,
			AIC:  logSigma + 2*nStar/nf,
			HQ:   logSigma + 2*math.Log(math.Log(nf))*nStar/nf,
			SC:   logSigma + math.Log(nf)*nStar/nf,
			FPE:  math.Pow((nf+regs)/(nf-regs), float64(K)) * sigma,
		}
		sel.Criteria = append(sel.Criteria, c)
	}

	sel.Selected = argmin(sel.Criteria, func(c LagCriteria) float64 { return c.AIC })
	sel.ByHQ = argmin(sel.Criteria, func(c LagCriteria) float64 { return c.HQ })
	sel.BySC = argmin(sel.Criteria, func(c LagCriteria) float64 { return c.SC })
	sel.ByFPE = argmin(sel.Criteria, func(c LagCriteria) float64 { return c.FPE })

	return sel, nil
}

// argmin returns the lag order with the smallest criterion value; strict < keeps the first (smallest p) on ties
func argmin(cs []LagCriteria, f func(LagCriteria) float64) int {
	best := cs[0].Lags
	bestVal := f(cs[0])
	for _, c := range cs[1:] {
		if v := f(c); v < bestVal {
			best, bestVal = c.Lags, v
		}
	}
	return best
}
