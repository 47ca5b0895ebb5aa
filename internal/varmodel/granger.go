// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"CopperGold_Causality_VAR_Project/internal/errs"
)

// GrangerAlpha is the significance level used for GrangerCausalityResult.Significant
const GrangerAlpha = 0.05

// GrangerCausality tests whether causeIdx Granger-causes effectIdx
// in the VAR model. The null hypothesis is that causeIdx does not Granger-cause effectIdx.
// causeIdx: index of the variable that may Granger-cause
// effectIdx: index of the variable that may be Granger-caused
// by causeIdx.
// The unrestricted fit is the model itself; the restricted regression drops every lag of
// the cause from the effect equation and is fit on the model's own sample.
// Returns the F-statistic, degrees of freedom and p-value
func (rf *ReducedFormVAR) GrangerCausality(causeIdx, effectIdx int) (*GrangerCausalityResult, error) {
	if rf == nil || len(rf.A) == 0 || rf.Sample == nil || rf.U == nil {
		return nil, errs.Estimation("causality", "VAR model not estimated")
	}

	ts := rf.Sample
	T, K := ts.Y.Dims()
	p := rf.Model.Lags

	if causeIdx < 0 || causeIdx >= K {
		return nil, errs.Estimation("causality", "causeIdx out of range: %d", causeIdx)
	}
	if effectIdx < 0 || effectIdx >= K {
		return nil, errs.Estimation("causality", "effectIdx out of range: %d", effectIdx)
	}
	if causeIdx == effectIdx {
		return nil, errs.Estimation("causality", "causeIdx and effectIdx cannot be the same")
	}

	Treg := T - p
	mUnrestricted := rf.Model.Deterministic.cols() + p*K

	// --- UNRESTRICTED MODEL (residuals kept from Estimate) ---
	rssUnrestricted := 0.0
	for t := 0; t < Treg; t++ {
		u := rf.U.At(t, effectIdx)
		rssUnrestricted += u * u
	}

	// --- RESTRICTED MODEL: same deterministics, no lags of causeIdx ---
	XRestricted, Yreg := designMatrix(ts.Y, p, p, rf.Model.Deterministic, causeIdx)
	yEffect := mat.DenseCopyOf(Yreg.Slice(0, Treg, effectIdx, effectIdx+1))

	_, residRestricted, err := olsFit(XRestricted, yEffect)
	if err != nil {
		return nil, errs.Wrap(errs.ErrEstimation, "causality", err, "restricted regression %s without %s",
			ts.VarNames[effectIdx], ts.VarNames[causeIdx])
	}
	rssRestricted := 0.0
	for t := 0; t < Treg; t++ {
		r := residRestricted.At(t, 0)
		rssRestricted += r * r
	}

	// F-statistic and p-value
	q := p                      // number of restrictions
	dof := Treg - mUnrestricted // denominator degrees of freedom

	if dof <= 0 {
		return nil, errs.Estimation("causality", "insufficient degrees of freedom: %d", dof)
	}
	if rssUnrestricted <= 0 {
		return nil, errs.Fit("causality", "%s equation fits exactly (zero residual sum of squares), F undefined",
			ts.VarNames[effectIdx])
	}

	// In theory rssRestricted >= rssUnrestricted, but floating point can leave a tiny negative difference.
	num := rssRestricted - rssUnrestricted
	if num < 0 {
		num = 0
	}

	fStatistic := (num / float64(q)) / (rssUnrestricted / float64(dof))
	if math.IsNaN(fStatistic) || math.IsInf(fStatistic, 0) {
		return nil, errs.Fit("causality", "F-statistic for %s -> %s is not finite",
			ts.VarNames[causeIdx], ts.VarNames[effectIdx])
	}

	fDist := distuv.F{
		D1: float64(q),
		D2: float64(dof),
	}
	pValue := fDist.Survival(fStatistic)

	// Final sanity clamp on pValue to ensure it's in [0, 1]
	pValue = math.Max(0, math.Min(1, pValue))

	result := &GrangerCausalityResult{
		CauseVar:    ts.VarNames[causeIdx],
		EffectVar:   ts.VarNames[effectIdx],
		FStatistic:  fStatistic,
		DF1:         q,
		DF2:         dof,
		PValue:      pValue,
		Lags:        p,
		Significant: pValue < GrangerAlpha,
	}

	return result, nil
}

// GrangerCausalityMatrix performs pairwise Granger causality tests for all variables
// in the VAR model and returns a matrix of GrangerCausalityResult.
// Returns: K x K matrix of GrangerCausalityResult, where result[i][j] is the test of i -> j
// and the diagonal is nil
func (rf *ReducedFormVAR) GrangerCausalityMatrix() ([][]*GrangerCausalityResult, error) {
	if rf == nil || len(rf.A) == 0 || rf.Sample == nil {
		return nil, errs.Estimation("causality", "VAR model not estimated")
	}

	K := rf.K()

	// Create matrix to store results
	results := make([][]*GrangerCausalityResult, K)
	for i := range results {
		results[i] = make([]*GrangerCausalityResult, K)
	}

	// Perform pairwise tests
	for i := 0; i < K; i++ {
		for j := 0; j < K; j++ {
			if i == j {
				// No self-causality test
				continue
			}

			result, err := rf.GrangerCausality(i, j)
			if err != nil {
				return nil, fmt.Errorf("testing %s -> %s: %w", rf.Sample.VarNames[i], rf.Sample.VarNames[j], err)
			}
			results[i][j] = result
		}
	}

	return results, nil
}
