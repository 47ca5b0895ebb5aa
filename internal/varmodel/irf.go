// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"CopperGold_Causality_VAR_Project/internal/errs"
)

// maCoefficients returns the moving-average matrices Psi_0..Psi_h:
// Psi_0 = I, Psi_s = sum_{j=1}^{min(s,p)} A_j Psi_{s-j}
func (rf *ReducedFormVAR) maCoefficients(h int) []*mat.Dense {
	K := rf.K()
	p := len(rf.A)

	Psi := make([]*mat.Dense, h+1)

	// Psi_0 = I_K
	Idata := make([]float64, K*K)
	for i := 0; i < K; i++ {
		Idata[i*K+i] = 1.0
	}
	Psi[0] = mat.NewDense(K, K, Idata)

	// Recursively computes Psi_s
	for s := 1; s <= h; s++ {
		M := mat.NewDense(K, K, nil)
		maxLag := p
		if s < p {
			maxLag = s
		}
		for j := 1; j <= maxLag; j++ {
			var tmp mat.Dense
			tmp.Mul(rf.A[j-1], Psi[s-j]) // A_j * Psi_{s-j}
			M.Add(M, &tmp)
		}
		Psi[s] = M
	}
	return Psi
}

// cholFactor returns the lower triangular P with SigmaU = P P'.
// Column j of P is the impact of a one standard deviation orthogonal shock to variable j.
func (rf *ReducedFormVAR) cholFactor(stage string) (*mat.TriDense, error) {
	if rf.SigmaU == nil {
		return nil, errs.Fit(stage, "residual covariance not available")
	}
	K := rf.K()

	var chol mat.Cholesky
	if ok := chol.Factorize(rf.SigmaU); !ok {
		return nil, errs.Fit(stage, "residual covariance is not positive definite, orthogonal shocks undefined")
	}
	L := mat.NewTriDense(K, mat.Lower, nil)
	chol.LTo(L)
	return L, nil
}

// IRF computes impulse responses to a one-time orthogonalised shock in variable shockIndex
// horizon: last step to compute (h=0, ..., horizon)
// shockIndex: index of variable to shock, (0-based); ordering follows the sample's variable order
// Returns: (horizon+1) x K matrix, where row h is the response of all K vars at step h
func (rf *ReducedFormVAR) IRF(horizon int, shockIndex int) (*mat.Dense, error) {
	if rf == nil || len(rf.A) == 0 {
		return nil, errs.Estimation("dynamic response", "VAR model not estimated")
	}
	if horizon < 0 {
		return nil, errs.Estimation("dynamic response", "horizon must be >= 0, got %d", horizon)
	}

	K := rf.K()
	if shockIndex < 0 || shockIndex >= K {
		return nil, errs.Estimation("dynamic response", "shockIndex must be between 0 and %d", K-1)
	}

	L, err := rf.cholFactor("dynamic response")
	if err != nil {
		return nil, err
	}

	// get the shock vector
	shock := make([]float64, K)
	for i := 0; i < K; i++ {
		shock[i] = L.At(i, shockIndex)
	}
	shockVec := mat.NewVecDense(K, shock)

	Psi := rf.maCoefficients(horizon)

	// IRF[h] = Psi_h * shock
	irf := mat.NewDense(horizon+1, K, nil)
	for h := 0; h <= horizon; h++ {
		var resp mat.VecDense
		resp.MulVec(Psi[h], shockVec)
		irf.SetRow(h, resp.RawVector().Data)
	}

	return irf, nil
}

// Run IRF for all variables to look for changes in variable var, then compile results
// of how much each variable changed var during its shock into a map
// varIndex: index of variable to analyze, 0-based
// horizon: last step to compute (h=0, ..., horizon)
// Returns: map[shockIndex] = impact on varIndex
func (rf *ReducedFormVAR) RunIRFAnalysis(varIndex int, horizon int) (map[int][]float64, error) {
	// Check if the model is estimated and varIndex is valid
	if rf == nil || len(rf.A) == 0 {
		return nil, errs.Estimation("dynamic response", "VAR model not estimated")
	}

	K := rf.K()
	if varIndex < 0 || varIndex >= K {
		return nil, errs.Estimation("dynamic response", "varIndex must be between 0 and %d", K-1)
	}

	results := make(map[int][]float64)
	for shockIdx := 0; shockIdx < K; shockIdx++ {
		irfMat, err := rf.IRF(horizon, shockIdx)
		if err != nil {
			return nil, fmt.Errorf("IRF failed for shockIdx %d: %w", shockIdx, err)
		}

		results[shockIdx] = mat.Col(nil, varIndex, irfMat)
	}

	return results, nil
}

// FEVD decomposes the forecast error variance of every variable for steps 1..horizon.
// With Theta_s = Psi_s P, the step-(s+1) error variance of variable i is
// sum_{r<=s} sum_j Theta_r(i,j)^2 and the share of shock j is its part of that sum.
// Returns one FEVDResult per variable, in sample order.
func (rf *ReducedFormVAR) FEVD(horizon int) ([]*FEVDResult, error) {
	if rf == nil || len(rf.A) == 0 {
		return nil, errs.Estimation("dynamic response", "VAR model not estimated")
	}
	if horizon < 1 {
		return nil, errs.Estimation("dynamic response", "FEVD horizon must be >= 1, got %d", horizon)
	}

	K := rf.K()
	P, err := rf.cholFactor("dynamic response")
	if err != nil {
		return nil, err
	}

	Psi := rf.maCoefficients(horizon - 1)

	// cum[i][j] accumulates Theta_r(i,j)^2 over r
	cum := make([][]float64, K)
	for i := range cum {
		cum[i] = make([]float64, K)
	}

	out := make([]*FEVDResult, K)
	for i := 0; i < K; i++ {
		out[i] = &FEVDResult{
			Variable: rf.varName(i),
			Shares:   mat.NewDense(horizon, K, nil),
		}
	}

	for s := 0; s < horizon; s++ {
		var theta mat.Dense
		theta.Mul(Psi[s], P)

		for i := 0; i < K; i++ {
			total := 0.0
			for j := 0; j < K; j++ {
				v := theta.At(i, j)
				cum[i][j] += v * v
				total += cum[i][j]
			}
			if total <= 0 {
				return nil, errs.Fit("dynamic response", "%s has zero forecast error variance at step %d",
					rf.varName(i), s+1)
			}
			for j := 0; j < K; j++ {
				out[i].Shares.Set(s, j, cum[i][j]/total)
			}
		}
	}

	return out, nil
}

func (rf *ReducedFormVAR) varName(k int) string {
	if rf.Sample != nil && k < len(rf.Sample.VarNames) {
		return rf.Sample.VarNames[k]
	}
	return fmt.Sprintf("var%d", k)
}
