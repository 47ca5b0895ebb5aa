// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"CopperGold_Causality_VAR_Project/internal/errs"
)

var (
	_ ReducedForm = (*ReducedFormVAR)(nil)
	_ Estimator   = (*OLSEstimator)(nil)
)

// rankTol is the relative singular value cut-off below which a design column counts as redundant
const rankTol = 1e-12

// These functions are for the ReducedFormVAR struct and its methods
// Returns current Model Spec to see what options were selected
func (rf *ReducedFormVAR) Spec() ModelSpec { return rf.Model }

// Returns coefficient matrices
func (rf *ReducedFormVAR) Phi() []*mat.Dense { return rf.A }

// Returns error covariance matrix
func (rf *ReducedFormVAR) CovU() *mat.SymDense { return rf.SigmaU }

// K is the number of variables in the model
func (rf *ReducedFormVAR) K() int {
	k, _ := rf.A[0].Dims()
	return k
}

// Estimate computes the VAR model parameters using OLS, one regression per equation.
// ts: TimeSeries struct containing the data
// spec: ModelSpec struct containing the model specification
// Returns: ReducedFormVAR struct containing the estimated model, bound to a copy of ts
// Fails with an EstimationError on non-finite data, p >= T or a rank-deficient design.
func (e *OLSEstimator) Estimate(ts *TimeSeries, spec ModelSpec) (*ReducedFormVAR, error) {
	if ts == nil || ts.Y == nil {
		return nil, errs.Estimation("estimate", "time series data not provided")
	}

	T, K := ts.Y.Dims()
	p := spec.Lags

	if p <= 0 {
		return nil, errs.Estimation("estimate", "lags must be > 0, got %d", p)
	}
	if T <= p {
		return nil, errs.Estimation("estimate", "lag order p = %d needs more than %d observations, got T = %d", p, p, T)
	}
	if err := checkFinite("estimate", ts); err != nil {
		return nil, err
	}

	// Response rows are y_p, ..., y_{T-1}
	X, Yreg := designMatrix(ts.Y, p, p, spec.Deterministic, -1)
	Treg, m := X.Dims()

	B, U, err := olsFit(X, Yreg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrEstimation, "estimate", err, "VAR(%d) on %d observations", p, T)
	}

	df := Treg - m
	if df <= 0 {
		return nil, errs.Estimation("estimate", "no residual degrees of freedom: %d usable rows, %d regressors per equation", Treg, m)
	}

	detCols := spec.Deterministic.cols()

	// Split B into C (deterministic) and A_j's
	var C *mat.Dense
	if detCols > 0 {
		C = mat.NewDense(K, detCols, nil)
		for k := 0; k < K; k++ {
			for d := 0; d < detCols; d++ {
				C.Set(k, d, B.At(d, k))
			}
		}
	}

	A := make([]*mat.Dense, p)
	for j := 0; j < p; j++ {
		Aj := mat.NewDense(K, K, nil)
		rowOffset := detCols + j*K // start row of this lag block in B

		for eq := 0; eq < K; eq++ {
			for colVar := 0; colVar < K; colVar++ {
				Aj.Set(eq, colVar, B.At(rowOffset+colVar, eq))
			}
		}
		A[j] = Aj
	}

	// Residual covariance SigmaU = U'U / (Treg - m), symmetric by construction
	SigmaU := mat.NewSymDense(K, nil)
	SigmaU.SymOuterK(1/float64(df), U.T())

	rf := &ReducedFormVAR{
		Model:  spec,
		A:      A,
		C:      C,
		SigmaU: SigmaU,
		U:      U,
		Sample: copyTimeSeries(ts),
	}

	return rf, nil
}

// designMatrix builds the regression of rows start..T-1 of Y on
// [const, trend, y_{t-1}, ..., y_{t-p}]. The trend is the 1-based observation number.
// Lags of variable skip are left out; skip < 0 keeps every variable.
// Returns X (T-start x m) and the response rows Yreg (T-start x K).
func designMatrix(Y *mat.Dense, p, start int, det Deterministic, skip int) (X, Yreg *mat.Dense) {
	T, K := Y.Dims()
	Treg := T - start

	lagVars := K
	if skip >= 0 && skip < K {
		lagVars = K - 1
	}
	m := det.cols() + p*lagVars

	X = mat.NewDense(Treg, m, nil)
	Yreg = mat.DenseCopyOf(Y.Slice(start, T, 0, K))

	// Fill X row-by-row
	for t := 0; t < Treg; t++ {
		obs := t + start
		col := 0

		if det.hasConst() {
			X.Set(t, col, 1.0)
			col++
		}
		if det.hasTrend() {
			X.Set(t, col, float64(obs+1))
			col++
		}

		// Lagged Y's: [ y_{obs-1}, y_{obs-2}, ..., y_{obs-p} ]
		for j := 1; j <= p; j++ {
			srcRow := obs - j
			for k := 0; k < K; k++ {
				if k == skip {
					continue
				}
				X.Set(t, col, Y.At(srcRow, k))
				col++
			}
		}
	}
	return X, Yreg
}

// olsFit solves X B = Y in the least-squares sense through the SVD of X.
// A rank-deficient X is an error: the coefficients would not be identified.
// Returns B (m x K) and the residuals U = Y - X B.
func olsFit(X, Y *mat.Dense) (B, U *mat.Dense, err error) {
	n, m := X.Dims()
	if n < m {
		return nil, nil, fmt.Errorf("%d rows cannot identify %d coefficients", n, m)
	}

	var svd mat.SVD
	if ok := svd.Factorize(X, mat.SVDThin); !ok {
		return nil, nil, fmt.Errorf("SVD factorization failed")
	}
	if rank := svd.Rank(rankTol); rank < m {
		return nil, nil, fmt.Errorf("design matrix is rank deficient: rank %d < %d columns", rank, m)
	}

	B = new(mat.Dense)
	svd.SolveTo(B, Y, m)

	var fitted mat.Dense
	fitted.Mul(X, B)

	U = new(mat.Dense)
	U.Sub(Y, &fitted)
	return B, U, nil
}

func checkFinite(stage string, ts *TimeSeries) error {
	T, K := ts.Y.Dims()
	for t := 0; t < T; t++ {
		for k := 0; k < K; k++ {
			v := ts.Y.At(t, k)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				name := fmt.Sprintf("var%d", k)
				if k < len(ts.VarNames) {
					name = ts.VarNames[k]
				}
				return errs.Estimation(stage, "non-finite value %v in %s at row %d", v, name, t)
			}
		}
	}
	return nil
}

func copyTimeSeries(ts *TimeSeries) *TimeSeries {
	T, K := ts.Y.Dims()
	out := &TimeSeries{
		Y:        mat.DenseCopyOf(ts.Y),
		Dates:    append([]time.Time(nil), ts.Dates...),
		VarNames: append([]string(nil), ts.VarNames...),
	}
	if len(out.VarNames) != K {
		out.VarNames = make([]string, K)
		for k := range out.VarNames {
			out.VarNames[k] = fmt.Sprintf("var%d", k)
		}
	}
	if len(out.Dates) != T {
		out.Dates = nil
	}
	return out
}
