// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"CopperGold_Causality_VAR_Project/internal/errs"
)

// --- Bootstrapping below ---
// Replications run one after another from a single seeded source, so a fixed
// seed reproduces every band and p-value exactly.

// newRand seeds the bootstrap source; seed 0 means time-based
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// simulateBootstrapSeries generates a bootstrap sample Y* of the same length as the
// estimation sample, using the fitted VAR coefficients and residuals rf.U (T-p x K).
// Rows of rf.U are resampled with replacement; the first p rows are the observed data.
func (rf *ReducedFormVAR) simulateBootstrapSeries(rng *rand.Rand) *TimeSeries {
	return rf.simulateUnder(rng, nil)
}

// restrictedEquation replaces one equation of the fitted VAR with its fit
// without the lags of cause, so a sample drawn from it obeys "cause does not
// Granger-cause effect".
type restrictedEquation struct {
	cause, effect int
	coef          []float64 // designMatrix column order, cause's lags left out
	resid         []float64 // T-p residuals of the restricted fit
}

// restrictEquation refits the effect equation without the lags of cause.
func (rf *ReducedFormVAR) restrictEquation(cause, effect int) (*restrictedEquation, error) {
	p := rf.Model.Lags
	X, Yreg := designMatrix(rf.Sample.Y, p, p, rf.Model.Deterministic, cause)
	Treg, _ := Yreg.Dims()
	y := mat.DenseCopyOf(Yreg.Slice(0, Treg, effect, effect+1))

	B, U, err := olsFit(X, y)
	if err != nil {
		return nil, errs.Wrap(errs.ErrEstimation, "bootstrap", err, "restricted regression %s without %s",
			rf.Sample.VarNames[effect], rf.Sample.VarNames[cause])
	}
	return &restrictedEquation{
		cause:  cause,
		effect: effect,
		coef:   mat.Col(nil, 0, B),
		resid:  mat.Col(nil, 0, U),
	}, nil
}

// simulateUnder draws Y* from the fitted VAR, with the equation named by r (if
// any) taken from the restricted fit. One residual row is drawn per period and
// shared by all equations, keeping the cross-equation correlation.
func (rf *ReducedFormVAR) simulateUnder(rng *rand.Rand, r *restrictedEquation) *TimeSeries {
	ts := rf.Sample
	T, K := ts.Y.Dims()
	p := rf.Model.Lags
	Treg, _ := rf.U.Dims()

	det := rf.Model.Deterministic
	trendIdx := 0
	if det.hasConst() {
		trendIdx = 1
	}

	// Simulate Y*, same dimension as original
	Ystar := mat.NewDense(T, K, nil)

	// Copy the first p observations from original data
	for t := 0; t < p; t++ {
		Ystar.SetRow(t, mat.Row(nil, t, ts.Y))
	}

	// Simulate t = p,...,T-1
	for t := p; t < T; t++ {
		timeIndex := float64(t + 1)
		// resample residual row index from [0, Treg-1]
		idx := rng.Intn(Treg)

		for eq := 0; eq < K; eq++ {
			if r != nil && eq == r.effect {
				Ystar.Set(t, eq, r.value(Ystar, t, idx, p, K, det))
				continue
			}

			val := 0.0

			// deterministic terms
			if rf.C != nil {
				if det.hasConst() {
					val += rf.C.At(eq, 0)
				}
				if det.hasTrend() {
					val += rf.C.At(eq, trendIdx) * timeIndex
				}
			}

			// lag terms: sum_{j=1}^p A_j(eq,:) y*_{t-j}
			for j := 1; j <= p; j++ {
				Aj := rf.A[j-1]
				srcRow := t - j
				for k := 0; k < K; k++ {
					val += Aj.At(eq, k) * Ystar.At(srcRow, k)
				}
			}

			// add bootstrap residual
			val += rf.U.At(idx, eq)
			Ystar.Set(t, eq, val)
		}
	}

	// Preserve dates and variable names
	return &TimeSeries{
		Y:        Ystar,
		Dates:    ts.Dates,
		VarNames: ts.VarNames,
	}
}

// value evaluates the restricted equation at row t of Y* with residual row idx
func (r *restrictedEquation) value(Ystar *mat.Dense, t, idx, p, K int, det Deterministic) float64 {
	val := 0.0
	col := 0
	if det.hasConst() {
		val += r.coef[col]
		col++
	}
	if det.hasTrend() {
		val += r.coef[col] * float64(t+1)
		col++
	}
	for j := 1; j <= p; j++ {
		for k := 0; k < K; k++ {
			if k == r.cause {
				continue
			}
			val += r.coef[col] * Ystar.At(t-j, k)
			col++
		}
	}
	return val + r.resid[idx]
}

// bootstrapQuantile returns the empirical q-quantile of samples (0 <= q <= 1)
// using linear interpolation between order statistics.
func bootstrapQuantile(samples []float64, q float64) float64 {
	n := len(samples)
	if n == 0 {
		return math.NaN()
	}

	tmp := make([]float64, n)
	copy(tmp, samples)
	sort.Float64s(tmp)

	if q <= 0 {
		return tmp[0]
	}
	if q >= 1 {
		return tmp[n-1]
	}

	pos := q * float64(n-1)
	idxBelow := int(math.Floor(pos))
	idxAbove := int(math.Ceil(pos))

	if idxAbove == idxBelow {
		return tmp[idxBelow]
	}

	weight := pos - float64(idxBelow)
	return tmp[idxBelow]*(1.0-weight) + tmp[idxAbove]*weight
}

// BootstrapIRF performs a residual bootstrap for IRFs for all shock variables.
// Returns a map[shockIndex]*IRFBootstrapResult, where each result contains
// the point estimate IRF and lower/upper CI bands.
// A replication whose re-estimated model cannot be fit is an error; no replication is skipped.
func (rf *ReducedFormVAR) BootstrapIRF(opts BootstrapOptions) (map[int]*IRFBootstrapResult, error) {
	if rf == nil || len(rf.A) == 0 || rf.Sample == nil || rf.U == nil {
		return nil, errs.Estimation("bootstrap", "VAR model not estimated")
	}

	// Default options if not set
	if opts.NReplications <= 0 {
		opts.NReplications = 500
	}
	if opts.Horizon <= 0 {
		opts.Horizon = 20
	}
	if opts.Alpha <= 0 || opts.Alpha >= 1 {
		opts.Alpha = 0.05
	}

	K := rf.K()
	H := opts.Horizon

	// 1. Compute original (point estimate) IRFs for each shock variable
	results := make(map[int]*IRFBootstrapResult, K)
	// For collecting bootstrap samples: shockIdx -> [h][var][]values
	shockIRFValues := make(map[int][][][]float64, K)

	for shockIdx := 0; shockIdx < K; shockIdx++ {
		baseIRF, err := rf.IRF(H, shockIdx)
		if err != nil {
			return nil, fmt.Errorf("IRF failed for shock %d on original model: %w", shockIdx, err)
		}

		results[shockIdx] = &IRFBootstrapResult{
			ShockIndex: shockIdx,
			Horizon:    H,
			Alpha:      opts.Alpha,
			Point:      baseIRF,
			Lower:      mat.NewDense(H+1, K, nil),
			Upper:      mat.NewDense(H+1, K, nil),
		}

		// Set up storage for bootstrap draws
		vals := make([][][]float64, H+1)
		for h := 0; h <= H; h++ {
			vals[h] = make([][]float64, K)
			for j := 0; j < K; j++ {
				vals[h][j] = make([]float64, 0, opts.NReplications)
			}
		}
		shockIRFValues[shockIdx] = vals
	}

	rng := newRand(opts.Seed)
	est := &OLSEstimator{}

	// 2. Replications: simulate Y*, re-estimate, collect IRFs
	for b := 0; b < opts.NReplications; b++ {
		tsStar := rf.simulateBootstrapSeries(rng)

		bootRF, err := est.Estimate(tsStar, rf.Model)
		if err != nil {
			return nil, errs.Wrap(errs.ErrEstimation, "bootstrap", err, "replication %d", b)
		}

		for shockIdx := 0; shockIdx < K; shockIdx++ {
			irfBoot, err := bootRF.IRF(H, shockIdx)
			if err != nil {
				return nil, errs.Wrap(errs.ErrFit, "bootstrap", err, "replication %d, shock %d", b, shockIdx)
			}

			vals := shockIRFValues[shockIdx]
			for h := 0; h <= H; h++ {
				for j := 0; j < K; j++ {
					vals[h][j] = append(vals[h][j], irfBoot.At(h, j))
				}
			}
		}
	}

	// 3. Compute CI bands from bootstrap distributions
	lowerQ := opts.Alpha / 2.0
	upperQ := 1.0 - opts.Alpha/2.0

	for shockIdx, res := range results {
		vals := shockIRFValues[shockIdx]
		for h := 0; h <= H; h++ {
			for j := 0; j < K; j++ {
				res.Lower.Set(h, j, bootstrapQuantile(vals[h][j], lowerQ))
				res.Upper.Set(h, j, bootstrapQuantile(vals[h][j], upperQ))
			}
		}
	}

	return results, nil
}

// BootstrapGrangerMatrix performs a residual bootstrap for Granger causality
// for all variable pairs (i -> j, i != j).
// It returns a K x K matrix of GrangerCausalityBootstrapResult, where
// result[i][j] is nil if i == j.
// Samples for the pair i -> j are drawn under the null: equation j comes from
// its fit without the lags of i and resamples that fit's residuals. The
// bootstrap p-value is (count+1)/(N+1), count being the replications whose
// F-statistic is at least the analytic one.
func (rf *ReducedFormVAR) BootstrapGrangerMatrix(opts GrangerBootstrapOptions) ([][]*GrangerCausalityBootstrapResult, error) {
	if rf == nil || len(rf.A) == 0 || rf.Sample == nil || rf.U == nil {
		return nil, errs.Estimation("bootstrap", "VAR model not estimated")
	}

	// Defaults
	if opts.NReplications <= 0 {
		opts.NReplications = 500
	}
	if opts.Alpha <= 0 || opts.Alpha >= 1 {
		opts.Alpha = 0.05
	}

	K := rf.K()

	// 1. Original analytic Granger matrix
	baseGC, err := rf.GrangerCausalityMatrix()
	if err != nil {
		return nil, fmt.Errorf("failed to compute base Granger matrix: %w", err)
	}

	rng := newRand(opts.Seed)
	est := &OLSEstimator{}

	// 2. Per pair: restricted fit once, then replications drawn under its null
	out := make([][]*GrangerCausalityBootstrapResult, K)
	for i := 0; i < K; i++ {
		out[i] = make([]*GrangerCausalityBootstrapResult, K)
	}

	for c := 0; c < K; c++ {
		for e := 0; e < K; e++ {
			if c == e {
				continue
			}

			null, err := rf.restrictEquation(c, e)
			if err != nil {
				return nil, err
			}

			count := 0
			for b := 0; b < opts.NReplications; b++ {
				tsStar := rf.simulateUnder(rng, null)

				bootRF, err := est.Estimate(tsStar, rf.Model)
				if err != nil {
					return nil, errs.Wrap(errs.ErrEstimation, "bootstrap", err, "replication %d", b)
				}

				gc, err := bootRF.GrangerCausality(c, e)
				if err != nil {
					return nil, errs.Wrap(errs.ErrFit, "bootstrap", err, "replication %d", b)
				}
				if gc.FStatistic >= baseGC[c][e].FStatistic {
					count++
				}
			}

			// small-sample correction: (count+1)/(N+1)
			bootP := float64(count+1) / float64(opts.NReplications+1)

			out[c][e] = &GrangerCausalityBootstrapResult{
				Base:        baseGC[c][e],
				BootPValue:  bootP,
				Alpha:       opts.Alpha,
				Significant: bootP < opts.Alpha,
			}
		}
	}

	return out, nil
}
