// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"CopperGold_Causality_VAR_Project/internal/errs"
)

// ============================================================================
// GRANGER CAUSALITY TESTS
// ============================================================================

func TestGrangerCausalityDetectsPlantedLink(t *testing.T) {
	ts := simulateVAR1(rand.New(rand.NewSource(21)), 300)
	rf := mustEstimate(t, ts, ModelSpec{Lags: 2, Deterministic: DetConstTrend})

	res, err := rf.GrangerCausality(0, 1)
	require.NoError(t, err)

	assert.Equal(t, "x", res.CauseVar)
	assert.Equal(t, "y", res.EffectVar)
	assert.Equal(t, 2, res.Lags)
	assert.Equal(t, 2, res.DF1)
	assert.Equal(t, 298-(2+2*2), res.DF2)
	assert.Less(t, res.PValue, 0.01)
	assert.True(t, res.Significant)

	back, err := rf.GrangerCausality(1, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, back.PValue, 0.0)
	assert.LessOrEqual(t, back.PValue, 1.0)
	assert.GreaterOrEqual(t, back.FStatistic, 0.0)
}

func TestGrangerCausalityMatchesRestrictedFit(t *testing.T) {
	ts := simulateVAR1(rand.New(rand.NewSource(22)), 80)
	rf := mustEstimate(t, ts, ModelSpec{Lags: 1, Deterministic: DetConst})

	// restricted y equation: y_t on const and y_{t-1}
	Treg := 79
	X := mat.NewDense(Treg, 2, nil)
	y := mat.NewDense(Treg, 1, nil)
	for i := 0; i < Treg; i++ {
		X.Set(i, 0, 1)
		X.Set(i, 1, ts.Y.At(i, 1))
		y.Set(i, 0, ts.Y.At(i+1, 1))
	}
	_, resid, err := olsFit(X, y)
	require.NoError(t, err)
	rssR := mat.Dot(resid.ColView(0), resid.ColView(0))
	uCol := rf.U.ColView(1)
	rssU := mat.Dot(uCol, uCol)
	wantF := (rssR - rssU) / 1 / (rssU / float64(Treg-3))

	res, err := rf.GrangerCausality(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, wantF, res.FStatistic, 1e-9)
}

func TestGrangerCausalityErrors(t *testing.T) {
	rf := mustEstimate(t, simulateVAR1(rand.New(rand.NewSource(23)), 50), ModelSpec{Lags: 1, Deterministic: DetConstTrend})

	_, err := rf.GrangerCausality(0, 0)
	assert.ErrorIs(t, err, errs.ErrEstimation)
	_, err = rf.GrangerCausality(0, 2)
	assert.ErrorIs(t, err, errs.ErrEstimation)

	// an equation with zero residuals has no defined F
	exact := *rf
	exact.U = mat.NewDense(49, 2, nil)
	_, err = exact.GrangerCausality(0, 1)
	assert.ErrorIs(t, err, errs.ErrFit)
}

func TestGrangerCausalityMatrix(t *testing.T) {
	rf := mustEstimate(t, simulateVAR1(rand.New(rand.NewSource(24)), 100), ModelSpec{Lags: 1, Deterministic: DetConstTrend})

	gc, err := rf.GrangerCausalityMatrix()
	require.NoError(t, err)
	require.Len(t, gc, 2)
	assert.Nil(t, gc[0][0])
	assert.Nil(t, gc[1][1])
	assert.Equal(t, "x", gc[0][1].CauseVar)
	assert.Equal(t, "y", gc[1][0].CauseVar)

	single, err := rf.GrangerCausality(0, 1)
	require.NoError(t, err)
	assert.Equal(t, single, gc[0][1])
}

// ============================================================================
// IRF / FEVD TESTS
// ============================================================================

func TestIRFFirstStepsByHand(t *testing.T) {
	rf := handModel(t)

	irf, err := rf.IRF(3, 0)
	require.NoError(t, err)

	rows, cols := irf.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 2, cols)

	// step 0 is the first Cholesky column (1, 0.2)
	assert.InDelta(t, 1.0, irf.At(0, 0), 1e-12)
	assert.InDelta(t, 0.2, irf.At(0, 1), 1e-12)
	// step 1 is A_1 (1, 0.2)'
	assert.InDelta(t, 0.5, irf.At(1, 0), 1e-12)
	assert.InDelta(t, 0.38, irf.At(1, 1), 1e-12)

	// a shock to the second variable has no impact effect on the first
	irf2, err := rf.IRF(1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, irf2.At(0, 0), 1e-12)
	assert.InDelta(t, math.Sqrt(0.46), irf2.At(0, 1), 1e-12)
}

func TestIRFNonPositiveDefiniteIsFitError(t *testing.T) {
	rf := handModel(t)
	rf.SigmaU = mat.NewSymDense(2, []float64{1, 1, 1, 1})

	_, err := rf.IRF(5, 0)
	assert.ErrorIs(t, err, errs.ErrFit)

	_, err = rf.FEVD(5)
	assert.ErrorIs(t, err, errs.ErrFit)
}

func TestIRFErrors(t *testing.T) {
	rf := handModel(t)
	_, err := rf.IRF(-1, 0)
	assert.ErrorIs(t, err, errs.ErrEstimation)
	_, err = rf.IRF(4, 2)
	assert.ErrorIs(t, err, errs.ErrEstimation)
}

func TestRunIRFAnalysis(t *testing.T) {
	rf := handModel(t)

	analysis, err := rf.RunIRFAnalysis(1, 5)
	require.NoError(t, err)
	require.Len(t, analysis, 2)

	for shock := 0; shock < 2; shock++ {
		irf, err := rf.IRF(5, shock)
		require.NoError(t, err)
		assert.Equal(t, mat.Col(nil, 1, irf), analysis[shock])
		assert.Len(t, analysis[shock], 6)
	}
}

func TestFEVDSharesSumToOne(t *testing.T) {
	rf := mustEstimate(t, simulateVAR1(rand.New(rand.NewSource(25)), 120), ModelSpec{Lags: 2, Deterministic: DetConstTrend})

	fevd, err := rf.FEVD(10)
	require.NoError(t, err)
	require.Len(t, fevd, 2)
	assert.Equal(t, "x", fevd[0].Variable)

	for _, res := range fevd {
		H, K := res.Shares.Dims()
		assert.Equal(t, 10, H)
		for s := 0; s < H; s++ {
			sum := 0.0
			for j := 0; j < K; j++ {
				share := res.Shares.At(s, j)
				assert.GreaterOrEqual(t, share, 0.0)
				sum += share
			}
			assert.InDelta(t, 1.0, sum, 1e-12)
		}
	}

	// first variable is first in the ordering: its one-step error is all its own shock
	assert.InDelta(t, 1.0, fevd[0].Shares.At(0, 0), 1e-12)
}

func TestFEVDByHand(t *testing.T) {
	rf := handModel(t)

	fevd, err := rf.FEVD(2)
	require.NoError(t, err)

	// variable 1, step 1: Theta_0 row = (0.2, sqrt(0.46)) -> shares 0.04/0.5, 0.46/0.5
	assert.InDelta(t, 0.08, fevd[1].Shares.At(0, 0), 1e-12)
	assert.InDelta(t, 0.92, fevd[1].Shares.At(0, 1), 1e-12)

	// step 2 adds Theta_1 row = (0.38, 0.4*sqrt(0.46))
	own := 0.46 + 0.16*0.46
	cross := 0.04 + 0.38*0.38
	assert.InDelta(t, cross/(own+cross), fevd[1].Shares.At(1, 0), 1e-12)

	_, err = rf.FEVD(0)
	assert.ErrorIs(t, err, errs.ErrEstimation)
}

// ============================================================================
// FORECAST TESTS
// ============================================================================

func TestForecastOneStepClosedForm(t *testing.T) {
	ts := simulateVAR1(rand.New(rand.NewSource(26)), 60)
	rf := mustEstimate(t, ts, ModelSpec{Lags: 1, Deterministic: DetConstTrend})

	fc, err := rf.Forecast(1)
	require.NoError(t, err)

	T, K := ts.Y.Dims()
	for eq := 0; eq < K; eq++ {
		want := rf.C.At(eq, 0) + rf.C.At(eq, 1)*float64(T+1)
		for k := 0; k < K; k++ {
			want += rf.A[0].At(eq, k) * ts.Y.At(T-1, k)
		}
		assert.InDelta(t, want, fc.At(0, eq), 1e-12)
	}
}

func TestForecastFeedsBackPredictions(t *testing.T) {
	rf := handModel(t)
	T, _ := rf.Sample.Y.Dims()
	last := mat.Row(nil, T-1, rf.Sample.Y)

	fc, err := rf.Forecast(3)
	require.NoError(t, err)

	prev := mat.NewVecDense(2, last)
	for step := 0; step < 3; step++ {
		var next mat.VecDense
		next.MulVec(rf.A[0], prev)
		assert.InDelta(t, next.AtVec(0), fc.At(step, 0), 1e-12)
		assert.InDelta(t, next.AtVec(1), fc.At(step, 1), 1e-12)
		prev = &next
	}

	_, err = rf.Forecast(0)
	assert.ErrorIs(t, err, errs.ErrEstimation)
}

func TestForecastOverStampsTestDates(t *testing.T) {
	ts := simulateVAR1(rand.New(rand.NewSource(27)), 72)
	train := &TimeSeries{Y: mat.DenseCopyOf(ts.Y.Slice(0, 60, 0, 2)), Dates: ts.Dates[:60], VarNames: ts.VarNames}
	test := &TimeSeries{Y: mat.DenseCopyOf(ts.Y.Slice(60, 72, 0, 2)), Dates: ts.Dates[60:], VarNames: ts.VarNames}

	rf := mustEstimate(t, train, ModelSpec{Lags: 2, Deterministic: DetConstTrend})
	before := mat.DenseCopyOf(test.Y)

	fr, err := rf.ForecastOver(test)
	require.NoError(t, err)

	steps, _ := fr.Values.Dims()
	assert.Equal(t, 12, steps)
	assert.Equal(t, test.Dates, fr.Dates)
	assert.Equal(t, []string{"x", "y"}, fr.VarNames)
	assert.True(t, mat.Equal(before, test.Y))

	// changing the actual test values cannot change the forecast
	test.Y.Set(0, 0, 99)
	fr2, err := rf.ForecastOver(test)
	require.NoError(t, err)
	assert.True(t, mat.Equal(fr.Values, fr2.Values))

	renamed := &TimeSeries{Y: test.Y, Dates: test.Dates, VarNames: []string{"y", "x"}}
	_, err = rf.ForecastOver(renamed)
	assert.ErrorIs(t, err, errs.ErrEstimation)
}

// ============================================================================
// EVALUATE TESTS
// ============================================================================

func TestEvaluateMetrics(t *testing.T) {
	dates := monthlyDates(time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC), 3)
	actual := &TimeSeries{
		Y:        mat.NewDense(3, 2, []float64{1, -2, 2, 4, -4, 1}),
		Dates:    dates,
		VarNames: []string{"x", "y"},
	}
	fc := &ForecastResult{
		Dates:    dates,
		VarNames: []string{"x", "y"},
		Values:   mat.NewDense(3, 2, []float64{2, -2, 2, 3, -2, 3}),
	}

	acc, err := Evaluate(actual, fc)
	require.NoError(t, err)
	require.Len(t, acc, 2)

	// x errors: -1, 0, -2
	assert.Equal(t, "x", acc[0].Variable)
	assert.InDelta(t, 1.0, acc[0].MAE, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3), acc[0].RMSE, 1e-12)
	assert.InDelta(t, (100.0+0+50)/3, acc[0].MAPE, 1e-12)

	// y errors: 0, 1, -2
	assert.InDelta(t, 1.0, acc[1].MAE, 1e-12)
	assert.InDelta(t, (0+25.0+200)/3, acc[1].MAPE, 1e-12)
	assert.Equal(t, 3, acc[1].N)
}

func TestEvaluateZeroActualIsDivisionByZero(t *testing.T) {
	dates := monthlyDates(time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC), 3)
	actual := &TimeSeries{
		Y:        mat.NewDense(3, 2, []float64{1, 0.5, 0, 0.25, 2, -0.5}),
		Dates:    dates,
		VarNames: []string{"cu_au_ratio", "spread"},
	}
	fc := &ForecastResult{
		Dates:    dates,
		VarNames: []string{"cu_au_ratio", "spread"},
		Values:   mat.NewDense(3, 2, []float64{1, 0.5, 0.5, 0.25, 2, -0.5}),
	}

	acc, err := Evaluate(actual, fc)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrDivisionByZero)
	assert.Contains(t, err.Error(), "cu_au_ratio")
	assert.Contains(t, err.Error(), "2019-02-01")

	require.Len(t, acc, 2)
	assert.True(t, math.IsNaN(acc[0].MAPE))
	assert.False(t, math.IsInf(acc[0].MAPE, 0))
	assert.InDelta(t, 0.5/3, acc[0].MAE, 1e-12)
	assert.InDelta(t, 0.0, acc[1].MAPE, 1e-12)
}

func TestEvaluateFallsBackWhenForecastIsUnnamed(t *testing.T) {
	actual := &TimeSeries{Y: mat.NewDense(2, 2, []float64{1, 2, 3, 4}), VarNames: []string{"ratio"}}
	fc := &ForecastResult{Values: mat.NewDense(2, 2, []float64{1, 2, 3, 4})}

	acc, err := Evaluate(actual, fc)
	require.NoError(t, err)
	require.Len(t, acc, 2)
	assert.Equal(t, "ratio", acc[0].Variable)
	assert.Equal(t, "var1", acc[1].Variable)
}

func TestEvaluateShapeMismatch(t *testing.T) {
	actual := &TimeSeries{Y: mat.NewDense(2, 2, nil), VarNames: []string{"x", "y"}}
	fc := &ForecastResult{Values: mat.NewDense(3, 2, nil), VarNames: []string{"x", "y"}}
	_, err := Evaluate(actual, fc)
	assert.ErrorIs(t, err, errs.ErrInput)
}
