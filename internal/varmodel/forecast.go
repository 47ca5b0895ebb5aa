// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"CopperGold_Causality_VAR_Project/internal/errs"
)

// Forecast produces multi-step ahead forecasts from the end of the estimation sample.
// Each step's forecast is fed back in as the lag input of the following steps; the
// trend index continues from the sample (T+1, T+2, ...).
// steps: number of steps ahead to forecast
// Returns: steps x K matrix of forecasts
func (rf *ReducedFormVAR) Forecast(steps int) (*mat.Dense, error) {
	if rf == nil || len(rf.A) == 0 || rf.Sample == nil {
		return nil, errs.Estimation("forecast", "VAR model not estimated")
	}
	if steps <= 0 {
		return nil, errs.Estimation("forecast", "steps must be > 0, got %d", steps)
	}

	p := rf.Model.Lags
	yHist := rf.Sample.Y

	// dimensions of yHist, T rows, K cols
	T, K := yHist.Dims()
	if T < p {
		return nil, errs.Estimation("forecast", "need at least %d rows of history, got %d", p, T)
	}

	totalRows := p + steps
	out := mat.NewDense(totalRows, K, nil)

	// seed the first p rows with the last p observations
	for i := 0; i < p; i++ {
		out.SetRow(i, mat.Row(nil, T-p+i, yHist))
	}

	det := rf.Model.Deterministic
	trendIdx := 0
	if det.hasConst() {
		trendIdx = 1
	}

	for step := 0; step < steps; step++ {
		row := p + step
		// time index from last row of yHist
		tIdx := float64(T + step + 1)

		for eq := 0; eq < K; eq++ {
			// val is where we store the equation for the current step for A SINGLE variable
			val := 0.0

			if rf.C != nil {
				if det.hasConst() {
					val += rf.C.At(eq, 0)
				}
				if det.hasTrend() {
					val += rf.C.At(eq, trendIdx) * tIdx
				}
			}

			// lagged part: sum_j A_j * y_{t-j}
			for lag := 1; lag <= p; lag++ {
				A := rf.A[lag-1]
				prevRow := row - lag
				for j := 0; j < K; j++ {
					val += A.At(eq, j) * out.At(prevRow, j)
				}
			}

			out.Set(row, eq, val)
		}
	}

	// Returns only the forecasted rows
	return mat.DenseCopyOf(out.Slice(p, totalRows, 0, K)), nil
}

// ForecastOver forecasts len(test) steps past the estimation sample and stamps the
// rows with the test dates. The test values are never read.
func (rf *ReducedFormVAR) ForecastOver(test *TimeSeries) (*ForecastResult, error) {
	if test == nil || test.Y == nil {
		return nil, errs.Estimation("forecast", "test data not provided")
	}
	steps, K := test.Y.Dims()
	if rf != nil && len(rf.A) > 0 && K != rf.K() {
		return nil, errs.Estimation("forecast", "test data has %d variables, model has %d", K, rf.K())
	}

	fc, err := rf.Forecast(steps)
	if err != nil {
		return nil, err
	}

	names := rf.Sample.VarNames
	if len(test.VarNames) == K {
		for k := range names {
			if names[k] != test.VarNames[k] {
				return nil, errs.Estimation("forecast", "variable %d is %s in the model but %s in the test data",
					k, names[k], test.VarNames[k])
			}
		}
	}

	return &ForecastResult{
		Dates:    append([]time.Time(nil), test.Dates...),
		VarNames: append([]string(nil), names...),
		Values:   fc,
	}, nil
}

// Column returns the forecast of variable k
func (fr *ForecastResult) Column(k int) []float64 {
	return mat.Col(nil, k, fr.Values)
}

func (fr *ForecastResult) String() string {
	steps, _ := fr.Values.Dims()
	return fmt.Sprintf("forecast of %v over %d steps", fr.VarNames, steps)
}
