// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"CopperGold_Causality_VAR_Project/internal/errs"
)

// Evaluate scores a forecast against the actual test values, variable by variable:
// MAE = mean|a-f|, RMSE = sqrt(mean (a-f)^2), MAPE = mean(|a-f|/|a|)*100.
// An actual value of exactly zero leaves that variable's MAPE as NaN and a
// DivisionByZero error naming the variable and date is returned with the metrics.
func Evaluate(actual *TimeSeries, fc *ForecastResult) ([]Accuracy, error) {
	if actual == nil || actual.Y == nil || fc == nil || fc.Values == nil {
		return nil, errs.Input("evaluate", "actual values and forecast are both required")
	}

	T, K := actual.Y.Dims()
	fT, fK := fc.Values.Dims()
	if T != fT || K != fK {
		return nil, errs.Input("evaluate", "actual is %dx%d but forecast is %dx%d", T, K, fT, fK)
	}
	if T == 0 {
		return nil, errs.Input("evaluate", "nothing to evaluate")
	}

	var zeroErrs []error
	out := make([]Accuracy, K)

	for k := 0; k < K; k++ {
		name := evalVarName(k, fc.VarNames, actual.VarNames)

		absErr := make([]float64, T)
		sqErr := make([]float64, T)
		pctErr := make([]float64, T)
		var zeroAt *time.Time

		for t := 0; t < T; t++ {
			a := actual.Y.At(t, k)
			e := a - fc.Values.At(t, k)
			absErr[t] = math.Abs(e)
			sqErr[t] = e * e

			if a == 0 {
				if zeroAt == nil && t < len(actual.Dates) {
					d := actual.Dates[t]
					zeroAt = &d
				}
				pctErr[t] = math.NaN()
				continue
			}
			pctErr[t] = absErr[t] / math.Abs(a) * 100
		}

		acc := Accuracy{
			Variable: name,
			MAE:      stat.Mean(absErr, nil),
			RMSE:     math.Sqrt(stat.Mean(sqErr, nil)),
			N:        T,
		}
		if floats.HasNaN(pctErr) {
			acc.MAPE = math.NaN()
			when := "an unknown date"
			if zeroAt != nil {
				when = zeroAt.Format(time.DateOnly)
			}
			zeroErrs = append(zeroErrs, errs.DivisionByZero("evaluate",
				"MAPE of %s undefined: actual value is 0 at %s", name, when))
		} else {
			acc.MAPE = stat.Mean(pctErr, nil)
		}
		out[k] = acc
	}

	return out, errors.Join(zeroErrs...)
}

// evalVarName picks the first name available for column k
func evalVarName(k int, candidates ...[]string) string {
	for _, names := range candidates {
		if k < len(names) && names[k] != "" {
			return names[k]
		}
	}
	return fmt.Sprintf("var%d", k)
}
