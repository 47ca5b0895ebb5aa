// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"CopperGold_Causality_VAR_Project/internal/varmodel"
)

// Output file names, relative to the report directory
const (
	RatioFile            = "ratio.csv"
	StationarityFile     = "stationarity.csv"
	LagSelectionFile     = "lag_selection.csv"
	CoefficientsFile     = "var_coefficients.csv"
	GrangerFile          = "granger_results.csv"
	GrangerBootstrapFile = "granger_bootstrap_results.csv"
	IRFFile              = "irf_results.csv"
	SpreadResponseFile   = "irf_spread_analysis.csv"
	FEVDFile             = "fevd_results.csv"
	ForecastFile         = "forecast_results.csv"
	AccuracyFile         = "accuracy.csv"
)

type csvOutput struct {
	file  string
	write func(path string) error
}

// Write saves every table of the report as CSV under dir, creating it if needed.
func (r *Report) Write(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	path := func(name string) string { return filepath.Join(dir, name) }
	names := r.varNames()

	outputs := []csvOutput{
		{RatioFile, r.writeRatio},
		{StationarityFile, r.writeStationarity},
		{LagSelectionFile, func(p string) error { return varmodel.OutputLagSelectionToCSV(p, r.Lags) }},
		{CoefficientsFile, r.Model.OutputCoefficientsToCSV},
		{GrangerFile, func(p string) error { return varmodel.OutputGrangerMatrixToCSV(p, r.Granger) }},
		{IRFFile, func(p string) error { return varmodel.OutputIRFToCSV(p, r.IRF, names) }},
		{SpreadResponseFile, func(p string) error { return varmodel.OutputIRFAnalysisToCSV(p, r.SpreadResponse, names) }},
		{FEVDFile, func(p string) error { return varmodel.OutputFEVDToCSV(p, r.FEVD, names) }},
		{ForecastFile, func(p string) error { return varmodel.OutputForecastsToCSV(p, r.Forecast, r.Test) }},
		{AccuracyFile, func(p string) error { return varmodel.OutputAccuracyToCSV(p, r.Accuracy) }},
	}
	if r.GrangerBootstrap != nil {
		outputs = append(outputs, csvOutput{GrangerBootstrapFile, func(p string) error {
			return varmodel.OutputGrangerBootstrapMatrixToCSV(p, r.GrangerBootstrap)
		}})
	}

	for _, out := range outputs {
		if err := out.write(path(out.file)); err != nil {
			return fmt.Errorf("writing %s: %w", out.file, err)
		}
	}
	return nil
}

// varNames is the VAR variable order, [ratio, spread]
func (r *Report) varNames() []string {
	if r.Model != nil && r.Model.Sample != nil {
		return r.Model.Sample.VarNames
	}
	if r.Train != nil {
		return r.Train.VarNames
	}
	return nil
}

// writeRatio writes the aligned levels next to the ratio and its rolling mean.
// Columns: Date, copper, gold, spread, cu_au_ratio, rolling_mean
func (r *Report) writeRatio(path string) error {
	rows := make([][]string, 0, r.Ratio.Len())
	for i, p := range r.Ratio.Points() {
		rows = append(rows, []string{
			p.Date.Format(time.DateOnly),
			varmodel.FormatFloat(r.Aligned.Copper.At(i).Value),
			varmodel.FormatFloat(r.Aligned.Gold.At(i).Value),
			varmodel.FormatFloat(r.Aligned.Spread.At(i).Value),
			varmodel.FormatFloat(p.Value),
			varmodel.FormatFloat(r.RollingMean[i]),
		})
	}
	header := []string{"Date", r.Aligned.Copper.Name(), r.Aligned.Gold.Name(), r.Aligned.Spread.Name(),
		r.Ratio.Name(), "rolling_mean"}
	return varmodel.WriteCSV(path, header, rows)
}

// writeStationarity writes one row per ADF test.
// Columns: Variable, Statistic, Lags, NObs, PValue, CV1, CV5, CV10, Stationary
func (r *Report) writeStationarity(path string) error {
	rows := make([][]string, 0, len(r.Stationarity))
	for _, res := range r.Stationarity {
		rows = append(rows, []string{
			res.Variable,
			varmodel.FormatFloat(res.Statistic),
			strconv.Itoa(res.Lags),
			strconv.Itoa(res.NObs),
			varmodel.FormatFloat(res.PValue),
			varmodel.FormatFloat(res.CriticalValues["1%"]),
			varmodel.FormatFloat(res.CriticalValues["5%"]),
			varmodel.FormatFloat(res.CriticalValues["10%"]),
			strconv.FormatBool(res.Stationary),
		})
	}
	header := []string{"Variable", "Statistic", "Lags", "NObs", "PValue", "CV1", "CV5", "CV10", "Stationary"}
	return varmodel.WriteCSV(path, header, rows)
}

// Print writes the text summary of the run.
func (r *Report) Print(w io.Writer) {
	names := r.varNames()

	fmt.Fprintln(w, "=== Copper/Gold Ratio vs 10Y-2Y Spread ===")
	if r.Aligned != nil {
		fmt.Fprintf(w, "Aligned window: %s to %s (%d months)\n",
			r.Aligned.Start().Format("2006-01"), r.Aligned.End().Format("2006-01"), r.Aligned.Len())
	}
	if r.Train != nil && r.Test != nil {
		fmt.Fprintf(w, "Training observations: %d, test observations: %d\n",
			r.Train.Y.RawMatrix().Rows, r.Test.Y.RawMatrix().Rows)
	}

	if len(r.Stationarity) > 0 {
		fmt.Fprintln(w, "\n=== Augmented Dickey-Fuller (first differences) ===")
		fmt.Fprintf(w, "%-14s %12s %5s %10s %s\n", "Variable", "Statistic", "Lags", "P-Value", "Conclusion")
		for _, res := range r.Stationarity {
			conclusion := "unit root not rejected"
			if res.Stationary {
				conclusion = "stationary"
			}
			fmt.Fprintf(w, "%-14s %12.4f %5d %10.4f %s\n", res.Variable, res.Statistic, res.Lags, res.PValue, conclusion)
		}
	}

	if r.Lags != nil {
		varmodel.PrintLagSelection(w, r.Lags)
	}
	if r.Model != nil {
		r.Model.Summary(w)
	}
	if r.Granger != nil {
		alpha := r.GrangerAlpha
		if alpha <= 0 {
			alpha = varmodel.GrangerAlpha
		}
		varmodel.PrintGrangerCausality(w, r.Granger, names, alpha)
	}
	for shock := 0; shock < len(names); shock++ {
		if res, ok := r.IRF[shock]; ok {
			varmodel.PrintIRF(w, res.Point, names, shock)
		}
	}
	if len(r.FEVD) > 0 {
		H, _ := r.FEVD[0].Shares.Dims()
		steps := []int{1}
		if mid := (H + 1) / 2; mid > 1 {
			steps = append(steps, mid)
		}
		if H > steps[len(steps)-1] {
			steps = append(steps, H)
		}
		varmodel.PrintFEVD(w, r.FEVD, names, steps...)
	}
	if r.Accuracy != nil {
		varmodel.PrintAccuracy(w, r.Accuracy)
	}
}
