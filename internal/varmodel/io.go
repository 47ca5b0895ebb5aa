// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
)

// FormatFloat is the number format of every CSV this package writes
func FormatFloat(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }

// WriteCSV creates path and writes header followed by rows.
func WriteCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	// WriteAll flushes; Error reports a failed flush
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

// TermNames lists the regressors of every equation in coefficient order:
// deterministic terms, then "<var>.l<j>" for each lag j and variable.
func (rf *ReducedFormVAR) TermNames() []string {
	var terms []string
	if rf.Model.Deterministic.hasConst() {
		terms = append(terms, "const")
	}
	if rf.Model.Deterministic.hasTrend() {
		terms = append(terms, "trend")
	}
	K := rf.K()
	for j := 1; j <= len(rf.A); j++ {
		for k := 0; k < K; k++ {
			terms = append(terms, fmt.Sprintf("%s.l%d", rf.varName(k), j))
		}
	}
	return terms
}

// Coefficient returns the coefficient of term index col in equation eq, indexed like TermNames.
func (rf *ReducedFormVAR) Coefficient(eq, col int) float64 {
	detCols := rf.Model.Deterministic.cols()
	if col < detCols {
		return rf.C.At(eq, col)
	}
	K := rf.K()
	lag := (col - detCols) / K
	k := (col - detCols) % K
	return rf.A[lag].At(eq, k)
}

// Produces a summary table of all of the model params
func (rf *ReducedFormVAR) Summary(w io.Writer) {
	// Check if rf is nil
	if rf == nil || len(rf.A) == 0 {
		fmt.Fprintln(w, "VAR model is nil")
		return
	}
	fmt.Fprintln(w, "         Reduced-form VAR Summary      ")

	K := rf.K()
	p := rf.Model.Lags

	fmt.Fprintf(w, "Number of variables (K): %d\n", K)
	fmt.Fprintf(w, "Lag order (p):           %d\n", p)
	if rf.Sample != nil {
		T, _ := rf.Sample.Y.Dims()
		fmt.Fprintf(w, "Sample size (T):         %d\n", T)
		if len(rf.Sample.Dates) > 0 {
			fmt.Fprintf(w, "Sample window:           %s to %s\n",
				rf.Sample.Dates[0].Format(time.DateOnly),
				rf.Sample.Dates[len(rf.Sample.Dates)-1].Format(time.DateOnly))
		}
	}
	fmt.Fprintln(w)

	// Model specifications
	fmt.Fprintln(w, "Model specification:")
	fmt.Fprintf(w, "  Deterministic: %v\n", rf.Model.Deterministic)
	fmt.Fprintln(w)

	if rf.Sample != nil && len(rf.Sample.VarNames) > 0 {
		fmt.Fprintln(w, "Variables:")
		fmt.Fprintf(w, "  %s\n", strings.Join(rf.Sample.VarNames, ", "))
		fmt.Fprintln(w)
	}

	// Per-equation coefficients
	terms := rf.TermNames()
	for eq := 0; eq < K; eq++ {
		fmt.Fprintf(w, "Equation %s:\n", rf.varName(eq))
		for col, term := range terms {
			fmt.Fprintf(w, "  %-22s %14.6f\n", term, rf.Coefficient(eq, col))
		}
		fmt.Fprintln(w)
	}

	// Covariance matrix Σ_u
	if rf.SigmaU != nil {
		fmt.Fprintln(w, "Residual covariance matrix Σ_u:")
		fmt.Fprintf(w, "%v\n", mat.Formatted(rf.SigmaU, mat.Prefix("  ")))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "=======================================")
}

// PrintLagSelection prints the information criteria for each candidate lag order
func PrintLagSelection(w io.Writer, sel *LagSelection) {
	fmt.Fprintf(w, "\n=== Lag Selection (lag.max = %d, N = %d) ===\n", sel.LagMax, sel.NObs)
	fmt.Fprintf(w, "%4s %14s %14s %14s %14s\n", "p", "AIC", "HQ", "SC", "FPE")
	for _, c := range sel.Criteria {
		fmt.Fprintf(w, "%4d %14.6f %14.6f %14.6f %14.6g\n", c.Lags, c.AIC, c.HQ, c.SC, c.FPE)
	}
	fmt.Fprintf(w, "Selected p = %d (AIC); HQ: %d, SC: %d, FPE: %d\n", sel.Selected, sel.ByHQ, sel.BySC, sel.ByFPE)
}

// Helps print the IRF matrix, requires the matrix, variable names, and the shockindex
func PrintIRF(w io.Writer, irf *mat.Dense, varNames []string, shockIndex int) {
	rows, cols := irf.Dims()

	fmt.Fprintf(w, "\n=== Impulse Response Function ===\n")
	fmt.Fprintf(w, "Shock to variable %d (%s)\n\n", shockIndex, varNames[shockIndex])

	// Print header
	fmt.Fprintf(w, "h\t")
	for _, name := range varNames {
		fmt.Fprintf(w, "%14s", name)
	}
	fmt.Fprintln(w)

	// Print rows
	for h := 0; h < rows; h++ {
		fmt.Fprintf(w, "%d\t", h)
		for j := 0; j < cols; j++ {
			fmt.Fprintf(w, "%14.6g", irf.At(h, j))
		}
		fmt.Fprintln(w)
	}
}

// PrintFEVD prints the variance shares of every variable at the given steps (1-based)
func PrintFEVD(w io.Writer, fevd []*FEVDResult, varNames []string, steps ...int) {
	fmt.Fprintln(w, "\n=== Forecast Error Variance Decomposition ===")
	for _, res := range fevd {
		H, K := res.Shares.Dims()
		fmt.Fprintf(w, "\n%s\n", res.Variable)
		fmt.Fprintf(w, "%6s", "step")
		for j := 0; j < K; j++ {
			fmt.Fprintf(w, "%14s", varNames[j])
		}
		fmt.Fprintln(w)
		for _, s := range steps {
			if s < 1 || s > H {
				continue
			}
			fmt.Fprintf(w, "%6d", s)
			for j := 0; j < K; j++ {
				fmt.Fprintf(w, "%14.4f", res.Shares.At(s-1, j))
			}
			fmt.Fprintln(w)
		}
	}
}

// PrintGrangerCausality prints the Granger causality test results in a formatted table.
// alpha is the level the results' Significant flags were decided at.
func PrintGrangerCausality(w io.Writer, results [][]*GrangerCausalityResult, varNames []string, alpha float64) {
	fmt.Fprintln(w, "\n=== Granger Causality Test Results ===")
	fmt.Fprintln(w, "Null Hypothesis: Variable X does NOT Granger-cause Variable Y")
	fmt.Fprintf(w, "Significance level: α = %.2f\n", alpha)
	fmt.Fprintln(w)

	K := len(varNames)

	// Print header
	fmt.Fprintf(w, "%-14s -> %-14s | F-Statistic |   df    | P-Value  | Conclusion\n", "Cause", "Effect")
	fmt.Fprintln(w, "------------------------------------------------------------------------------------")

	// Print results
	for i := 0; i < K; i++ {
		for j := 0; j < K; j++ {
			if i == j {
				continue
			}

			result := results[i][j]
			if result == nil {
				continue
			}

			conclusion := "No causality"
			if result.Significant {
				conclusion = "GRANGER-CAUSES"
			}

			fmt.Fprintf(w, "%-14s -> %-14s | %11.4f | %3d,%4d | %8.6f | %s\n",
				result.CauseVar,
				result.EffectVar,
				result.FStatistic,
				result.DF1,
				result.DF2,
				result.PValue,
				conclusion)
		}
	}
	fmt.Fprintln(w)
}

// PrintAccuracy prints the forecast error metrics of every variable
func PrintAccuracy(w io.Writer, acc []Accuracy) {
	fmt.Fprintln(w, "\n=== Out-of-sample Forecast Accuracy ===")
	fmt.Fprintf(w, "%-14s %5s %14s %14s %14s\n", "Variable", "N", "MAE", "RMSE", "MAPE(%)")
	for _, a := range acc {
		fmt.Fprintf(w, "%-14s %5d %14.6g %14.6g %14.6g\n", a.Variable, a.N, a.MAE, a.RMSE, a.MAPE)
	}
}

// OutputCoefficientsToCSV writes one row per equation and regressor.
// Columns: Equation, Term, Estimate
func (rf *ReducedFormVAR) OutputCoefficientsToCSV(path string) error {
	terms := rf.TermNames()
	var rows [][]string
	for eq := 0; eq < rf.K(); eq++ {
		for col, term := range terms {
			rows = append(rows, []string{rf.varName(eq), term, FormatFloat(rf.Coefficient(eq, col))})
		}
	}
	return WriteCSV(path, []string{"Equation", "Term", "Estimate"}, rows)
}

// OutputLagSelectionToCSV writes the criteria table.
// Columns: Lags, AIC, HQ, SC, FPE, Selected
func OutputLagSelectionToCSV(path string, sel *LagSelection) error {
	rows := make([][]string, 0, len(sel.Criteria))
	for _, c := range sel.Criteria {
		rows = append(rows, []string{
			strconv.Itoa(c.Lags),
			FormatFloat(c.AIC),
			FormatFloat(c.HQ),
			FormatFloat(c.SC),
			FormatFloat(c.FPE),
			strconv.FormatBool(c.Lags == sel.Selected),
		})
	}
	return WriteCSV(path, []string{"Lags", "AIC", "HQ", "SC", "FPE", "Selected"}, rows)
}

// This function takes in the created Granger Matrix and outputs it to a CSV file with
// the columns: CauseVar, EffectVar, FStatistic, DF1, DF2, PValue, Lags, Significant
// Returns an error if the file cannot be written, otherwise returns nil and writes the file
func OutputGrangerMatrixToCSV(path string, gcMatrix [][]*GrangerCausalityResult) error {
	var rows [][]string
	for i := range gcMatrix {
		for j, result := range gcMatrix[i] {
			if i == j || result == nil {
				continue // Skip self-causality
			}
			rows = append(rows, []string{
				result.CauseVar,
				result.EffectVar,
				FormatFloat(result.FStatistic),
				strconv.Itoa(result.DF1),
				strconv.Itoa(result.DF2),
				FormatFloat(result.PValue),
				strconv.Itoa(result.Lags),
				strconv.FormatBool(result.Significant),
			})
		}
	}
	header := []string{"CauseVar", "EffectVar", "FStatistic", "DF1", "DF2", "PValue", "Lags", "Significant"}
	return WriteCSV(path, header, rows)
}

// OutputGrangerBootstrapMatrixToCSV writes the bootstrap GC results to CSV.
// Columns: CauseVar, EffectVar, FStatistic, AsymptoticP, BootPValue, Lags, Significant_Asymptotic, Significant_Bootstrap
func OutputGrangerBootstrapMatrixToCSV(path string, bootMat [][]*GrangerCausalityBootstrapResult) error {
	var rows [][]string
	for i := range bootMat {
		for j, res := range bootMat[i] {
			if i == j || res == nil || res.Base == nil {
				continue
			}
			rows = append(rows, []string{
				res.Base.CauseVar,
				res.Base.EffectVar,
				FormatFloat(res.Base.FStatistic),
				FormatFloat(res.Base.PValue),
				FormatFloat(res.BootPValue),
				strconv.Itoa(res.Base.Lags),
				strconv.FormatBool(res.Base.Significant),
				strconv.FormatBool(res.Significant),
			})
		}
	}
	header := []string{
		"CauseVar",
		"EffectVar",
		"FStatistic",
		"AsymptoticP",
		"BootPValue",
		"Lags",
		"Significant_Asymptotic",
		"Significant_Bootstrap",
	}
	return WriteCSV(path, header, rows)
}

// OutputIRFToCSV writes IRF results to CSV in long format, shocks in variable order.
// Columns: ShockVar, ResponseVar, Horizon, Point, Lower, Upper
// Lower and Upper are left empty when the result carries no bootstrap bands.
func OutputIRFToCSV(path string, irfs map[int]*IRFBootstrapResult, varNames []string) error {
	var rows [][]string
	for shockIdx := 0; shockIdx < len(varNames); shockIdx++ {
		res, ok := irfs[shockIdx]
		if !ok {
			continue
		}
		H, K := res.Point.Dims()
		for j := 0; j < K; j++ {
			for h := 0; h < H; h++ {
				low, high := "", ""
				if res.Lower != nil && res.Upper != nil {
					low = FormatFloat(res.Lower.At(h, j))
					high = FormatFloat(res.Upper.At(h, j))
				}
				rows = append(rows, []string{
					varNames[shockIdx],
					varNames[j],
					strconv.Itoa(h),
					FormatFloat(res.Point.At(h, j)),
					low,
					high,
				})
			}
		}
	}
	return WriteCSV(path, []string{"ShockVar", "ResponseVar", "Horizon", "Point", "Lower", "Upper"}, rows)
}

// OutputIRFAnalysisToCSV writes the response of one variable to every shock, one column per shock.
func OutputIRFAnalysisToCSV(path string, analysis map[int][]float64, varNames []string) error {
	header := []string{"Horizon"}
	for shockIdx := 0; shockIdx < len(varNames); shockIdx++ {
		header = append(header, "Shock_"+varNames[shockIdx])
	}

	// Determine horizon from one of the analysis entries
	horizon := len(analysis[0])

	rows := make([][]string, 0, horizon)
	for h := 0; h < horizon; h++ {
		record := []string{strconv.Itoa(h)}
		for shockIdx := 0; shockIdx < len(varNames); shockIdx++ {
			record = append(record, FormatFloat(analysis[shockIdx][h]))
		}
		rows = append(rows, record)
	}
	return WriteCSV(path, header, rows)
}

// OutputFEVDToCSV writes variance shares in long format.
// Columns: Variable, Step, Shock, Share
func OutputFEVDToCSV(path string, fevd []*FEVDResult, varNames []string) error {
	var rows [][]string
	for _, res := range fevd {
		H, K := res.Shares.Dims()
		for s := 0; s < H; s++ {
			for j := 0; j < K; j++ {
				rows = append(rows, []string{
					res.Variable,
					strconv.Itoa(s + 1),
					varNames[j],
					FormatFloat(res.Shares.At(s, j)),
				})
			}
		}
	}
	return WriteCSV(path, []string{"Variable", "Step", "Shock", "Share"}, rows)
}

// OutputForecastsToCSV writes forecasts next to the actual test values.
// Columns: Date, then <var>_forecast and <var>_actual for each variable
func OutputForecastsToCSV(path string, fc *ForecastResult, actual *TimeSeries) error {
	rows, cols := fc.Values.Dims()

	header := []string{"Date"}
	for _, name := range fc.VarNames {
		header = append(header, name+"_forecast", name+"_actual")
	}

	records := make([][]string, 0, rows)
	for i := 0; i < rows; i++ {
		record := []string{""}
		if i < len(fc.Dates) {
			record[0] = fc.Dates[i].Format(time.DateOnly)
		}
		for j := 0; j < cols; j++ {
			act := ""
			if actual != nil {
				act = FormatFloat(actual.Y.At(i, j))
			}
			record = append(record, FormatFloat(fc.Values.At(i, j)), act)
		}
		records = append(records, record)
	}
	return WriteCSV(path, header, records)
}

// OutputAccuracyToCSV writes the error metrics. MAPE is written as NaN when undefined.
// Columns: Variable, N, MAE, RMSE, MAPE
func OutputAccuracyToCSV(path string, acc []Accuracy) error {
	rows := make([][]string, 0, len(acc))
	for _, a := range acc {
		rows = append(rows, []string{
			a.Variable,
			strconv.Itoa(a.N),
			FormatFloat(a.MAE),
			FormatFloat(a.RMSE),
			FormatFloat(a.MAPE),
		})
	}
	return WriteCSV(path, []string{"Variable", "N", "MAE", "RMSE", "MAPE"}, rows)
}
