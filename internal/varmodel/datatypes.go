// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"CopperGold_Causality_VAR_Project/internal/series"
)

// Simple struct for time series data
type TimeSeries struct {
	// Matrix for data, T x K
	Y *mat.Dense
	// Date of every row
	Dates []time.Time
	// List of variable Names
	VarNames []string
}

// NewTimeSeries stacks aligned series column by column into a TimeSeries.
func NewTimeSeries(cols ...*series.Series) (*TimeSeries, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("no series given")
	}
	if !series.Aligned(cols...) {
		return nil, fmt.Errorf("series are not aligned")
	}
	T, K := cols[0].Len(), len(cols)
	if T == 0 {
		return nil, fmt.Errorf("series are empty")
	}

	Y := mat.NewDense(T, K, nil)
	names := make([]string, K)
	for k, s := range cols {
		names[k] = s.Name()
		for t, v := range s.Values() {
			Y.Set(t, k, v)
		}
	}
	return &TimeSeries{Y: Y, Dates: cols[0].Dates(), VarNames: names}, nil
}

// Column returns variable k as a series.
func (ts *TimeSeries) Column(k int) (*series.Series, error) {
	T, _ := ts.Y.Dims()
	vals := make([]float64, T)
	for t := 0; t < T; t++ {
		vals[t] = ts.Y.At(t, k)
	}
	return series.FromValues(ts.VarNames[k], ts.Dates, vals)
}

// What kind of constant to include in the model
type Deterministic int

// Deterministic Constants for VAR
const (
	DetNone Deterministic = iota
	DetConst
	DetTrend
	DetConstTrend
)

func (d Deterministic) String() string {
	switch d {
	case DetNone:
		return "none"
	case DetConst:
		return "const"
	case DetTrend:
		return "trend"
	case DetConstTrend:
		return "both"
	}
	return fmt.Sprintf("Deterministic(%d)", int(d))
}

// ParseDeterministic maps "none", "const", "trend" and "both" to a Deterministic.
func ParseDeterministic(s string) (Deterministic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return DetNone, nil
	case "const":
		return DetConst, nil
	case "trend":
		return DetTrend, nil
	case "both":
		return DetConstTrend, nil
	}
	return DetNone, fmt.Errorf("unknown trend specification %q (want none, const, trend or both)", s)
}

func (d Deterministic) hasConst() bool { return d == DetConst || d == DetConstTrend }

func (d Deterministic) hasTrend() bool { return d == DetTrend || d == DetConstTrend }

// cols is the number of deterministic regressors
func (d Deterministic) cols() int {
	n := 0
	if d.hasConst() {
		n++
	}
	if d.hasTrend() {
		n++
	}
	return n
}

// What kind of model to fit
type ModelSpec struct {
	// How many lags?
	Lags int
	// What kind of constant to include
	Deterministic Deterministic
}

// ReducedFormVAR represents the reduced form of a VAR model.
// It is bound to the sample it was estimated on and is not changed after Estimate returns.
type ReducedFormVAR struct {
	Model ModelSpec

	// Coefficient matrices for each lag A_1, A_2, etc (each KxK matrix)
	// Stored as a slice of matrices
	A []*mat.Dense

	// Deterministic Terms: e.g. constant (Kx1) and trend (Kx1) if included
	C *mat.Dense

	// Covariance of residuals (KxK)
	SigmaU *mat.SymDense

	// Residuals (T-p x K), row t is the residual of observation t+p
	U *mat.Dense

	// Estimation sample, variable order and dates included
	Sample *TimeSeries
}

// ReducedForm is the interface for a reduced form VAR model.
type ReducedForm interface {
	// Returns the model specification
	Spec() ModelSpec
	// Returns the coefficient matrices
	Phi() []*mat.Dense
	// Returns the error covariance
	CovU() *mat.SymDense

	// compute the forecasts from the end of the estimation sample
	Forecast(steps int) (*mat.Dense, error)
	// Simulates effect of one-time shock in 1 variable on all variables over time
	IRF(horizon int, shockIndex int) (*mat.Dense, error)
	// Forecast error variance decomposition
	FEVD(horizon int) ([]*FEVDResult, error)
	// Residual bootstrap for IRFs
	BootstrapIRF(opts BootstrapOptions) (map[int]*IRFBootstrapResult, error)
}

// Estimator is the interface for a VAR model estimator.
type Estimator interface {
	// Turns the data we have into a reduced form VAR
	Estimate(ts *TimeSeries, spec ModelSpec) (*ReducedFormVAR, error)
}

// OLSEstimator implements the OLS estimator for VAR models.
type OLSEstimator struct{}

// --- LAG SELECTION ---

// LagCriteria holds the information criteria of one candidate lag order
type LagCriteria struct {
	Lags int
	AIC  float64
	HQ   float64
	SC   float64
	FPE  float64
}

// LagSelection is the full table plus the order each criterion prefers
type LagSelection struct {
	LagMax   int
	NObs     int // common usable sample, T - LagMax
	Criteria []LagCriteria
	Selected int // AIC choice, used for estimation
	ByHQ     int
	BySC     int
	ByFPE    int
}

// --- GRANGER CAUSALITY TEST ---

// GrangerCausalityResult holds the result of a Granger causality test
type GrangerCausalityResult struct {
	CauseVar    string  // Variable being tested as the cause
	EffectVar   string  // Variable being tested as the effect
	FStatistic  float64 // F-statistic value
	DF1         int     // numerator degrees of freedom (restrictions)
	DF2         int     // denominator degrees of freedom
	PValue      float64 // P-value
	Lags        int     // Number of lags used
	Significant bool    // True if p-value < 0.05
}

// Options for bootstrap IRFs
type BootstrapOptions struct {
	// Number of bootstrap replications (e.g., 500–2000)
	NReplications int

	// Horizon for IRFs (steps h = 0,...,H)
	Horizon int

	// Confidence level alpha (e.g., 0.05 for 95% CI)
	Alpha float64

	// RNG seed (if 0, time-based seed is used)
	Seed int64
}

// IRFBootstrapResult stores point estimates and CI bands for one shock.
type IRFBootstrapResult struct {
	ShockIndex int     // which variable was shocked
	Horizon    int     // last IRF step
	Alpha      float64 // significance level (e.g. 0.05)

	// Point estimate IRF (horizon+1 x K), from original rf.IRF(...)
	Point *mat.Dense

	// Lower and Upper CI bands (same dimensions as Point), nil without bootstrap
	Lower *mat.Dense
	Upper *mat.Dense
}

// Options for bootstrap Granger causality specifically.
type GrangerBootstrapOptions struct {
	NReplications int     // e.g. 500–2000
	Alpha         float64 // e.g. 0.05 for 95% significance
	Seed          int64   // RNG seed; 0 = time-based
}

// GrangerCausalityBootstrapResult holds the results of a bootstrap Granger causality test.
type GrangerCausalityBootstrapResult struct {
	Base        *GrangerCausalityResult // original analytic GC result
	BootPValue  float64                 // bootstrap p-value
	Alpha       float64                 // significance level used
	Significant bool                    // BootPValue < Alpha
}

// FEVDResult is the variance decomposition of one variable.
// Shares is horizon x K: row s holds the fraction of the (s+1)-step forecast error
// variance due to each orthogonal shock; rows sum to 1.
type FEVDResult struct {
	Variable string
	Shares   *mat.Dense
}

// ForecastResult is an out-of-sample forecast stamped with the dates it predicts.
type ForecastResult struct {
	Dates    []time.Time
	VarNames []string
	Values   *mat.Dense // steps x K
}

// Accuracy is the forecast error summary of one variable.
// MAPE is NaN when an actual value is exactly zero.
type Accuracy struct {
	Variable string
	MAE      float64
	RMSE     float64
	MAPE     float64
	N        int
}
