// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package stationarity

import (
	"math"
	"time"

	"CopperGold_Causality_VAR_Project/internal/errs"
	"CopperGold_Causality_VAR_Project/internal/series"
)

// Differenced is a pair of first-differenced series on a common date index.
type Differenced struct {
	A, B *series.Series
}

// Transform first-differences a and b and keeps only the dates where both
// differences are defined.
func Transform(a, b *series.Series) (*Differenced, error) {
	da, err := a.Diff()
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "stationarity", err, "difference %s", a.Name())
	}
	db, err := b.Diff()
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "stationarity", err, "difference %s", b.Name())
	}
	return joinDefined(da, db)
}

// TransformFrom differences test partitions against the last training observation
// of each variable, so the first test date keeps its change.
func TransformFrom(a, b *series.Series, anchorA, anchorB series.TimePoint) (*Differenced, error) {
	da, err := a.DiffFrom(anchorA)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "stationarity", err, "difference %s", a.Name())
	}
	db, err := b.DiffFrom(anchorB)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "stationarity", err, "difference %s", b.Name())
	}
	return joinDefined(da, db)
}

// joinDefined drops every date missing from either side or holding a non-finite value.
func joinDefined(da, db *series.Series) (*Differenced, error) {
	byDate := make(map[time.Time]float64, db.Len())
	for _, p := range db.Points() {
		byDate[p.Date] = p.Value
	}

	var ptsA, ptsB []series.TimePoint
	for _, p := range da.Points() {
		v, ok := byDate[p.Date]
		if !ok || !finite(p.Value) || !finite(v) {
			continue
		}
		ptsA = append(ptsA, p)
		ptsB = append(ptsB, series.TimePoint{Date: p.Date, Value: v})
	}
	if len(ptsA) == 0 {
		return nil, errs.Alignment("stationarity", "%s and %s have no common differenced dates", da.Name(), db.Name())
	}

	outA, err := series.New(da.Name(), ptsA)
	if err != nil {
		return nil, err
	}
	outB, err := series.New(db.Name(), ptsB)
	if err != nil {
		return nil, err
	}
	return &Differenced{A: outA, B: outB}, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Test runs ADF on both differenced series independently.
func (d *Differenced) Test() ([]*Result, error) {
	var out []*Result
	for _, s := range []*series.Series{d.A, d.B} {
		res, err := ADF(s.Name(), s.Values())
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
