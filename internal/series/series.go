// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

// Package series holds dated univariate series and the transformations the
// analysis applies to them before they become a VAR sample.
package series

import (
	"math"
	"sort"
	"time"

	"CopperGold_Causality_VAR_Project/internal/errs"
)

// TimePoint is one dated observation
type TimePoint struct {
	Date  time.Time
	Value float64
}

// Series is an ordered run of TimePoints with strictly increasing dates and finite values.
// It is never modified after New; every transformation returns a new Series.
type Series struct {
	name   string
	points []TimePoint
}

// New validates points and copies them into a Series.
// Returns an InputError if dates are not strictly increasing or a value is NaN/Inf.
func New(name string, points []TimePoint) (*Series, error) {
	cp := make([]TimePoint, len(points))
	copy(cp, points)

	for i, p := range cp {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return nil, errs.Input("series", "%s: non-finite value at %s", name, p.Date.Format(time.DateOnly))
		}
		if i > 0 && !p.Date.After(cp[i-1].Date) {
			return nil, errs.Input("series", "%s: dates not strictly increasing at %s",
				name, p.Date.Format(time.DateOnly))
		}
	}
	return &Series{name: name, points: cp}, nil
}

// FromValues builds a Series from parallel date and value slices.
func FromValues(name string, dates []time.Time, values []float64) (*Series, error) {
	if len(dates) != len(values) {
		return nil, errs.Input("series", "%s: %d dates but %d values", name, len(dates), len(values))
	}
	pts := make([]TimePoint, len(dates))
	for i := range dates {
		pts[i] = TimePoint{Date: dates[i], Value: values[i]}
	}
	return New(name, pts)
}

// Sorted is New for points in arbitrary order (e.g. files stored newest first).
func Sorted(name string, points []TimePoint) (*Series, error) {
	cp := make([]TimePoint, len(points))
	copy(cp, points)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Date.Before(cp[j].Date) })
	return New(name, cp)
}

func (s *Series) Name() string { return s.name }

func (s *Series) Len() int { return len(s.points) }

// At returns the i-th observation.
func (s *Series) At(i int) TimePoint { return s.points[i] }

// First and Last panic on an empty series, like indexing would.
func (s *Series) First() TimePoint { return s.points[0] }

func (s *Series) Last() TimePoint { return s.points[len(s.points)-1] }

// Points returns a copy of the observations.
func (s *Series) Points() []TimePoint {
	out := make([]TimePoint, len(s.points))
	copy(out, s.points)
	return out
}

func (s *Series) Dates() []time.Time {
	out := make([]time.Time, len(s.points))
	for i, p := range s.points {
		out[i] = p.Date
	}
	return out
}

func (s *Series) Values() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

// Rename returns the same observations under another name.
func (s *Series) Rename(name string) *Series {
	return &Series{name: name, points: s.Points()}
}

// Diff returns first differences: diff[i] = v[i+1] - v[i], stamped with the later date.
// The result has Len()-1 points.
func (s *Series) Diff() (*Series, error) {
	if len(s.points) < 2 {
		return nil, errs.Input("difference", "%s: need at least 2 points, got %d", s.name, len(s.points))
	}
	out := make([]TimePoint, len(s.points)-1)
	for i := 0; i < len(s.points)-1; i++ {
		out[i] = TimePoint{
			Date:  s.points[i+1].Date,
			Value: s.points[i+1].Value - s.points[i].Value,
		}
	}
	return &Series{name: s.name, points: out}, nil
}

// DiffFrom differences s against a preceding anchor observation, so the first
// point of the result is s[0] - anchor. The result has Len() points.
func (s *Series) DiffFrom(anchor TimePoint) (*Series, error) {
	if len(s.points) == 0 {
		return nil, errs.Input("difference", "%s: empty series", s.name)
	}
	if !s.points[0].Date.After(anchor.Date) {
		return nil, errs.Input("difference", "%s: anchor %s is not before first date %s", s.name,
			anchor.Date.Format(time.DateOnly), s.points[0].Date.Format(time.DateOnly))
	}
	out := make([]TimePoint, len(s.points))
	prev := anchor.Value
	for i, p := range s.points {
		out[i] = TimePoint{Date: p.Date, Value: p.Value - prev}
		prev = p.Value
	}
	return &Series{name: s.name, points: out}, nil
}

// Integrate undoes Diff: start followed by the running sum of the differences.
// Integrate(d, s.First().Value) reproduces s.Values() when d = s.Diff().
func Integrate(diff *Series, start float64) []float64 {
	out := make([]float64, diff.Len()+1)
	out[0] = start
	for i, p := range diff.points {
		out[i+1] = out[i] + p.Value
	}
	return out
}

// SplitAt partitions s into points dated on or before cutoff and points after it.
func (s *Series) SplitAt(cutoff time.Time) (train, test *Series) {
	idx := sort.Search(len(s.points), func(i int) bool { return s.points[i].Date.After(cutoff) })
	train = &Series{name: s.name, points: append([]TimePoint(nil), s.points[:idx]...)}
	test = &Series{name: s.name, points: append([]TimePoint(nil), s.points[idx:]...)}
	return train, test
}

// Between keeps the points with from <= date <= to.
func (s *Series) Between(from, to time.Time) *Series {
	var out []TimePoint
	for _, p := range s.points {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		out = append(out, p)
	}
	return &Series{name: s.name, points: out}
}

// Aligned reports whether all series have identical date sequences.
func Aligned(all ...*Series) bool {
	if len(all) == 0 {
		return true
	}
	ref := all[0]
	for _, s := range all[1:] {
		if s.Len() != ref.Len() {
			return false
		}
		for i := range s.points {
			if !s.points[i].Date.Equal(ref.points[i].Date) {
				return false
			}
		}
	}
	return true
}
