// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package series

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"CopperGold_Causality_VAR_Project/internal/errs"
)

// MonthStart truncates t to the first day of its calendar month (UTC).
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthlyMean collapses s to one point per calendar month, the mean of every
// observation in that month, dated on the first of the month.
// A series that is already monthly just gets its dates normalised.
func MonthlyMean(s *Series) *Series {
	var (
		out    []TimePoint
		bucket []float64
		month  time.Time
	)
	flush := func() {
		if len(bucket) > 0 {
			out = append(out, TimePoint{Date: month, Value: stat.Mean(bucket, nil)})
		}
		bucket = bucket[:0]
	}

	for _, p := range s.points {
		m := MonthStart(p.Date)
		if !m.Equal(month) {
			flush()
			month = m
		}
		bucket = append(bucket, p.Value)
	}
	flush()

	return &Series{name: s.name, points: out}
}

// AlignedSet is the output of Align: three monthly series with an identical date index.
type AlignedSet struct {
	Spread *Series
	Gold   *Series
	Copper *Series
}

// Start and End of the common window.
func (a *AlignedSet) Start() time.Time { return a.Spread.First().Date }

func (a *AlignedSet) End() time.Time { return a.Spread.Last().Date }

func (a *AlignedSet) Len() int { return a.Spread.Len() }

// Align puts spread (daily), gold (daily) and copper (monthly) on a common monthly calendar.
// Each source is averaged per calendar month, then all three are cut to the months they share.
// Every month between the common start and end must be present in all three series.
// Fewer than lagMax+2 months fails with an AlignmentError, since lag selection needs them.
func Align(spread, gold, copper *Series, lagMax int) (*AlignedSet, error) {
	inputs := []*Series{spread, gold, copper}
	for _, s := range inputs {
		if s == nil || s.Len() == 0 {
			name := "<nil>"
			if s != nil {
				name = s.name
			}
			return nil, errs.Alignment("align", "series %s is empty", name)
		}
	}

	monthly := make([]*Series, len(inputs))
	for i, s := range inputs {
		monthly[i] = MonthlyMean(s)
	}

	// Common window: latest start, earliest end
	from := monthly[0].First().Date
	to := monthly[0].Last().Date
	for _, m := range monthly[1:] {
		if m.First().Date.After(from) {
			from = m.First().Date
		}
		if m.Last().Date.Before(to) {
			to = m.Last().Date
		}
	}
	if from.After(to) {
		return nil, errs.Alignment("align", "no overlapping months: latest start %s is after earliest end %s",
			from.Format("2006-01"), to.Format("2006-01"))
	}

	for i, m := range monthly {
		monthly[i] = m.Between(from, to)
	}

	// Every calendar month in [from, to] must exist in all three
	want := 0
	for d := from; !d.After(to); d = d.AddDate(0, 1, 0) {
		for _, m := range monthly {
			if want >= m.Len() || !m.points[want].Date.Equal(d) {
				return nil, errs.Alignment("align", "%s has no observations for %s (window %s to %s)",
					m.name, d.Format("2006-01"), from.Format("2006-01"), to.Format("2006-01"))
			}
		}
		want++
	}

	if want < lagMax+2 {
		return nil, errs.Alignment("align", "only %d common months between %s and %s, need at least %d (lag.max + 2)",
			want, from.Format("2006-01"), to.Format("2006-01"), lagMax+2)
	}

	return &AlignedSet{Spread: monthly[0], Gold: monthly[1], Copper: monthly[2]}, nil
}
