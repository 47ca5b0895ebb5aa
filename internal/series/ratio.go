// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package series

import (
	"math"
	"time"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"CopperGold_Causality_VAR_Project/internal/errs"
)

// DefaultPoundsPerTon converts a copper price quoted per metric ton to a per-pound price.
const DefaultPoundsPerTon = 2204.62

// Ratio computes copper/factor/gold on every date the two series share.
// copper is priced per ton, gold per unit; factor is units per ton.
// Prices must be strictly positive so the ratio is too.
func Ratio(copper, gold *Series, factor float64) (*Series, error) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, errs.Input("ratio", "conversion factor must be positive, got %v", factor)
	}

	goldByDate := make(map[time.Time]float64, gold.Len())
	for _, p := range gold.points {
		goldByDate[p.Date] = p.Value
	}

	var out []TimePoint
	for _, c := range copper.points {
		g, ok := goldByDate[c.Date]
		if !ok {
			continue
		}
		if c.Value <= 0 {
			return nil, errs.Input("ratio", "%s price %v at %s is not positive", copper.name, c.Value, c.Date.Format("2006-01"))
		}
		if g <= 0 {
			return nil, errs.Input("ratio", "%s price %v at %s is not positive", gold.name, g, c.Date.Format("2006-01"))
		}
		out = append(out, TimePoint{Date: c.Date, Value: c.Value / factor / g})
	}

	if len(out) == 0 {
		return nil, errs.Alignment("ratio", "%s and %s share no dates", copper.name, gold.name)
	}
	return &Series{name: "cu_au_ratio", points: out}, nil
}

// RollingMean is the trailing (not centred) mean over window points.
// The result has one entry per point of s; the first window-1 entries are NaN.
func RollingMean(s *Series, window int) ([]float64, error) {
	if window < 1 {
		return nil, errs.Input("ratio", "rolling window must be >= 1, got %d", window)
	}

	n := s.Len()
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if n < window {
		return out, nil
	}

	sma := trend.NewSmaWithPeriod[float64](window)
	means := helper.ChanToSlice(sma.Compute(helper.SliceToChan(s.Values())))

	// Sma drops the warm-up period, so the means line up with the tail of s
	offset := n - len(means)
	copy(out[offset:], means)
	return out, nil
}
