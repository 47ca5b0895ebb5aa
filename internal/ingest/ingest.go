// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

// Package ingest reads the three raw source files into series.
// Rows are kept or dropped by what they contain (a parseable date and a numeric value),
// never by their position in the file.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"CopperGold_Causality_VAR_Project/internal/errs"
	"CopperGold_Causality_VAR_Project/internal/logging"
	"CopperGold_Causality_VAR_Project/internal/series"
)

// Series names used downstream
const (
	SpreadName = "spread"
	GoldName   = "gold"
	CopperName = "copper"
)

var dayLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"02-Jan-2006",
	"2006/01/02",
}

var monthLayouts = []string{
	"2006-01",
	"2006M01",
	"2006/01",
	"Jan 2006",
	"Jan-2006",
	"January 2006",
	"Jan-06",
}

// dropStats counts rows that were skipped and why
type dropStats struct {
	badDate   int
	badValue  int
	duplicate int
}

func (d dropStats) total() int { return d.badDate + d.badValue + d.duplicate }

// Loader reads source files and logs what it drops.
type Loader struct {
	Log logrus.FieldLogger
}

// NewLoader returns a Loader logging to log; nil discards the logs.
func NewLoader(log logrus.FieldLogger) *Loader {
	if log == nil {
		log = logging.Discard()
	}
	return &Loader{Log: log}
}

// LoadSpread reads daily 10Y-2Y spread records: a header, then date and spread columns.
// Missing values ("." or empty) and unparseable rows are dropped.
func (l *Loader) LoadSpread(path string) (*series.Series, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		records = records[1:] // header
	}

	pts, stats := collect(records, 0, 1, parseDay)
	return l.finish(SpreadName, path, pts, stats)
}

// LoadGold reads daily gold spot quotes. The file runs newest first and may end in a
// footer block; footer rows fail the date check and are dropped.
// The price is taken from the first header column containing "bid", else column 1.
func (l *Loader) LoadGold(path string) (*series.Series, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errs.Input("ingest", "%s: empty file", path)
	}

	valueCol := 1
	for j, h := range records[0] {
		if strings.Contains(strings.ToLower(h), "bid") {
			valueCol = j
			break
		}
	}

	pts, stats := collect(records[1:], 0, valueCol, parseDay)
	return l.finish(GoldName, path, pts, stats)
}

// LoadCopper reads monthly copper prices keyed by a Year-Month label.
// Leading rows are skipped until the first one whose label parses; trailing columns are ignored.
func (l *Loader) LoadCopper(path string) (*series.Series, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	start := len(records)
	for i, rec := range records {
		if len(rec) > 0 {
			if _, ok := parseMonth(rec[0]); ok {
				start = i
				break
			}
		}
	}
	if start > 0 {
		l.Log.WithFields(logrus.Fields{"source": CopperName, "rows": start}).Debug("skipped header rows")
	}

	pts, stats := collect(records[start:], 0, 1, parseMonth)
	return l.finish(CopperName, path, pts, stats)
}

func (l *Loader) finish(name, path string, pts []series.TimePoint, stats dropStats) (*series.Series, error) {
	if stats.total() > 0 {
		l.Log.WithFields(logrus.Fields{
			"source":    name,
			"bad_date":  stats.badDate,
			"bad_value": stats.badValue,
			"duplicate": stats.duplicate,
		}).Debug("dropped rows")
	}
	if len(pts) == 0 {
		return nil, errs.Input("ingest", "%s: no valid rows in %s", name, path)
	}

	s, err := series.Sorted(name, pts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "ingest", err, "%s", path)
	}

	l.Log.WithFields(logrus.Fields{
		"source": name,
		"rows":   s.Len(),
		"from":   s.First().Date.Format(time.DateOnly),
		"to":     s.Last().Date.Format(time.DateOnly),
	}).Info("loaded source")
	return s, nil
}

// readCSV reads every record of path; ragged rows are allowed.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "ingest", err, "open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrInput, "ingest", err, "read %s", path)
		}
		records = append(records, rec)
	}
	return records, nil
}

// collect keeps rows whose date parses and whose value is numeric.
// The first occurrence of a date wins.
func collect(records [][]string, dateCol, valueCol int, parseDate func(string) (time.Time, bool)) ([]series.TimePoint, dropStats) {
	var (
		pts   []series.TimePoint
		stats dropStats
		seen  = make(map[time.Time]bool)
	)
	for _, rec := range records {
		if len(rec) <= dateCol || len(rec) <= valueCol {
			stats.badDate++
			continue
		}
		d, ok := parseDate(rec[dateCol])
		if !ok {
			stats.badDate++
			continue
		}
		v, err := parsePrice(rec[valueCol])
		if err != nil {
			stats.badValue++
			continue
		}
		if seen[d] {
			stats.duplicate++
			continue
		}
		seen[d] = true
		pts = append(pts, series.TimePoint{Date: d, Value: v})
	}
	return pts, stats
}

// parsePrice accepts plain numbers as well as "$1,234.50".
func parsePrice(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" || clean == "." {
		return 0, fmt.Errorf("missing value %q", s)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}
	v, _ := d.Float64()
	return v, nil
}

func parseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseMonth(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return series.MonthStart(t), true
		}
	}
	return time.Time{}, false
}
