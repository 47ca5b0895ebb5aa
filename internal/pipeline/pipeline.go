// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

// Package pipeline runs the full analysis: load, align, ratio, stationarity,
// lag selection, VAR estimation, causality, dynamic responses and forecast evaluation.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"CopperGold_Causality_VAR_Project/internal/config"
	"CopperGold_Causality_VAR_Project/internal/errs"
	"CopperGold_Causality_VAR_Project/internal/ingest"
	"CopperGold_Causality_VAR_Project/internal/logging"
	"CopperGold_Causality_VAR_Project/internal/series"
	"CopperGold_Causality_VAR_Project/internal/stationarity"
	"CopperGold_Causality_VAR_Project/internal/varmodel"
)

// Inputs are the three raw source series.
type Inputs struct {
	Spread *series.Series
	Gold   *series.Series
	Copper *series.Series
}

// Options control one analysis run.
type Options struct {
	ConversionFactor float64
	RollingWindow    int
	Cutoff           time.Time // last training date
	LagMax           int
	Deterministic    varmodel.Deterministic
	IRFHorizon       int
	Alpha            float64 // Granger significance level

	Bootstrap        bool // bootstrap IRF bands
	BootstrapGranger bool // bootstrap Granger p-values
	Replications     int
	BootstrapAlpha   float64
	Seed             int64
}

// OptionsFromConfig converts a validated config into run options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	cutoff, err := cfg.Cutoff()
	if err != nil {
		return Options{}, err
	}
	det, err := cfg.Deterministic()
	if err != nil {
		return Options{}, err
	}
	return Options{
		ConversionFactor: cfg.Ratio.ConversionFactor,
		RollingWindow:    cfg.Ratio.RollingWindow,
		Cutoff:           cutoff,
		LagMax:           cfg.Model.LagMax,
		Deterministic:    det,
		IRFHorizon:       cfg.Analysis.IRFHorizon,
		Alpha:            cfg.Analysis.Alpha,
		Bootstrap:        cfg.Bootstrap.Enabled,
		BootstrapGranger: cfg.Bootstrap.Granger,
		Replications:     cfg.Bootstrap.Replications,
		BootstrapAlpha:   cfg.Bootstrap.Alpha,
		Seed:             cfg.Bootstrap.Seed,
	}, nil
}

// Report collects every result of a run.
type Report struct {
	Aligned     *series.AlignedSet
	Ratio       *series.Series
	RollingMean []float64 // trailing mean of Ratio, NaN during warm-up

	Train *varmodel.TimeSeries // differenced [ratio, spread] up to the cutoff
	Test  *varmodel.TimeSeries // differenced [ratio, spread] after the cutoff

	Stationarity []*stationarity.Result
	Lags         *varmodel.LagSelection
	Model        *varmodel.ReducedFormVAR

	Granger          [][]*varmodel.GrangerCausalityResult
	GrangerAlpha     float64 // level the Granger Significant flags were decided at
	GrangerBootstrap [][]*varmodel.GrangerCausalityBootstrapResult // nil unless requested

	IRF            map[int]*varmodel.IRFBootstrapResult // by shock index
	SpreadResponse map[int][]float64                    // response of the spread to each shock, by shock index
	FEVD           []*varmodel.FEVDResult

	Forecast *varmodel.ForecastResult
	Accuracy []varmodel.Accuracy
}

// Run loads the configured sources and analyzes them.
func Run(cfg *config.Config, log logrus.FieldLogger) (*Report, error) {
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "config", err, "invalid configuration")
	}

	loader := ingest.NewLoader(log)

	spread, err := loader.LoadSpread(cfg.Sources.Spread)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "load", err, "spread source %s", cfg.Sources.Spread)
	}
	gold, err := loader.LoadGold(cfg.Sources.Gold)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "load", err, "gold source %s", cfg.Sources.Gold)
	}
	copper, err := loader.LoadCopper(cfg.Sources.Copper)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "load", err, "copper source %s", cfg.Sources.Copper)
	}

	return Analyze(Inputs{Spread: spread, Gold: gold, Copper: copper}, opts, log)
}

// Analyze runs every stage on already loaded inputs. Stages run in order and the
// first failure stops the run. A DivisionByZero from forecast evaluation is
// returned together with the complete report.
func Analyze(in Inputs, opts Options, log logrus.FieldLogger) (*Report, error) {
	if log == nil {
		log = logging.Discard()
	}
	rep := &Report{}

	// 1. Align to a common monthly calendar
	aligned, err := series.Align(in.Spread, in.Gold, in.Copper, opts.LagMax)
	if err != nil {
		return nil, errs.Wrap(errs.ErrAlignment, "align", err, "aligning sources")
	}
	rep.Aligned = aligned
	log.WithFields(logrus.Fields{
		"stage":  "align",
		"months": aligned.Len(),
		"start":  aligned.Start().Format("2006-01"),
		"end":    aligned.End().Format("2006-01"),
	}).Info("sources aligned")

	// 2. Copper/gold ratio and its rolling mean
	ratio, err := series.Ratio(aligned.Copper, aligned.Gold, opts.ConversionFactor)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "ratio", err, "computing ratio")
	}
	rolling, err := series.RollingMean(ratio, opts.RollingWindow)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "ratio", err, "rolling mean")
	}
	rep.Ratio = ratio
	rep.RollingMean = rolling

	// 3. Train/test split on levels
	ratioTrain, ratioTest := ratio.SplitAt(opts.Cutoff)
	spreadTrain, spreadTest := aligned.Spread.SplitAt(opts.Cutoff)
	if ratioTrain.Len() < 2 {
		return nil, errs.Input("split", "only %d months on or before cutoff %s",
			ratioTrain.Len(), opts.Cutoff.Format(time.DateOnly))
	}
	if ratioTest.Len() == 0 {
		return nil, errs.Input("split", "no months after cutoff %s (data ends %s)",
			opts.Cutoff.Format(time.DateOnly), aligned.End().Format("2006-01"))
	}
	log.WithFields(logrus.Fields{
		"stage":  "split",
		"train":  ratioTrain.Len(),
		"test":   ratioTest.Len(),
		"cutoff": opts.Cutoff.Format(time.DateOnly),
	}).Info("split at cutoff")

	// 4. Difference and test for unit roots
	trainDiff, err := stationarity.Transform(ratioTrain, spreadTrain)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "stationarity", err, "differencing training data")
	}
	adf, err := trainDiff.Test()
	if err != nil {
		return nil, errs.Wrap(errs.ErrFit, "stationarity", err, "unit root test")
	}
	for _, r := range adf {
		entry := log.WithFields(logrus.Fields{
			"stage":     "stationarity",
			"variable":  r.Variable,
			"statistic": r.Statistic,
			"p_value":   r.PValue,
			"lags":      r.Lags,
		})
		if r.Stationary {
			entry.Info("unit root rejected")
		} else {
			entry.Warn("unit root not rejected after differencing")
		}
	}
	rep.Stationarity = adf

	testDiff, err := stationarity.TransformFrom(ratioTest, spreadTest, ratioTrain.Last(), spreadTrain.Last())
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "stationarity", err, "differencing test data")
	}

	train, err := varmodel.NewTimeSeries(trainDiff.A, trainDiff.B)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "stationarity", err, "training matrix")
	}
	test, err := varmodel.NewTimeSeries(testDiff.A, testDiff.B)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInput, "stationarity", err, "test matrix")
	}
	rep.Train, rep.Test = train, test

	// 5. Lag order by AIC
	sel, err := varmodel.SelectLag(train, opts.LagMax, opts.Deterministic)
	if err != nil {
		return nil, errs.Wrap(errs.ErrEstimation, "lag selection", err, "selecting lag order")
	}
	rep.Lags = sel
	log.WithFields(logrus.Fields{
		"stage": "lag selection",
		"aic":   sel.Selected,
		"hq":    sel.ByHQ,
		"sc":    sel.BySC,
		"fpe":   sel.ByFPE,
	}).Info("lag order selected")

	// 6. Estimate
	rf, err := (&varmodel.OLSEstimator{}).Estimate(train, varmodel.ModelSpec{
		Lags:          sel.Selected,
		Deterministic: opts.Deterministic,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrEstimation, "estimate", err, "fitting VAR(%d)", sel.Selected)
	}
	rep.Model = rf

	// 7. Granger causality in both directions
	gc, err := rf.GrangerCausalityMatrix()
	if err != nil {
		return nil, errs.Wrap(errs.ErrFit, "causality", err, "Granger tests")
	}
	rep.GrangerAlpha = opts.Alpha
	for _, row := range gc {
		for _, g := range row {
			if g == nil {
				continue
			}
			g.Significant = g.PValue < opts.Alpha
			log.WithFields(logrus.Fields{
				"stage":  "causality",
				"cause":  g.CauseVar,
				"effect": g.EffectVar,
				"f":      g.FStatistic,
				"p":      g.PValue,
			}).Info("granger test")
		}
	}
	rep.Granger = gc

	if opts.BootstrapGranger {
		boot, err := rf.BootstrapGrangerMatrix(varmodel.GrangerBootstrapOptions{
			NReplications: opts.Replications,
			Alpha:         opts.BootstrapAlpha,
			Seed:          opts.Seed,
		})
		if err != nil {
			return nil, errs.Wrap(errs.ErrFit, "causality", err, "bootstrap Granger tests")
		}
		rep.GrangerBootstrap = boot
	}

	// 8. Impulse responses and variance decomposition
	if opts.Bootstrap {
		log.WithFields(logrus.Fields{
			"stage":        "dynamic response",
			"replications": opts.Replications,
			"seed":         opts.Seed,
		}).Info("bootstrapping impulse responses")
		irfs, err := rf.BootstrapIRF(varmodel.BootstrapOptions{
			NReplications: opts.Replications,
			Horizon:       opts.IRFHorizon,
			Alpha:         opts.BootstrapAlpha,
			Seed:          opts.Seed,
		})
		if err != nil {
			return nil, errs.Wrap(errs.ErrFit, "dynamic response", err, "bootstrap IRF")
		}
		rep.IRF = irfs
	} else {
		rep.IRF = make(map[int]*varmodel.IRFBootstrapResult, rf.K())
		for shock := 0; shock < rf.K(); shock++ {
			point, err := rf.IRF(opts.IRFHorizon, shock)
			if err != nil {
				return nil, errs.Wrap(errs.ErrFit, "dynamic response", err, "IRF for shock %d", shock)
			}
			rep.IRF[shock] = &varmodel.IRFBootstrapResult{ShockIndex: shock, Horizon: opts.IRFHorizon, Point: point}
		}
	}

	spreadIdx := rf.K() - 1
	rep.SpreadResponse, err = rf.RunIRFAnalysis(spreadIdx, opts.IRFHorizon)
	if err != nil {
		return nil, errs.Wrap(errs.ErrFit, "dynamic response", err, "spread response analysis")
	}

	rep.FEVD, err = rf.FEVD(opts.IRFHorizon)
	if err != nil {
		return nil, errs.Wrap(errs.ErrFit, "dynamic response", err, "variance decomposition")
	}

	// 9. Out-of-sample forecast over the test window
	fc, err := rf.ForecastOver(test)
	if err != nil {
		return nil, errs.Wrap(errs.ErrEstimation, "forecast", err, "forecasting %d steps", test.Y.RawMatrix().Rows)
	}
	rep.Forecast = fc

	acc, err := varmodel.Evaluate(test, fc)
	if err != nil && acc == nil {
		return nil, errs.Wrap(errs.ErrInput, "evaluate", err, "scoring forecast")
	}
	rep.Accuracy = acc
	for _, a := range acc {
		log.WithFields(logrus.Fields{
			"stage":    "evaluate",
			"variable": a.Variable,
			"mae":      a.MAE,
			"rmse":     a.RMSE,
			"mape":     a.MAPE,
		}).Info("forecast accuracy")
	}
	if err != nil {
		if errors.Is(err, errs.ErrDivisionByZero) {
			log.WithField("stage", "evaluate").Warn(err.Error())
		}
		return rep, fmt.Errorf("evaluating forecast: %w", err)
	}

	return rep, nil
}
