// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

// cugold runs the copper/gold ratio vs Treasury spread VAR analysis.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"CopperGold_Causality_VAR_Project/internal/config"
	"CopperGold_Causality_VAR_Project/internal/logging"
	"CopperGold_Causality_VAR_Project/internal/pipeline"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cugold",
		Short: "VAR analysis of the copper/gold ratio and the 10Y-2Y Treasury spread",
		Long: `cugold aligns daily Treasury spread, daily gold and monthly copper prices on a
monthly calendar, builds the copper/gold ratio and fits a VAR on the differenced
pair. It reports stationarity, lag selection, Granger causality, impulse responses,
variance decompositions and out-of-sample forecast accuracy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "config file path (default: ./config/cugold.yaml or ./cugold.yaml)")
	root.PersistentFlags().String("env-file", "", "load environment overrides from this file (default: .env if present)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// --- Version Command ---

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cugold %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit:  %s\n", commit)
		},
	}
}

// --- Run Command ---

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full analysis and write the reports",
		Args:  cobra.NoArgs,
		RunE:  runAnalysis,
	}
	cmd.Flags().String("out", "", "output directory (overrides output.dir)")
	cmd.Flags().Int("lag-max", 0, "largest lag order considered (overrides model.lag_max)")
	cmd.Flags().String("cutoff", "", "last training date, YYYY-MM-DD (overrides split.cutoff)")
	cmd.Flags().Bool("bootstrap", false, "bootstrap IRF confidence bands (overrides bootstrap.enabled)")
	return cmd
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	log, err := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	report, runErr := pipeline.Run(cfg, log)
	if report == nil {
		return runErr
	}

	report.Print(cmd.OutOrStdout())
	if err := report.Write(cfg.Output.Dir); err != nil {
		return errors.Join(runErr, err)
	}
	log.WithFields(logrus.Fields{"dir": cfg.Output.Dir}).Info("reports written")

	return runErr
}

// loadConfig reads .env, the config file and environment, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var (
		cfg *config.Config
		err error
	)
	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.Dir, _ = flags.GetString("out")
	}
	if flags.Changed("lag-max") {
		cfg.Model.LagMax, _ = flags.GetInt("lag-max")
	}
	if flags.Changed("cutoff") {
		cfg.Split.Cutoff, _ = flags.GetString("cutoff")
	}
	if flags.Changed("bootstrap") {
		cfg.Bootstrap.Enabled, _ = flags.GetBool("bootstrap")
	}
	return cfg, nil
}
