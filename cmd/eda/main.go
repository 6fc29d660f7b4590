package main

import (
	"fmt"
	"os"
	"strings"

	"fraudeda/adapters/plot"
	"fraudeda/adapters/tabular"
	"fraudeda/internal"
	"fraudeda/internal/config"
	"fraudeda/internal/eda"
	"fraudeda/internal/errors"
	"fraudeda/internal/testkit"
	"fraudeda/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// globalFlags select the dataset and chart directory for every subcommand
type globalFlags struct {
	file      string
	synthetic bool
	rows      int
	seed      int64
	outDir    string
	format    string
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// formatError prefixes application errors with their code
func formatError(err error) string {
	if errors.IsAppError(err) {
		return fmt.Sprintf("%s: %v", errors.GetCode(err), err)
	}
	return err.Error()
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:           "fraud-eda",
		Short:         "Exploratory analysis of credit card transaction data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.file, "file", "", "CSV or XLSX file to analyze")
	pf.BoolVar(&flags.synthetic, "synthetic", false, "Analyze a generated transaction dataset instead of a file")
	pf.IntVar(&flags.rows, "rows", testkit.DefaultTransactionConfig().Rows, "Rows to generate with --synthetic")
	pf.Int64Var(&flags.seed, "seed", 42, "Random seed for --synthetic")
	pf.StringVar(&flags.outDir, "out", cfg.EDA.OutputDir, "Directory for chart files")
	pf.StringVar(&flags.format, "format", cfg.EDA.Format, "Chart format: png|svg|pdf|jpg")

	rootCmd.AddCommand(
		newSummaryCmd(flags, cfg),
		newDispersionCmd(flags, cfg),
		newUnivariateCmd(flags, cfg),
		newMultivariateCmd(flags, cfg),
		newCategoricalCmd(flags, cfg),
		newOutliersCmd(flags, cfg),
	)
	return rootCmd
}

func newSummaryCmd(flags *globalFlags, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print shape, types, duplicates, missing counts and describe()",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := buildAnalyzer(cmd, flags, cfg, false)
			if err != nil {
				return err
			}
			return analyzer.Summary()
		},
	}
}

func newDispersionCmd(flags *globalFlags, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "dispersion",
		Short: "Print range, variance, standard deviation and IQR of numeric columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := buildAnalyzer(cmd, flags, cfg, false)
			if err != nil {
				return err
			}
			return analyzer.Dispersion()
		},
	}
}

func newUnivariateCmd(flags *globalFlags, cfg *config.Config) *cobra.Command {
	var plotType string
	var bins int

	cmd := &cobra.Command{
		Use:   "univariate [column]",
		Short: "Plot the distribution of one numeric column",
		Long: `Plot one numeric column as a histogram, box plot or kernel density curve.

Example: fraud-eda univariate amount --synthetic --plot kde`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := buildAnalyzer(cmd, flags, cfg, true)
			if err != nil {
				return err
			}
			path, err := analyzer.Univariate(args[0], plotType, bins)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&plotType, "plot", eda.PlotHistogram, "Plot type: histogram|boxplot|kde")
	cmd.Flags().IntVar(&bins, "bins", eda.DefaultBins, "Histogram bin count")
	return cmd
}

func newMultivariateCmd(flags *globalFlags, cfg *config.Config) *cobra.Command {
	var plotType string

	cmd := &cobra.Command{
		Use:   "multivariate [feature1] [feature2]",
		Short: "Plot the relationship between two numeric columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := buildAnalyzer(cmd, flags, cfg, true)
			if err != nil {
				return err
			}
			path, err := analyzer.Multivariate(args[0], args[1], plotType)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&plotType, "plot", eda.PlotScatter, "Plot type: scatter|correlation")
	return cmd
}

func newCategoricalCmd(flags *globalFlags, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "categorical [column]",
		Short: "Plot category frequencies of a text or low-cardinality column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := buildAnalyzer(cmd, flags, cfg, true)
			if err != nil {
				return err
			}
			path, err := analyzer.Categorical(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newOutliersCmd(flags *globalFlags, cfg *config.Config) *cobra.Command {
	var method string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "outliers [column]",
		Short: "List rows whose value in column is an outlier",
		Long: `Detect outliers by z-score (|z| > threshold) or by the 1.5*IQR fences.

Example: fraud-eda outliers amount --file creditcard.csv --method iqr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := buildAnalyzer(cmd, flags, cfg, false)
			if err != nil {
				return err
			}
			report, err := analyzer.DetectOutliers(args[0], method, threshold)
			if err != nil {
				return err
			}
			return report.Print(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&method, "method", eda.MethodZScore, "Detection method: zscore|iqr")
	cmd.Flags().Float64Var(&threshold, "threshold", eda.DefaultThreshold, "z-score threshold")
	return cmd
}

// buildAnalyzer loads the dataset and, when charts are drawn, the renderer
func buildAnalyzer(cmd *cobra.Command, flags *globalFlags, cfg *config.Config, withRenderer bool) (*eda.TabularAnalyzer, error) {
	source, err := datasetSource(flags)
	if err != nil {
		return nil, err
	}
	ds, err := source.ReadDataset()
	if err != nil {
		return nil, err
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	opts := []eda.Option{eda.WithOutput(cmd.OutOrStdout()), eda.WithLogger(logger)}

	if !withRenderer {
		return eda.NewTabularAnalyzer(ds, nil, opts...), nil
	}
	edaCfg := cfg.EDA
	edaCfg.OutputDir = flags.outDir
	edaCfg.Format = strings.ToLower(flags.format)
	if err := (&config.Config{EDA: edaCfg}).ValidateEDA(); err != nil {
		return nil, err
	}
	renderer, err := plot.NewRenderer(edaCfg)
	if err != nil {
		return nil, err
	}
	return eda.NewTabularAnalyzer(ds, renderer, opts...), nil
}

// datasetSource picks the file reader or the synthetic generator
func datasetSource(flags *globalFlags) (ports.DatasetReader, error) {
	switch {
	case flags.synthetic && flags.file != "":
		return nil, fmt.Errorf("--file and --synthetic are mutually exclusive")
	case flags.synthetic:
		genCfg := testkit.DefaultTransactionConfig()
		genCfg.Rows = flags.rows
		genCfg.Seed = flags.seed
		return testkit.NewTransactionGenerator(genCfg), nil
	case flags.file != "":
		return tabular.NewDataReader(flags.file), nil
	default:
		return nil, fmt.Errorf("one of --file or --synthetic is required")
	}
}
