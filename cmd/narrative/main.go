package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/analysis"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/data"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/dataprep"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/pipeline"
	"github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/report"
)

//
// ---------------------- CLI FLAGS ----------------------
//
// --input        : headed CSV, one row per child (required)
// --schema       : YAML recipe; the built-in study recipe when empty
// --plot-dir     : write transform histograms (and, for analyze, regression plots) here
// --metrics-file : write Prometheus textfile metrics for the run here
// --dev          : human-readable development logging
//
// Example:
//   narrative analyze --input children.csv --schema configs/recipe.yaml --plot-dir out
//
// -------------------------------------------------------
//

type options struct {
	input       string
	schema      string
	plotDir     string
	metricsFile string
	dev         bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "narrative",
		Short:         "Prepare and analyse the HI/TD narrative-abilities dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.input, "input", "", "path to the input CSV")
	root.PersistentFlags().StringVar(&opts.schema, "schema", "", "path to a YAML recipe (default: built-in study recipe)")
	root.PersistentFlags().StringVar(&opts.plotDir, "plot-dir", "", "directory for diagnostic PNGs")
	root.PersistentFlags().StringVar(&opts.metricsFile, "metrics-file", "", "path for Prometheus textfile metrics")
	root.PersistentFlags().BoolVar(&opts.dev, "dev", false, "development logging")
	_ = root.MarkPersistentFlagRequired("input")

	root.AddCommand(
		&cobra.Command{
			Use:   "prepare",
			Short: "Merge, partition, transform and center; print transform decisions",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), opts, false)
			},
		},
		&cobra.Command{
			Use:   "analyze",
			Short: "Prepare, then compute descriptives, correlations and regressions",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), opts, true)
			},
		},
	)
	return root
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, opts *options, analyze bool) error {
	logger, err := newLogger(opts.dev)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if err := execute(ctx, opts, analyze, logger); err != nil {
		logger.Error("run aborted", zap.Error(err))
		return err
	}
	return nil
}

func execute(ctx context.Context, opts *options, analyze bool, logger *zap.Logger) error {
	schema := pipeline.DefaultSchema()
	if opts.schema != "" {
		s, err := pipeline.LoadSchema(opts.schema)
		if err != nil {
			return fmt.Errorf("load schema: %w", err)
		}
		schema = s
	}

	ds, err := data.LoadCSV(opts.input)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.input, err)
	}
	logger.Info("loaded dataset", zap.String("input", opts.input), zap.Int("rows", ds.Rows()), zap.Int("columns", len(ds.Names())))

	var raw *data.Dataset
	if opts.plotDir != "" {
		// Keep untransformed values, unified the same way, for the histograms.
		raw = ds.Clone()
		if _, err := dataprep.Normalize(raw, schema.AgeBanded, nil); err != nil {
			return err
		}
	}

	var metrics *pipeline.Metrics
	if opts.metricsFile != "" {
		metrics = pipeline.NewMetrics()
	}
	p, err := pipeline.New(schema, pipeline.WithLogger(logger), pipeline.WithMetrics(metrics))
	if err != nil {
		return err
	}
	res, err := p.Run(ctx, ds)
	if err != nil {
		return err
	}

	for _, dec := range res.Decisions {
		fmt.Println(dec)
	}

	if raw != nil {
		if err := plotDecisions(opts.plotDir, raw, res); err != nil {
			return fmt.Errorf("plot transforms: %w", err)
		}
	}

	if analyze {
		rep, err := analysis.NewDriver(schema, logger).Run(res)
		if err != nil {
			return err
		}
		printReport(rep)
		if opts.plotDir != "" {
			if err := plotRegressions(opts.plotDir, res, rep); err != nil {
				return fmt.Errorf("plot regressions: %w", err)
			}
		}
	}

	if err := metrics.WriteTextfile(opts.metricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func plotDecisions(dir string, raw *data.Dataset, res *pipeline.Result) error {
	for _, dec := range res.Decisions {
		before, err := raw.Column(dec.Column)
		if err != nil {
			return err
		}
		after, err := res.Dataset.Column(dec.Column)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, report.FileName("transform", dec.Column))
		if err := report.TransformHistogram(path, before, after, dec); err != nil {
			return err
		}
	}
	return nil
}

func plotRegressions(dir string, res *pipeline.Result, rep *analysis.Report) error {
	for _, r := range rep.Regressions {
		x, y, err := viewColumns(res, r.Spec)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, report.FileName("model", r.Spec.Outcome, r.Spec.Predictor, r.Spec.View))
		if err := report.RegressionPlot(path, r.Spec.Predictor, r.Spec.Outcome, x, y, r.Fit); err != nil {
			return err
		}
	}
	return nil
}

func viewColumns(res *pipeline.Result, spec pipeline.ModelSpec) (x, y []float64, err error) {
	view, _ := res.View(spec.View)
	read := res.Dataset.Column
	if view != nil {
		read = view.Column
	}
	if x, err = read(spec.Predictor); err != nil {
		return nil, nil, err
	}
	if y, err = read(spec.Outcome); err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func printReport(rep *analysis.Report) {
	fmt.Println("\nDescriptives:")
	fmt.Printf("%-6s %-20s %5s %10s %10s %10s\n", "view", "variable", "n", "mean", "sd", "median")
	for _, d := range rep.Descriptives {
		s := d.Summary
		fmt.Printf("%-6s %-20s %5d %10.4f %10.4f %10.4f\n", d.View, d.Variable, s.N, s.Mean, s.StdDev, s.Median)
	}

	fmt.Println("\nRegressions:")
	for _, r := range rep.Regressions {
		f := r.Fit
		fmt.Printf("%s ~ %s [%s]: b0=%.4f b1=%.4f R2=%.3f t=%.3f p=%.4g n=%d\n",
			r.Spec.Outcome, r.Spec.Predictor, r.Spec.View, f.Intercept, f.Slope, f.R2, f.T, f.P, f.N)
	}

	fmt.Println("\nCorrelations:")
	for _, c := range rep.Correlations {
		fmt.Printf("[%s / %s]\n", c.Section, c.View)
		m := c.Matrix
		for i := range m.Names {
			for j := i + 1; j < len(m.Names); j++ {
				cor := m.At(i, j)
				fmt.Printf("  %-20s %-20s r=%7.3f p=%.4g n=%d\n", m.Names[i], m.Names[j], cor.R, cor.P, cor.N)
			}
		}
	}
}
