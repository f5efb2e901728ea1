// Command housing profiles the Ames housing dataset, cleans and encodes it,
// and compares regression models for SalePrice.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/config"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/data"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/loader"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/logging"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/pipeline"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/plots"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/profile"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/report"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "housing:", err)
		os.Exit(1)
	}
}

// topPairs is how many matrix entries the console shows per matrix.
const topPairs = 15

// app carries what every step of a run needs.
type app struct {
	cfg   *config.AppConfig
	plan  *config.Plan
	log   *slog.Logger
	rep   *report.Reporter
	saver *plots.Saver
}

func run(args []string, stdout io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ParseFlags("housing", args, os.Stderr); err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	runID := logging.NewRunID()
	log := logging.New(logging.Config{
		Level:     level,
		IsJSON:    cfg.JSONLogs(),
		NoColor:   color.NoColor,
		AddSource: level <= slog.LevelDebug,
	}, runID)

	plan, err := config.LoadPlan(cfg.PlanPath)
	if err != nil {
		return err
	}
	a := &app{cfg: cfg, plan: plan, log: log, rep: report.New(stdout, !color.NoColor)}
	if cfg.PlotsEnabled {
		a.saver, err = plots.NewSaver(filepath.Join(cfg.OutputDir, runID, "plots"))
		if err != nil {
			return err
		}
	}

	f, err := data.Load(cfg.DatasetPath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	log.Info("dataset loaded", "path", cfg.DatasetPath, "rows", f.Len(), "columns", f.Width())
	for _, col := range []string{plan.Target, plan.ID} {
		if col != "" && !f.Has(col) {
			return fmt.Errorf("dataset has no column %q", col)
		}
	}

	if err := a.explore(f); err != nil {
		return err
	}
	if !cfg.Runs(config.StagePrepare) {
		return nil
	}
	if err := a.prepare(f); err != nil {
		return err
	}

	X, names, err := f.Matrix(plan.Target, plan.ID)
	if err != nil {
		return fmt.Errorf("build model matrix: %w", err)
	}
	y, err := targetValues(f, plan.Target)
	if err != nil {
		return err
	}
	log.Info("model matrix ready", "rows", len(X), "features", len(names))

	if cfg.ExportPath != "" {
		if err := data.ExportCSV(cfg.ExportPath, names, X, plan.Target, y); err != nil {
			return fmt.Errorf("export matrix: %w", err)
		}
		log.Info("model matrix exported", "path", cfg.ExportPath)
	}
	if !cfg.Runs(config.StageTrain) {
		return nil
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	Xtr, Xte, ytr, yte := loader.TrainTestSplit(X, y, cfg.TestSize, rng)
	log.Info("train/test split", "train", len(Xtr), "test", len(Xte), "seed", cfg.Seed)
	return a.train(names, Xtr, ytr, Xte, yte)
}

// explore prints the profile of the raw dataset and saves its plots.
func (a *app) explore(f *frame.Frame) error {
	a.rep.Section("First rows")
	a.rep.Head(f, 5)
	a.rep.Section("Info")
	a.rep.Info(f)
	a.rep.Section("Numeric summary")
	a.rep.Describe(profile.Describe(f))
	a.rep.Section("Categorical summary")
	a.rep.DescribeCategorical(profile.DescribeCategorical(f))
	a.rep.Section("Missing values")
	a.rep.Missing(profile.Missing(f))
	a.rep.Duplicates(profile.Duplicates(f))

	corr, err := profile.Correlation(f, f.NumericNames())
	if err != nil {
		return fmt.Errorf("correlation: %w", err)
	}
	assoc, pairErrs, err := profile.Association(f, f.CategoricalNames())
	if err != nil {
		return fmt.Errorf("association: %w", err)
	}
	for _, pe := range pairErrs {
		a.log.Debug("cramér's v undefined", "a", pe.A, "b", pe.B, "err", pe.Err)
	}
	if len(pairErrs) > 0 {
		a.log.Info("association pairs without a value", "pairs", len(pairErrs))
	}
	a.rep.Section("Strongest correlations (Pearson)")
	a.rep.Pairs(corr.TopPairs(topPairs))
	a.rep.Section("Strongest associations (Cramér's V)")
	a.rep.Pairs(assoc.TopPairs(topPairs))
	if a.saver == nil {
		return nil
	}

	saved, err := a.saver.Histograms(f, f.NumericNames(), a.log)
	if err != nil {
		return err
	}
	counts, err := a.saver.CountPlots(f, f.CategoricalNames())
	if err != nil {
		return err
	}
	saved = append(saved, counts...)
	if len(corr.Names) > 1 {
		path, err := a.saver.CorrelationHeatmap(corr)
		if err != nil {
			return fmt.Errorf("correlation heatmap: %w", err)
		}
		saved = append(saved, path)
	}
	if len(assoc.Names) > 1 {
		path, err := a.saver.AssociationHeatmap(assoc)
		if err != nil {
			return fmt.Errorf("association heatmap: %w", err)
		}
		saved = append(saved, path)
	}
	a.log.Info("plots saved", "dir", a.saver.Dir, "files", len(saved))
	return nil
}

// prepare runs the cleaning and encoding plan on f in place, reporting
// outliers around their removal.
func (a *app) prepare(f *frame.Frame) error {
	numeric := f.NumericNames()
	k := a.plan.Outliers.Multiplier
	outlierCols := a.plan.Outliers.Columns
	if len(outlierCols) == 0 {
		outlierCols = numeric
	}
	printOutliers := func(title string) pipeline.Hook {
		return func(f *frame.Frame) error {
			rows, err := profile.Outliers(f, present(f, outlierCols), k)
			if err != nil {
				return err
			}
			a.rep.Section(title)
			a.rep.Outliers(rows)
			return nil
		}
	}

	p := pipeline.NewPipeline(a.log, pipeline.FromPlan(a.plan, numeric, a.log)...)
	p.Before(pipeline.StageOutliers, printOutliers("Outliers before removal")).
		After(pipeline.StageOutliers, printOutliers("Outliers after removal")).
		After(pipeline.StageOutliers, func(f *frame.Frame) error {
			a.rep.Section("Categorical cardinality")
			a.rep.Cardinality(profile.Cardinality(f))
			return nil
		})
	a.log.Info("preprocessing", "stages", p.Names())
	if err := p.Run(f); err != nil {
		return err
	}
	a.rep.Section("Encoded dataset")
	a.rep.Info(f)
	return nil
}

// targetValues copies the target column, which must be numeric and
// complete.
func targetValues(f *frame.Frame, name string) ([]float64, error) {
	c, err := f.Col(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != frame.Numeric {
		return nil, fmt.Errorf("target %q is %s, want numeric", name, c.Kind)
	}
	if n := c.NullCount(); n > 0 {
		return nil, fmt.Errorf("target %q has %d missing values", name, n)
	}
	return append([]float64(nil), c.Floats...), nil
}

// present keeps the names that are still columns of f.
func present(f *frame.Frame, names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if f.Has(n) {
			out = append(out, n)
		}
	}
	return out
}
