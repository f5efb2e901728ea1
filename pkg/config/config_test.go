package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/dataprep"
)

func TestLoadConfigDefaultsWithoutEnvFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("missing .env should not fail: %v", err)
	}
	if cfg.Seed != 42 || cfg.TestSize != 0.2 || cfg.NEstimators != 100 || cfg.Stage != StageAll {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.JSONLogs() {
		t.Error("default log format should be text")
	}
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	for _, k := range []string{"DATASET_PATH", "RANDOM_SEED", "TEST_SIZE", "PLOTS_ENABLED", "N_ESTIMATORS"} {
		t.Setenv(k, "") // registers cleanup
		os.Unsetenv(k)
	}
	path := filepath.Join(t.TempDir(), ".env")
	body := "DATASET_PATH=houses.arff\nRANDOM_SEED=7\nTEST_SIZE=0.25\nPLOTS_ENABLED=true\nN_ESTIMATORS=abc\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatasetPath != "houses.arff" || cfg.Seed != 7 || cfg.TestSize != 0.25 || !cfg.PlotsEnabled {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.NEstimators != 100 {
		t.Errorf("malformed N_ESTIMATORS should fall back to 100, got %d", cfg.NEstimators)
	}
}

func TestParseFlagsOverrides(t *testing.T) {
	cfg := &AppConfig{DatasetPath: "a.arff", TestSize: 0.2, NEstimators: 100, Stage: StageAll, LogLevel: "info"}
	err := cfg.ParseFlags("housing", []string{"-data", "b.csv", "-trees", "10", "-stage", "prepare", "-log-format", "json"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.JSONLogs() {
		t.Errorf("log format = %q, want json", cfg.LogFormat)
	}
	if cfg.DatasetPath != "b.csv" || cfg.NEstimators != 10 || cfg.Stage != StagePrepare {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Runs(StageProfile) || !cfg.Runs(StagePrepare) || cfg.Runs(StageTrain) {
		t.Errorf("Runs wrong for stage %q", cfg.Stage)
	}
}

func TestValidate(t *testing.T) {
	base := AppConfig{DatasetPath: "d.arff", TestSize: 0.2, NEstimators: 1, Stage: StageAll, LogLevel: "info"}
	cases := []struct {
		name string
		mod  func(*AppConfig)
	}{
		{"no dataset", func(c *AppConfig) { c.DatasetPath = "" }},
		{"test size", func(c *AppConfig) { c.TestSize = 1 }},
		{"trees", func(c *AppConfig) { c.NEstimators = 0 }},
		{"stage", func(c *AppConfig) { c.Stage = "deploy" }},
		{"level", func(c *AppConfig) { c.LogLevel = "loud" }},
		{"log format", func(c *AppConfig) { c.LogFormat = "xml" }},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("base config invalid: %v", err)
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := base
			c.mod(&cfg)
			if cfg.Validate() == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	if err != nil || l != slog.LevelDebug {
		t.Errorf("ParseLevel(debug) = %v, %v", l, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error")
	}
}

func TestDefaultPlan(t *testing.T) {
	p, err := DefaultPlan()
	if err != nil {
		t.Fatal(err)
	}
	if p.Target != "SalePrice" || p.ID != "Id" {
		t.Errorf("target/id = %q/%q", p.Target, p.ID)
	}
	if len(p.Drop) != 3 || len(p.DropLowVariance) != 5 {
		t.Errorf("drop lists = %v %v", p.Drop, p.DropLowVariance)
	}
	if len(p.Fill) != 4 || len(p.Fill[0].Columns) != 12 || p.Fill[0].Value != "None" {
		t.Errorf("fill = %+v", p.Fill)
	}
	if p.Fill[1].Strategy != dataprep.GroupMedian || p.Fill[1].Group != "Neighborhood" {
		t.Errorf("group rule = %+v", p.Fill[1])
	}
	if len(p.Ordinal) != 12 {
		t.Fatalf("ordinal maps = %d", len(p.Ordinal))
	}
	if got := p.Ordinal[4]; got.Column != "BsmtExposure" || got.Categories[0] != "No" {
		t.Errorf("BsmtExposure map = %+v", got)
	}
	if got := p.Ordinal[11].Categories; len(got) != 3 || got[0] != "N" || got[2] != "Y" {
		t.Errorf("PavedDrive map = %v", got)
	}
	if len(p.OneHot.Columns) != 15 || !p.OneHot.DropFirst {
		t.Errorf("onehot = %+v", p.OneHot)
	}
	if len(p.Label) != 8 || len(p.Frequency) != 1 {
		t.Errorf("label/frequency = %v %v", p.Label, p.Frequency)
	}
	if len(p.Lasso.Alphas) != 5 || p.Lasso.Folds != 5 || p.Lasso.CoefTol != 1e-4 {
		t.Errorf("lasso = %+v", p.Lasso)
	}
	if !p.Outliers.Enabled || p.Outliers.Multiplier != 1.5 || len(p.Outliers.Columns) != 0 {
		t.Errorf("outliers = %+v", p.Outliers)
	}
}

func TestParsePlanErrors(t *testing.T) {
	cases := map[string]string{
		"no target":     "id: Id\n",
		"unknown key":   "target: y\nbogus: 1\n",
		"bad strategy":  "target: y\nfill:\n  - columns: [a]\n    strategy: guess\n",
		"missing group": "target: y\nfill:\n  - columns: [a]\n    strategy: group_median\n",
		"folds":         "target: y\nlasso:\n  alphas: [1]\n  folds: 1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParsePlan([]byte(doc)); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if _, err := ParsePlan([]byte("target: y\nfill:\n  - columns: []\n    strategy: mean\n")); !errors.Is(err, ErrInvalidPlan) {
		t.Errorf("err = %v, want ErrInvalidPlan", err)
	}
}

func TestLoadPlanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("target: price\ndrop: [a, b]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadPlan(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Target != "price" || len(p.Drop) != 2 {
		t.Errorf("plan = %+v", p)
	}
}
