// Package config loads run settings from the environment, an optional
// .env file and command-line flags, plus the preprocessing plan.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Stages the command can stop after.
const (
	StageProfile = "profile"
	StagePrepare = "prepare"
	StageTrain   = "train"
	StageAll     = "all"
)

// Log output formats.
const (
	LogText = "text"
	LogJSON = "json"
)

// AppConfig holds everything a run needs besides the plan.
type AppConfig struct {
	DatasetPath  string
	OutputDir    string
	PlanPath     string
	ExportPath   string
	LogLevel     string
	LogFormat    string
	Seed         int64
	TestSize     float64
	NEstimators  int
	PlotsEnabled bool
	Stage        string
}

// LoadConfig reads the environment, after loading envPath (or ./.env) if it
// exists. A missing .env file is not an error.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 && envPath[0] != "" {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
	}

	cfg := &AppConfig{
		DatasetPath:  getEnvAsString("DATASET_PATH", "dataset.arff"),
		OutputDir:    getEnvAsString("OUTPUT_DIR", "output"),
		PlanPath:     getEnvAsString("PLAN_PATH", ""),
		LogLevel:     getEnvAsString("LOG_LEVEL", "info"),
		LogFormat:    getEnvAsString("LOG_FORMAT", LogText),
		Seed:         int64(getEnvAsInt("RANDOM_SEED", 42)),
		TestSize:     getEnvAsFloat("TEST_SIZE", 0.2),
		NEstimators:  getEnvAsInt("N_ESTIMATORS", 100),
		PlotsEnabled: getEnvAsBool("PLOTS_ENABLED", false),
		Stage:        StageAll,
	}
	return cfg, nil
}

// ParseFlags overrides cfg with command-line flags. Environment values act
// as flag defaults.
func (cfg *AppConfig) ParseFlags(name string, args []string, output io.Writer) error {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(output)
	flags.StringVar(&cfg.DatasetPath, "data", cfg.DatasetPath, "dataset file (.arff or .csv)")
	flags.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory for plots and exports")
	flags.StringVar(&cfg.PlanPath, "plan", cfg.PlanPath, "YAML preprocessing plan (default: built-in Ames plan)")
	flags.StringVar(&cfg.ExportPath, "export", cfg.ExportPath, "write the encoded model matrix to this CSV file")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for the split and the ensembles")
	flags.Float64Var(&cfg.TestSize, "test-size", cfg.TestSize, "fraction of rows held out for testing")
	flags.IntVar(&cfg.NEstimators, "trees", cfg.NEstimators, "number of trees / boosting stages")
	flags.BoolVar(&cfg.PlotsEnabled, "plots", cfg.PlotsEnabled, "render PNG plots")
	flags.StringVar(&cfg.Stage, "stage", cfg.Stage, "stop after: profile, prepare, train or all")
	if err := flags.Parse(args); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate rejects settings no run could use.
func (cfg *AppConfig) Validate() error {
	if cfg.DatasetPath == "" {
		return errors.New("config: dataset path is required")
	}
	if cfg.TestSize <= 0 || cfg.TestSize >= 1 {
		return fmt.Errorf("config: test size %v must be in (0, 1)", cfg.TestSize)
	}
	if cfg.NEstimators < 1 {
		return fmt.Errorf("config: trees must be positive, got %d", cfg.NEstimators)
	}
	switch cfg.Stage {
	case StageProfile, StagePrepare, StageTrain, StageAll:
	default:
		return fmt.Errorf("config: unknown stage %q", cfg.Stage)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	switch cfg.LogFormat {
	case "", LogText, LogJSON:
	default:
		return fmt.Errorf("config: unknown log format %q", cfg.LogFormat)
	}
	return nil
}

// JSONLogs reports whether logs are written as JSON lines.
func (cfg *AppConfig) JSONLogs() bool { return cfg.LogFormat == LogJSON }

// Runs reports whether the given stage is part of the configured run.
func (cfg *AppConfig) Runs(stage string) bool {
	order := map[string]int{StageProfile: 0, StagePrepare: 1, StageTrain: 2, StageAll: 3}
	return order[stage] <= order[cfg.Stage]
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("config: unknown log level %q", s)
	}
	return l, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an int or returns the default, warning when the
// variable is set but malformed.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("environment variable is not an int, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	v, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		slog.Warn("environment variable is not a float, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return v
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		slog.Warn("environment variable is not a bool, using default", "key", key, "value", valStr, "default", defaultValue)
		return defaultValue
	}
	return valBool
}
