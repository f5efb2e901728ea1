package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/dataprep"
)

//go:embed ames.yaml
var amesPlan []byte

// OrdinalMap maps the categories of one column to their list index.
type OrdinalMap struct {
	Column     string   `yaml:"column"`
	Categories []string `yaml:"categories"`
}

// OutlierPlan configures IQR row filtering. An empty column list means
// every numeric column of the freshly loaded dataset.
type OutlierPlan struct {
	Enabled    bool     `yaml:"enabled"`
	Multiplier float64  `yaml:"multiplier"`
	Columns    []string `yaml:"columns,omitempty"`
}

type OneHotPlan struct {
	Columns   []string `yaml:"columns"`
	DropFirst bool     `yaml:"drop_first"`
}

type LassoPlan struct {
	Alphas  []float64 `yaml:"alphas"`
	Folds   int       `yaml:"folds"`
	MaxIter int       `yaml:"max_iter"`
	CoefTol float64   `yaml:"coef_tol"`
}

// Plan is the ordered preprocessing recipe applied to a dataset before
// modelling.
type Plan struct {
	Target          string              `yaml:"target"`
	ID              string              `yaml:"id"`
	Drop            []string            `yaml:"drop"`
	Fill            []dataprep.FillRule `yaml:"fill"`
	Outliers        OutlierPlan         `yaml:"outliers"`
	DropLowVariance []string            `yaml:"drop_low_variance"`
	Ordinal         []OrdinalMap        `yaml:"ordinal"`
	OneHot          OneHotPlan          `yaml:"onehot"`
	Frequency       []string            `yaml:"frequency"`
	Label           []string            `yaml:"label"`
	Lasso           LassoPlan           `yaml:"lasso"`
}

// DefaultPlan returns the built-in Ames housing plan.
func DefaultPlan() (*Plan, error) { return ParsePlan(amesPlan) }

// LoadPlan reads a plan from a YAML file. An empty path yields the default
// plan.
func LoadPlan(path string) (*Plan, error) {
	if path == "" {
		return DefaultPlan()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return ParsePlan(b)
}

// ParsePlan decodes and validates a YAML plan. Unknown keys are rejected.
func ParsePlan(b []byte) (*Plan, error) {
	p := &Plan{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

var ErrInvalidPlan = errors.New("config: invalid plan")

// Validate checks the plan for values no stage could run with.
func (p *Plan) Validate() error {
	if p.Target == "" {
		return fmt.Errorf("%w: target is required", ErrInvalidPlan)
	}
	for i, r := range p.Fill {
		if len(r.Columns) == 0 {
			return fmt.Errorf("%w: fill rule %d has no columns", ErrInvalidPlan, i)
		}
		switch r.Strategy {
		case dataprep.Constant, dataprep.Mean, dataprep.Median, dataprep.Mode:
		case dataprep.GroupMedian:
			if r.Group == "" {
				return fmt.Errorf("%w: fill rule %d needs a group column", ErrInvalidPlan, i)
			}
		default:
			return fmt.Errorf("%w: fill rule %d has unknown strategy %q", ErrInvalidPlan, i, r.Strategy)
		}
	}
	if p.Outliers.Enabled && p.Outliers.Multiplier <= 0 {
		return fmt.Errorf("%w: outlier multiplier must be positive", ErrInvalidPlan)
	}
	for _, o := range p.Ordinal {
		if o.Column == "" || len(o.Categories) == 0 {
			return fmt.Errorf("%w: ordinal map for %q is empty", ErrInvalidPlan, o.Column)
		}
	}
	if len(p.Lasso.Alphas) > 0 && p.Lasso.Folds < 2 {
		return fmt.Errorf("%w: lasso needs at least 2 folds", ErrInvalidPlan)
	}
	for _, a := range p.Lasso.Alphas {
		if a <= 0 {
			return fmt.Errorf("%w: lasso alpha %v must be positive", ErrInvalidPlan, a)
		}
	}
	return nil
}
