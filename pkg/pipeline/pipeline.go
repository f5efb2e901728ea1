package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
)

// Stage is one named, in-place transformation of a frame.
type Stage interface {
	Name() string
	Apply(f *frame.Frame) error
}

// Hook observes the frame around a stage.
type Hook func(f *frame.Frame) error

// Pipeline chains multiple stages and runs them in order.
type Pipeline struct {
	steps  []Stage
	before map[string][]Hook
	after  map[string][]Hook
	log    *slog.Logger
}

func NewPipeline(log *slog.Logger, steps ...Stage) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		steps:  steps,
		before: make(map[string][]Hook),
		after:  make(map[string][]Hook),
		log:    log,
	}
}

// Before registers h to run just before the named stage.
func (p *Pipeline) Before(stage string, h Hook) *Pipeline {
	p.before[stage] = append(p.before[stage], h)
	return p
}

// After registers h to run right after the named stage.
func (p *Pipeline) After(stage string, h Hook) *Pipeline {
	p.after[stage] = append(p.after[stage], h)
	return p
}

// Names returns the stage names in run order.
func (p *Pipeline) Names() []string {
	out := make([]string, len(p.steps))
	for i, s := range p.steps {
		out[i] = s.Name()
	}
	return out
}

// Run applies every stage to f in order and stops at the first error.
func (p *Pipeline) Run(f *frame.Frame) error {
	for _, step := range p.steps {
		name := step.Name()
		for _, h := range p.before[name] {
			if err := h(f); err != nil {
				return fmt.Errorf("before %s: %w", name, err)
			}
		}
		rows, cols := f.Len(), f.Width()
		start := time.Now()
		if err := step.Apply(f); err != nil {
			return fmt.Errorf("stage %s: %w", name, err)
		}
		p.log.Info("stage done",
			"stage", name,
			"rows", f.Len(), "rows_removed", rows-f.Len(),
			"columns", f.Width(), "columns_delta", f.Width()-cols,
			"took", time.Since(start).Round(time.Microsecond))
		for _, h := range p.after[name] {
			if err := h(f); err != nil {
				return fmt.Errorf("after %s: %w", name, err)
			}
		}
	}
	return nil
}
