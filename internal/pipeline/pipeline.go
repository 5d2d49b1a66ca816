package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/causelist/internal/match"
	"github.com/nao1215/causelist/internal/model"
)

// Step is one stage of a lookup.
type Step interface {
	// Do runs the step. A returned error stops the pipeline.
	Do(ctx context.Context, lookup *Lookup) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithSteps sets the initial steps.
func WithSteps(steps ...Step) Option {
	return func(p *Pipeline) {
		p.steps = append(p.steps, steps...)
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence and returns the first error.
// Cancellation is checked before each step; steps bound their own work.
func (p *Pipeline) Execute(ctx context.Context, lookup *Lookup) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"date", lookup.Request.Date,
			"side", lookup.Request.Side.Key(),
		)

		if err := step.Do(ctx, lookup); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}

		lookup.Steps = append(lookup.Steps, step.Name())
	}

	return nil
}

// Run performs one lookup. The returned error is non-nil only when req
// is invalid, and is then an *model.InvalidInputError. Every other
// failure, including a panic in a step, yields an unavailable outcome.
func (p *Pipeline) Run(ctx context.Context, req model.FetchRequest) (*model.Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := match.New(req.AdvocateName); err != nil {
		return nil, err
	}

	start := time.Now()
	lookup := NewLookup(req)

	err := p.safeExecute(ctx, lookup)
	if err == nil {
		outcome := model.Success(lookup.Matches)
		outcome.PageCount = len(lookup.Pages)
		outcome.EntryCount = len(lookup.Entries)
		p.logger.Debug("lookup finished",
			"url", lookup.URL,
			"pages", outcome.PageCount,
			"entries", outcome.EntryCount,
			"matches", len(outcome.Entries),
			"duration", time.Since(start),
		)
		return outcome, nil
	}

	if model.IsInvalidInput(err) {
		return nil, err
	}

	var (
		unavailable *model.UnavailableError
		corrupt     *model.CorruptDocumentError
		panicked    *panicError
	)
	switch {
	case errors.As(err, &unavailable), errors.As(err, &corrupt):
		p.logger.Warn("cause list unavailable", "url", lookup.URL, "error", err)
	case errors.As(err, &panicked):
		p.logger.Error("lookup panicked", "url", lookup.URL, "error", err)
	default:
		p.logger.Error("lookup failed", "url", lookup.URL, "error", err)
	}

	return model.Unavailable(model.ReasonWeekendOrFetchFailure), nil
}

// panicError wraps a value recovered from a step.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (p *Pipeline) safeExecute(ctx context.Context, lookup *Lookup) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	return p.Execute(ctx, lookup)
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
