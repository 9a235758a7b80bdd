// Package runner executes parsed scenarios. Each scenario runs its steps
// strictly in order against one shared step.State; the first failing step
// ends the scenario.
package runner

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/eykd/pet-go/scenario"
	"github.com/eykd/pet-go/step"
)

// Status is the terminal state of a scenario run.
type Status int

const (
	StatusPassed Status = iota + 1
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is the result of running one scenario.
type Outcome struct {
	Scenario scenario.Scenario
	Status   Status
	Failure  *StepFailure   // nil unless Status is StatusFailed
	Context  map[string]any // state snapshot when the scenario ended
	StepsRun int            // handlers invoked, including a failing one
	Duration time.Duration
}

// Passed reports whether every step succeeded.
func (o Outcome) Passed() bool { return o.Status == StatusPassed }

var errNoHandler = errors.New("step has no handler")

// Pipeline runs scenarios one step at a time.
type Pipeline struct {
	reporter    Reporter
	logger      *zap.Logger
	stepTimeout time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithReporter sets the event receiver. The default discards events.
func WithReporter(r Reporter) Option {
	return func(p *Pipeline) { p.reporter = r }
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithStepTimeout bounds each handler's context. Handlers that ignore their
// context are not interrupted. Zero means no timeout.
func WithStepTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.stepTimeout = d }
}

// NewPipeline returns a Pipeline configured by opts.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{reporter: NopReporter{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes sc's steps in order with a fresh State. A step starts only
// after the previous handler has returned. The first error, panic or
// cancellation of ctx ends the run with StatusFailed.
func (p *Pipeline) Run(ctx context.Context, sc scenario.Scenario) Outcome {
	start := time.Now()
	st := step.NewState()
	log := p.logger.With(zap.String("scenario", sc.Name), zap.Stringer("location", sc.Location()))

	out := Outcome{Scenario: sc}
	for _, s := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return p.fail(log, out, st, Wrap(s, err), start)
		}

		p.reporter.StepStart(s)
		stepStart := time.Now()
		out.StepsRun++
		err := p.invoke(ctx, st, s)
		log.Debug("step finished",
			zap.Stringer("step", s.Location),
			zap.String("description", s.Description),
			zap.Duration("duration", time.Since(stepStart)),
			zap.Error(err))
		if err != nil {
			return p.fail(log, out, st, Wrap(s, err), start)
		}
	}

	out.Status = StatusPassed
	out.Context = st.Snapshot()
	out.Duration = time.Since(start)
	log.Debug("scenario passed", zap.Int("steps", out.StepsRun), zap.Duration("duration", out.Duration))
	p.reporter.ScenarioSuccess(sc)
	return out
}

func (p *Pipeline) fail(log *zap.Logger, out Outcome, st *step.State, f *StepFailure, start time.Time) Outcome {
	out.Status = StatusFailed
	out.Failure = f
	out.Context = st.Snapshot()
	out.Duration = time.Since(start)
	log.Info("scenario failed", zap.Stringer("step", f.Step.Location), zap.Error(f.Err))
	p.reporter.ScenarioFailure(out.Scenario, f, out.Context)
	return out
}

// invoke calls the step handler, converting a panic into a PanicError.
func (p *Pipeline) invoke(ctx context.Context, st *step.State, s scenario.Step) (err error) {
	if s.Handler == nil {
		return errNoHandler
	}
	if p.stepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.stepTimeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return s.Handler(ctx, st, s.Args)
}
