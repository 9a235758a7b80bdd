package runner

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eykd/pet-go/scenario"
)

// Summary aggregates the outcomes of a suite run.
type Summary struct {
	RunID    string
	Outcomes []Outcome // in input order
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration
}

// OK reports whether every scenario ran and passed.
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Skipped == 0
}

// Suite runs many scenarios, each with its own Pipeline run and State.
type Suite struct {
	pipeline    *Pipeline
	concurrency int
	failFast    bool
}

// SuiteOption configures a Suite.
type SuiteOption func(*Suite)

// WithConcurrency sets how many scenarios may run at once. Values below 1
// mean 1, which runs scenarios sequentially in input order.
func WithConcurrency(n int) SuiteOption {
	return func(s *Suite) { s.concurrency = max(n, 1) }
}

// WithFailFast stops starting new scenarios once one has failed. Scenarios
// already running finish normally; the rest are skipped.
func WithFailFast(on bool) SuiteOption {
	return func(s *Suite) { s.failFast = on }
}

// NewSuite returns a Suite that runs scenarios through p.
func NewSuite(p *Pipeline, opts ...SuiteOption) *Suite {
	s := &Suite{pipeline: p, concurrency: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes scenarios and returns their outcomes in input order. A
// failing scenario never affects its siblings unless fail-fast is on.
// Cancelling ctx interrupts running scenarios between steps and skips the
// rest.
func (s *Suite) Run(ctx context.Context, scenarios []scenario.Scenario) Summary {
	start := time.Now()
	sum := Summary{RunID: newRunID(), Outcomes: make([]Outcome, len(scenarios))}
	log := s.pipeline.logger.With(zap.String("run", sum.RunID))
	log.Debug("suite started", zap.Int("scenarios", len(scenarios)), zap.Int("concurrency", s.concurrency))

	var stopped atomic.Bool
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, sc := range scenarios {
		g.Go(func() error {
			if stopped.Load() || ctx.Err() != nil {
				sum.Outcomes[i] = s.skip(sc)
				return nil
			}
			o := s.pipeline.Run(ctx, sc)
			sum.Outcomes[i] = o
			if o.Status == StatusFailed && s.failFast {
				stopped.Store(true)
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range sum.Outcomes {
		switch o.Status {
		case StatusPassed:
			sum.Passed++
		case StatusFailed:
			sum.Failed++
		case StatusSkipped:
			sum.Skipped++
		}
	}
	sum.Duration = time.Since(start)
	log.Debug("suite finished",
		zap.Int("passed", sum.Passed),
		zap.Int("failed", sum.Failed),
		zap.Int("skipped", sum.Skipped),
		zap.Duration("duration", sum.Duration))

	if sr, ok := s.pipeline.reporter.(SuiteReporter); ok {
		sr.SuiteDone(sum)
	}
	return sum
}

func (s *Suite) skip(sc scenario.Scenario) Outcome {
	if sr, ok := s.pipeline.reporter.(SuiteReporter); ok {
		sr.ScenarioSkipped(sc)
	}
	return Outcome{Scenario: sc, Status: StatusSkipped}
}

// newRunID returns a time-ordered UUIDv7, falling back to a random UUID.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
