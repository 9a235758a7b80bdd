package report

import (
	"go.uber.org/zap"

	"github.com/eykd/pet-go/runner"
	"github.com/eykd/pet-go/scenario"
)

// Log reports runner events as structured log entries.
type Log struct {
	logger *zap.Logger
}

// NewLog returns a Log writing to logger.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) StepStart(s scenario.Step) {
	l.logger.Debug("step started",
		zap.Stringer("location", s.Location),
		zap.String("description", s.Description),
		zap.Any("args", s.Args.Values()))
}

func (l *Log) ScenarioSuccess(sc scenario.Scenario) {
	l.logger.Info("scenario passed", zap.String("scenario", sc.Name), zap.Stringer("location", sc.Location()))
}

func (l *Log) ScenarioFailure(sc scenario.Scenario, f *runner.StepFailure, snapshot map[string]any) {
	l.logger.Error("scenario failed",
		zap.String("scenario", sc.Name),
		zap.Stringer("step", f.Step.Location),
		zap.String("line", f.Step.Raw),
		zap.String("description", f.Step.Description),
		zap.Any("context", snapshot),
		zap.Error(f.Err))
}

func (l *Log) ScenarioSkipped(sc scenario.Scenario) {
	l.logger.Warn("scenario skipped", zap.String("scenario", sc.Name), zap.Stringer("location", sc.Location()))
}

func (l *Log) SuiteDone(sum runner.Summary) {
	l.logger.Info("suite finished",
		zap.String("run", sum.RunID),
		zap.Int("passed", sum.Passed),
		zap.Int("failed", sum.Failed),
		zap.Int("skipped", sum.Skipped),
		zap.Duration("duration", sum.Duration))
}

var _ runner.SuiteReporter = (*Log)(nil)
