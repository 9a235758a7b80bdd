package report

import (
	"github.com/eykd/pet-go/runner"
	"github.com/eykd/pet-go/scenario"
)

// Multi forwards every event to each reporter in order. Suite-level events
// go only to reporters that implement runner.SuiteReporter.
type Multi []runner.Reporter

func (m Multi) StepStart(s scenario.Step) {
	for _, r := range m {
		r.StepStart(s)
	}
}

func (m Multi) ScenarioSuccess(sc scenario.Scenario) {
	for _, r := range m {
		r.ScenarioSuccess(sc)
	}
}

func (m Multi) ScenarioFailure(sc scenario.Scenario, f *runner.StepFailure, snapshot map[string]any) {
	for _, r := range m {
		r.ScenarioFailure(sc, f, snapshot)
	}
}

func (m Multi) ScenarioSkipped(sc scenario.Scenario) {
	for _, r := range m {
		if sr, ok := r.(runner.SuiteReporter); ok {
			sr.ScenarioSkipped(sc)
		}
	}
}

func (m Multi) SuiteDone(sum runner.Summary) {
	for _, r := range m {
		if sr, ok := r.(runner.SuiteReporter); ok {
			sr.SuiteDone(sum)
		}
	}
}

var _ runner.SuiteReporter = Multi(nil)
