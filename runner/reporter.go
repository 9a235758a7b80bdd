package runner

import "github.com/eykd/pet-go/scenario"

// Reporter receives progress events from a Pipeline. When a Suite runs
// scenarios concurrently the methods are called from several goroutines.
type Reporter interface {
	StepStart(s scenario.Step)
	ScenarioSuccess(sc scenario.Scenario)
	ScenarioFailure(sc scenario.Scenario, f *StepFailure, snapshot map[string]any)
}

// SuiteReporter is implemented by reporters that also want suite-level
// events. Suite checks for it with a type assertion.
type SuiteReporter interface {
	Reporter
	ScenarioSkipped(sc scenario.Scenario)
	SuiteDone(sum Summary)
}

// NopReporter discards every event.
type NopReporter struct{}

func (NopReporter) StepStart(scenario.Step)                                        {}
func (NopReporter) ScenarioSuccess(scenario.Scenario)                              {}
func (NopReporter) ScenarioFailure(scenario.Scenario, *StepFailure, map[string]any) {}
