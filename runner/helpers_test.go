package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/eykd/pet-go/scenario"
	"github.com/eykd/pet-go/step"
)

// newScenario builds a scenario whose steps are on consecutive lines after
// the header.
func newScenario(name string, handlers ...step.Handler) scenario.Scenario {
	sc := scenario.Scenario{Name: name, File: "test.pet", Line: 1}
	for i, h := range handlers {
		sc.Steps = append(sc.Steps, scenario.Step{
			Location:    scenario.Location{File: "test.pet", Line: i + 2},
			Keyword:     "given",
			Text:        fmt.Sprintf("step %d", i+1),
			Raw:         fmt.Sprintf("given step %d", i+1),
			Description: fmt.Sprintf("step %d", i+1),
			Handler:     h,
		})
	}
	return sc
}

func record(n int) step.Handler {
	return func(_ context.Context, st *step.State, _ step.Args) error {
		st.Append("order", float64(n))
		return nil
	}
}

func fail(err error) step.Handler {
	return func(context.Context, *step.State, step.Args) error { return err }
}

type event struct {
	kind string
	name string
}

// recordingReporter captures events in arrival order.
type recordingReporter struct {
	mu       sync.Mutex
	events   []event
	failures []*StepFailure
	snaps    []map[string]any
	done     []Summary
}

func (r *recordingReporter) add(kind, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{kind, name})
}

func (r *recordingReporter) StepStart(s scenario.Step) { r.add("step", s.Location.String()) }

func (r *recordingReporter) ScenarioSuccess(sc scenario.Scenario) { r.add("success", sc.Name) }

func (r *recordingReporter) ScenarioFailure(sc scenario.Scenario, f *StepFailure, snap map[string]any) {
	r.add("failure", sc.Name)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
	r.snaps = append(r.snaps, snap)
}

func (r *recordingReporter) ScenarioSkipped(sc scenario.Scenario) { r.add("skipped", sc.Name) }

func (r *recordingReporter) SuiteDone(sum Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = append(r.done, sum)
}

func (r *recordingReporter) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.kind)
	}
	return out
}
