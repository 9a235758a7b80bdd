package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eykd/pet-go/scenario"
	"github.com/eykd/pet-go/step"
)

func TestSuite_FailureDoesNotAffectSiblings(t *testing.T) {
	rep := &recordingReporter{}
	scenarios := []scenario.Scenario{
		newScenario("first", record(1)),
		newScenario("second", fail(errors.New("boom"))),
		newScenario("third", record(1)),
	}

	sum := NewSuite(NewPipeline(WithReporter(rep))).Run(context.Background(), scenarios)

	assert.Equal(t, 2, sum.Passed)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 0, sum.Skipped)
	assert.False(t, sum.OK())
	require.Len(t, sum.Outcomes, 3)
	assert.Equal(t, StatusFailed, sum.Outcomes[1].Status)
	assert.Equal(t, StatusPassed, sum.Outcomes[2].Status)
	require.Len(t, rep.done, 1)
	assert.Equal(t, sum.RunID, rep.done[0].RunID)
}

func TestSuite_FailFastSkipsRemaining(t *testing.T) {
	rep := &recordingReporter{}
	scenarios := []scenario.Scenario{
		newScenario("first", fail(errors.New("boom"))),
		newScenario("second", record(1)),
		newScenario("third", record(1)),
	}

	sum := NewSuite(NewPipeline(WithReporter(rep)), WithFailFast(true)).Run(context.Background(), scenarios)

	assert.Equal(t, 0, sum.Passed)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 2, sum.Skipped)
	assert.Equal(t, []string{"step", "failure", "skipped", "skipped"}, rep.kinds())
}

func TestSuite_ConcurrentOutcomesKeepInputOrder(t *testing.T) {
	var running, peak atomic.Int32
	slow := func(d time.Duration) step.Handler {
		return func(ctx context.Context, st *step.State, _ step.Args) error {
			n := running.Add(1)
			defer running.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return ctx.Err()
			}
			st.Set("slept", d.Seconds())
			return nil
		}
	}

	var scenarios []scenario.Scenario
	for _, d := range []time.Duration{40, 5, 20, 1, 10, 30} {
		scenarios = append(scenarios, newScenario(d.String(), slow(d*time.Millisecond)))
	}

	sum := NewSuite(NewPipeline(WithReporter(&recordingReporter{})), WithConcurrency(3)).
		Run(context.Background(), scenarios)

	require.True(t, sum.OK())
	for i, o := range sum.Outcomes {
		assert.Equal(t, scenarios[i].Name, o.Scenario.Name)
	}
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestSuite_CancelledContextSkipsAll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum := NewSuite(NewPipeline()).Run(ctx, []scenario.Scenario{
		newScenario("a", record(1)),
		newScenario("b", record(1)),
	})

	assert.Equal(t, 2, sum.Skipped)
	assert.False(t, sum.OK())
}

func TestSuite_RunIDIsUUID(t *testing.T) {
	sum := NewSuite(NewPipeline()).Run(context.Background(), nil)

	id, err := uuid.Parse(sum.RunID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.True(t, sum.OK())
	assert.Empty(t, sum.Outcomes)
}

func TestWithConcurrency_ClampsToOne(t *testing.T) {
	s := NewSuite(NewPipeline(), WithConcurrency(0))
	assert.Equal(t, 1, s.concurrency)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "passed", StatusPassed.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "skipped", StatusSkipped.String())
	assert.Equal(t, "unknown", Status(0).String())
}
