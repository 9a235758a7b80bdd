// Package steps is the sample step library bundled with the pet binary.
package steps

import (
	"context"
	"errors"
	"time"

	"github.com/eykd/pet-go/assert"
	"github.com/eykd/pet-go/step"
)

// State keys written by the printing steps.
const (
	KeyLinesPrinted = "linesPrinted"
	KeyLines        = "lines"
)

// Register adds the sample steps to reg.
func Register(reg *step.Registry) error {
	defs := []struct {
		description string
		handler     step.Handler
	}{
		{"I fail because $reason", failBecause},
		{"I print $text", printText},
		{"I print $text and I also print $somethingElse", printTwo},
		{"I see $lines lines of output", seeLines},
		{"I wait $ms milliseconds", wait},
		{"I set $key to $value", set},
		{"I expect $key to equal $value", expectEqual},
	}
	for _, d := range defs {
		if err := reg.Register(d.description, d.handler); err != nil {
			return err
		}
	}
	return nil
}

// recordLine counts and keeps message in the scenario state instead of
// writing it out.
func recordLine(st *step.State, message any) {
	st.Add(KeyLinesPrinted, 1)
	st.Append(KeyLines, message)
}

func failBecause(_ context.Context, _ *step.State, args step.Args) error {
	return errors.New(args.Text(0))
}

func printText(_ context.Context, st *step.State, args step.Args) error {
	recordLine(st, args.Value(0))
	return nil
}

func printTwo(_ context.Context, st *step.State, args step.Args) error {
	recordLine(st, args.Value(0))
	recordLine(st, args.Value(1))
	return nil
}

func seeLines(_ context.Context, st *step.State, args step.Args) error {
	lines, err := args.Number(0)
	if err != nil {
		return err
	}
	return assert.Eq(st.Number(KeyLinesPrinted), lines, "amount of lines printed")
}

func wait(ctx context.Context, _ *step.State, args step.Args) error {
	ms, err := args.Number(0)
	if err != nil {
		return err
	}
	t := time.NewTimer(time.Duration(ms * float64(time.Millisecond)))
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func set(_ context.Context, st *step.State, args step.Args) error {
	key, err := args.String(0)
	if err != nil {
		return err
	}
	st.Set(key, args.Value(1))
	return nil
}

func expectEqual(_ context.Context, st *step.State, args step.Args) error {
	key, err := args.String(0)
	if err != nil {
		return err
	}
	got, _ := st.Get(key)
	return assert.Eq(got, args.Value(1), key)
}
