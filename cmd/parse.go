package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eykd/pet-go/scenario"
)

// ParseIO reads scenario files for the parse command.
type ParseIO interface {
	ReadScenario(ctx context.Context, path string) ([]byte, error)
}

// NewParseCmd creates the parse subcommand, which prints a scenario file's
// resolved steps as JSON.
func NewParseCmd(r scenario.Resolver, io ParseIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "parse <scenario-file>",
		Short:        "Parse a scenario file and output JSON",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			src, err := io.ReadScenario(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("reading scenario: %w", err)
			}

			scenarios, diags, parseErr := scenario.Parse(string(src), path, r)
			if parseErr != nil {
				diags = append(diags, scenario.DiagnosticFor(parseErr))
			}

			out := scenario.NewDocument(path, scenarios, diags)
			if err := json.NewEncoder(cmd.OutOrStdout()).Encode(out); err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}

			if hasDiagnosticError(out.Diagnostics) {
				return fmt.Errorf("scenario file has parse errors")
			}
			return nil
		},
	}
	return cmd
}

// fileParseIO implements ParseIO using OS file I/O.
type fileParseIO struct{}

func newDefaultParseIO() *fileParseIO {
	return &fileParseIO{}
}

func (fileParseIO) ReadScenario(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}
