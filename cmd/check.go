package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eykd/pet-go/scenario"
)

// CheckIO handles I/O for the check command.
type CheckIO interface {
	FindScenarios(ctx context.Context, paths []string) ([]string, error)
	ReadScenario(ctx context.Context, path string) ([]byte, error)
}

// CheckDiagnosticJSON is the JSON output type for a single check diagnostic.
type CheckDiagnosticJSON struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

// NewCheckCmd creates the check subcommand. Unlike run, check keeps going
// past a broken file so every problem in the tree is reported at once.
func NewCheckCmd(r scenario.Resolver, io CheckIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check [path...]",
		Short:        "Parse scenario files without running them and report problems",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")
			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}

			files, err := io.FindScenarios(cmd.Context(), paths)
			if err != nil {
				return fmt.Errorf("finding scenario files: %w", err)
			}

			diags, count := checkFiles(cmd.Context(), r, io, files)

			if jsonMode {
				out := make([]CheckDiagnosticJSON, len(diags))
				for i, d := range diags {
					out[i] = CheckDiagnosticJSON{Code: d.Code, Severity: d.Severity, Message: d.Message}
					if d.Location != nil {
						out[i].Location = d.Location.String()
					}
				}
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(out); err != nil {
					return fmt.Errorf("encoding output: %w", err)
				}
			} else {
				for _, d := range diags {
					loc := ""
					if d.Location != nil {
						loc = d.Location.String() + " "
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s%s %s %s\n", loc, d.Code, d.Severity, d.Message)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d files, %d scenarios, %d problems\n", len(files), count, len(diags))
			}

			if hasDiagnosticError(diags) {
				return fmt.Errorf("scenario files have errors")
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "output diagnostics as JSON array")

	return cmd
}

// checkFiles parses each file and returns the diagnostics of all of them,
// along with the number of scenarios that parsed cleanly.
func checkFiles(ctx context.Context, r scenario.Resolver, io CheckIO, files []string) ([]scenario.Diagnostic, int) {
	diags := []scenario.Diagnostic{}
	count := 0
	for _, f := range files {
		src, err := io.ReadScenario(ctx, f)
		if err != nil {
			diags = append(diags, scenario.Diagnostic{
				Severity: "error",
				Code:     scenario.CodeIOFailure,
				Message:  fmt.Sprintf("reading %s: %v", f, err),
			})
			continue
		}
		scenarios, fileDiags, err := scenario.Parse(string(src), f, r)
		if err != nil {
			fileDiags = append(fileDiags, scenario.DiagnosticFor(err))
		}
		diags = append(diags, fileDiags...)
		count += len(scenarios)
	}
	return diags, count
}

// fileCheckIO implements CheckIO using OS file I/O.
type fileCheckIO struct{}

func newDefaultCheckIO() *fileCheckIO {
	return &fileCheckIO{}
}

func (fileCheckIO) FindScenarios(ctx context.Context, paths []string) ([]string, error) {
	return FindScenariosImpl(ctx, paths)
}

func (fileCheckIO) ReadScenario(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}
