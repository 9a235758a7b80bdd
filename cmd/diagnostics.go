package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/pet-go/scenario"
)

// hasDiagnosticError reports whether any diagnostic in diags has error severity.
func hasDiagnosticError(diags []scenario.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == "error" {
			return true
		}
	}
	return false
}

// printDiagnostics writes each diagnostic to stderr in human-readable form.
func printDiagnostics(cmd *cobra.Command, diags []scenario.Diagnostic) {
	for _, d := range diags {
		if d.Location != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s (%s)\n", d.Location, d.Severity, d.Message, d.Code)
			continue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s (%s)\n", d.Severity, d.Message, d.Code)
	}
}
