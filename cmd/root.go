// Package cmd implements the pet CLI commands.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/eykd/pet-go/step"
)

// NewRootCmd creates the root pet command with all subcommands registered.
// reg holds the step library scenarios are resolved against; it is frozen
// here if the caller has not done so.
func NewRootCmd(reg *step.Registry) *cobra.Command {
	reg.Freeze()
	root := &cobra.Command{
		Use:           "pet",
		Short:         "pet - run plain-text given/when/then scenarios",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging on stderr")
	root.AddCommand(NewRunCmd(reg, newDefaultRunIO()))
	root.AddCommand(NewParseCmd(reg, newDefaultParseIO()))
	root.AddCommand(NewCheckCmd(reg, newDefaultCheckIO()))
	root.AddCommand(NewStepsCmd(reg))
	root.AddCommand(NewInitCmd(newDefaultInitIO()))
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}
