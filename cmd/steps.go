package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/pet-go/step"
)

// stepInfo is the JSON form of one registered step.
type stepInfo struct {
	Description  string   `json:"description"`
	Placeholders []string `json:"placeholders"`
}

// NewStepsCmd creates the steps subcommand, which lists registered step
// descriptions in resolution order.
func NewStepsCmd(reg *step.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "steps",
		Short:        "List registered step descriptions",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")
			defs := reg.Definitions()

			if jsonMode {
				infos := make([]stepInfo, 0, len(defs))
				for _, d := range defs {
					names := d.Pattern.Placeholders()
					if names == nil {
						names = []string{}
					}
					infos = append(infos, stepInfo{Description: d.Description, Placeholders: names})
				}
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(infos); err != nil {
					return fmt.Errorf("encoding output: %w", err)
				}
				return nil
			}

			for _, d := range defs {
				fmt.Fprintln(cmd.OutOrStdout(), d.Description)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output steps as JSON")
	return cmd
}
