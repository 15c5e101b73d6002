package cli

import (
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-mannequin/pkg/posture"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "migrate <posture.json>",
		Short: "Upgrade a posture file to the current version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPosture(cmd, args[0])
			if err != nil {
				return err
			}
			from := p.Version
			up, err := posture.Upgrade(p)
			if err != nil {
				return &ExitError{Code: ExitFailure, Message: args[0], Err: err}
			}
			if err := posture.Validate(up); err != nil {
				return &ExitError{Code: ExitFailure, Message: args[0], Err: err}
			}
			rootOpts.verbose(cmd, "%s: version %d -> %d", args[0], from, up.Version)
			return writePosture(cmd, outPath, up)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to file instead of stdout")
	return cmd
}
