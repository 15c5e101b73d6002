package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-mannequin/pkg/posture"
)

// NewBlendCommand creates the blend command.
func NewBlendCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		t       float64
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "blend <from.json> <to.json>",
		Short: "Interpolate between two postures",
		Long: `Blend every joint value linearly: --t 0 yields the first posture and
--t 1 the second. Older postures are upgraded first.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if t < 0 || t > 1 {
				return commandError(fmt.Sprintf("--t %v is outside [0, 1]", t), nil)
			}
			from, err := readCurrent(cmd, args[0])
			if err != nil {
				return err
			}
			to, err := readCurrent(cmd, args[1])
			if err != nil {
				return err
			}
			out, err := posture.Blend(from, to, t)
			if err != nil {
				return &ExitError{Code: ExitFailure, Message: "blend", Err: err}
			}
			rootOpts.verbose(cmd, "blended %s and %s at %v", args[0], args[1], t)
			return writePosture(cmd, outPath, out)
		},
	}

	cmd.Flags().Float64Var(&t, "t", 0.5, "blend factor between 0 and 1")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to file instead of stdout")
	return cmd
}
