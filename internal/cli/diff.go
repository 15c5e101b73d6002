package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-mannequin/pkg/posture"
)

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	var tol float64

	cmd := &cobra.Command{
		Use:   "diff <a.json> <b.json>",
		Short: "List the joints where two postures differ",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readCurrent(cmd, args[0])
			if err != nil {
				return err
			}
			b, err := readCurrent(cmd, args[1])
			if err != nil {
				return err
			}

			joints := posture.Diff(a, b, tol)
			out := rootOpts.output(cmd)
			if len(joints) == 0 {
				return out.ok([]string{}, func(w io.Writer) {
					fmt.Fprintln(w, "postures match")
				})
			}
			return out.fail(joints, &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d joints differ", len(joints))}, func(w io.Writer) {
				for _, j := range joints {
					fmt.Fprintln(w, j)
				}
			})
		},
	}

	cmd.Flags().Float64Var(&tol, "tol", 0.05, "largest difference treated as equal, in degrees")
	return cmd
}
