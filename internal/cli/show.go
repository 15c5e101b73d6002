package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-mannequin/pkg/posture"
)

// JointValues is one named entry of a posture.
type JointValues struct {
	Joint  string    `json:"joint"`
	Values []float64 `json:"values"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <posture.json>",
		Short: "Print a posture joint by joint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readCurrent(cmd, args[0])
			if err != nil {
				return err
			}
			if err := posture.Validate(p); err != nil {
				return &ExitError{Code: ExitFailure, Message: args[0], Err: err}
			}

			rows := make([]JointValues, len(posture.Names))
			for i, name := range posture.Names {
				rows[i] = JointValues{Joint: name, Values: p.Data[i]}
			}

			return rootOpts.output(cmd).ok(rows, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "version %d\n", p.Version)
				for _, r := range rows {
					vals := make([]string, len(r.Values))
					for i, v := range r.Values {
						vals[i] = fmt.Sprintf("%g", v)
					}
					fmt.Fprintf(tw, "%s\t%s\n", r.Joint, strings.Join(vals, "\t"))
				}
				tw.Flush()
			})
		},
	}
}
