// Package cli implements the posture command line tool.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-mannequin/pkg/rig"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Kind    string // figure used to check that postures apply
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the posture tool.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "posture",
		Short: "Inspect, migrate and blend mannequin postures",
		Long: `Work with posture files: the versioned JSON snapshots of a mannequin's
joint angles that the editor imports and exports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return commandError(fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats), nil)
			}
			if _, err := rig.ParseKind(opts.Kind); err != nil {
				return commandError("invalid kind", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Kind, "kind", "male", "figure to apply postures to (male|female|child)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewBlendCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewPullCommand(opts))
	cmd.AddCommand(NewPushCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) output(cmd *cobra.Command) output {
	return output{format: o.Format, w: cmd.OutOrStdout()}
}

func (o *RootOptions) verbose(cmd *cobra.Command, format string, args ...interface{}) {
	if o.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}

func (o *RootOptions) kind() rig.Kind {
	k, err := rig.ParseKind(o.Kind)
	if err != nil {
		return rig.Male
	}
	return k
}
