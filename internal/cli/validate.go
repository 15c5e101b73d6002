package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-mannequin/pkg/posture"
	"github.com/teslashibe/go-mannequin/pkg/rig"
)

// FileResult is the validation outcome of one posture file.
type FileResult struct {
	File     string `json:"file"`
	Valid    bool   `json:"valid"`
	Version  int    `json:"version,omitempty"`
	Migrated bool   `json:"migrated,omitempty"` // valid only after upgrading
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"` // what the editor would show
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <posture.json>...",
		Short: "Check that posture files can be imported",
		Long: `Parse each posture file, upgrade older versions and apply the result to a
fresh figure, exactly as an import in the editor would.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd, args)
		},
	}
}

func runValidate(opts *RootOptions, cmd *cobra.Command, files []string) error {
	results := make([]FileResult, 0, len(files))
	failed := 0
	for _, f := range files {
		res := validateFile(opts, cmd, f)
		if !res.Valid {
			failed++
		}
		results = append(results, res)
	}

	out := opts.output(cmd)
	text := func(w io.Writer) {
		for _, r := range results {
			switch {
			case !r.Valid:
				fmt.Fprintf(w, "✗ %s: %s\n", r.File, r.Message)
				if opts.Verbose {
					fmt.Fprintf(w, "  %s\n", r.Error)
				}
			case r.Migrated:
				fmt.Fprintf(w, "✓ %s (version %d, needs migration)\n", r.File, r.Version)
			default:
				fmt.Fprintf(w, "✓ %s\n", r.File)
			}
		}
	}
	if failed > 0 {
		return out.fail(results, &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d of %d postures invalid", failed, len(files))}, text)
	}
	return out.ok(results, text)
}

func validateFile(opts *RootOptions, cmd *cobra.Command, file string) FileResult {
	res := FileResult{File: file}
	fail := func(err error) FileResult {
		res.Error = err.Error()
		res.Message = posture.UserMessage(err)
		return res
	}

	data, err := readFile(cmd, file)
	if err != nil {
		return fail(err)
	}
	p, err := posture.Parse(data)
	if err != nil {
		return fail(err)
	}
	res.Version = p.Version
	res.Migrated = p.Version != posture.Version

	r := rig.New(opts.kind())
	if err := posture.Apply(r, p); err != nil {
		return fail(err)
	}
	opts.verbose(cmd, "%s: applied to %s", file, r.Kind)
	res.Valid = true
	return res
}
