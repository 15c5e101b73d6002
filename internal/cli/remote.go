package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-mannequin/internal/config"
	"github.com/teslashibe/go-mannequin/internal/httpc"
	"github.com/teslashibe/go-mannequin/pkg/posture"
	"github.com/teslashibe/go-mannequin/pkg/scene"
)

const remoteTimeout = 10 * time.Second

type remoteFlags struct {
	server string
	model  string
}

func (f *remoteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.server, "server", "http://localhost:"+config.Port(), "editor server base URL")
	cmd.Flags().StringVar(&f.model, "model", "", "model id (default: the active model)")
}

// postureURL resolves the posture endpoint, asking the server for the
// active model when none was given.
func (f *remoteFlags) postureURL(ctx context.Context) (string, error) {
	base := strings.TrimRight(f.server, "/")
	id := f.model
	if id == "" {
		var models []scene.ModelInfo
		if err := httpc.GetJSON(ctx, base+"/api/models", &models); err != nil {
			return "", commandError("list models", err)
		}
		for _, m := range models {
			if m.Active {
				id = m.ID
			}
		}
		if id == "" {
			return "", commandError("no model on the server", nil)
		}
	}
	return fmt.Sprintf("%s/api/models/%s/posture", base, url.PathEscape(id)), nil
}

// NewPullCommand creates the pull command.
func NewPullCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		flags   remoteFlags
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download the posture of a model from a running editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), remoteTimeout)
			defer cancel()

			u, err := flags.postureURL(ctx)
			if err != nil {
				return err
			}
			var p posture.Posture
			if err := httpc.GetJSON(ctx, u, &p); err != nil {
				return commandError("pull", err)
			}
			rootOpts.verbose(cmd, "pulled %s", u)
			return writePosture(cmd, outPath, p)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// NewPushCommand creates the push command.
func NewPushCommand(rootOpts *RootOptions) *cobra.Command {
	var flags remoteFlags

	cmd := &cobra.Command{
		Use:   "push <posture.json>",
		Short: "Import a posture into a model of a running editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readFile(cmd, args[0])
			if err != nil {
				return commandError("read "+args[0], err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), remoteTimeout)
			defer cancel()

			u, err := flags.postureURL(ctx)
			if err != nil {
				return err
			}
			if err := httpc.PutJSON(ctx, u, data, nil); err != nil {
				var se *httpc.StatusError
				if errors.As(err, &se) && se.Code < 500 {
					return &ExitError{Code: ExitFailure, Message: "push rejected", Err: err}
				}
				return commandError("push", err)
			}
			return rootOpts.output(cmd).ok(map[string]string{"pushed": args[0]}, nil)
		},
	}

	flags.register(cmd)
	return cmd
}
