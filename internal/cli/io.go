package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-mannequin/pkg/posture"
)

// readFile reads path, or standard input for "-".
func readFile(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// readPosture reads and parses a posture file without upgrading it.
func readPosture(cmd *cobra.Command, path string) (posture.Posture, error) {
	data, err := readFile(cmd, path)
	if err != nil {
		return posture.Posture{}, commandError("read "+path, err)
	}
	p, err := posture.Parse(data)
	if err != nil {
		return posture.Posture{}, &ExitError{Code: ExitFailure, Message: path, Err: err}
	}
	return p, nil
}

// readCurrent reads a posture and upgrades it to the current version.
func readCurrent(cmd *cobra.Command, path string) (posture.Posture, error) {
	p, err := readPosture(cmd, path)
	if err != nil {
		return p, err
	}
	up, err := posture.Upgrade(p)
	if err != nil {
		return posture.Posture{}, &ExitError{Code: ExitFailure, Message: path, Err: err}
	}
	return up, nil
}

// writePosture writes p to path, or to the command output when path is
// empty or "-".
func writePosture(cmd *cobra.Command, path string, p posture.Posture) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return commandError(fmt.Sprintf("write %s", path), err)
	}
	return nil
}
