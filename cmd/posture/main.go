// posture inspects, migrates and blends mannequin posture files, and moves
// postures in and out of a running editor.
package main

import (
	"fmt"
	"os"

	"github.com/teslashibe/go-mannequin/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
	}
	os.Exit(cli.ExitCode(err))
}
