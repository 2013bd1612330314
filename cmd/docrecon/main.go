package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sdejongh/docrecon/internal/cli"
	"github.com/sdejongh/docrecon/pkg/models"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version, cli.Commit, cli.BuildDate = version, commit, date

	if err := cli.NewRootCommand().Execute(); err != nil {
		var statusErr *cli.StatusError
		if errors.As(err, &statusErr) {
			os.Exit(statusErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(models.StatusFailed.ExitCode())
	}
}
