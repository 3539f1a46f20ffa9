// Command tensorctl evaluates compute graphs described in YAML files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/go-tensor/internal/observability"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd(logger *zap.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tensorctl",
		Short:         "Evaluate tensor compute graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newEvalCmd(logger))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func run() int {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to create logger: %v\n", err)

		return 1
	}

	defer func() { _ = logger.Sync() }()

	err = newRootCmd(logger).Execute()
	if err != nil {
		logger.Error("tensorctl failed", zap.Error(err))

		return 1
	}

	return 0
}

func main() {
	os.Exit(run())
}
