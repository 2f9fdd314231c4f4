// Command promptpack concatenates files into a single annotated stream
// suitable for pasting into an LLM prompt.
package main

import (
	"fmt"
	"os"

	"github.com/promptpack/promptpack/internal/cli"
	"github.com/promptpack/promptpack/internal/utils"
)

func main() {
	logger, loggerError := utils.NewApplicationLogger()
	if loggerError != nil {
		fmt.Fprintf(os.Stderr, "unable to initialize logger: %v\n", loggerError)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if executeError := cli.Execute(logger); executeError != nil {
		logger.Error(executeError.Error())
		os.Exit(1)
	}
}
