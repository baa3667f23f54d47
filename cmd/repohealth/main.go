package main

import (
	"context"
	"fmt"
	"os"

	"github.com/build-flow-labs/repohealth/internal/health/cli"
)

func main() {
	if err := cli.RootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
