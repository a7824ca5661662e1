package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/skelly-dev/lint8/internal/cli"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand(version).ExecuteContext(ctx)
	stop()

	var findings *cli.FindingsError
	if err != nil && !errors.As(err, &findings) {
		fmt.Fprintf(os.Stderr, "lint8: %v\n", err)
	}
	os.Exit(cli.ExitCode(err))
}
