package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/pydocscraper/internal/cli"
	pkgerrors "github.com/matzehuels/pydocscraper/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(exitCode(os.Stderr, err))
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	defer c.Close()

	return c.RootCommand().ExecuteContext(ctx)
}

// exitCode prints err unless the scrape already logged it and returns the
// process exit status.
func exitCode(w io.Writer, err error) int {
	if errors.Is(err, context.Canceled) {
		return 130 // Standard shell convention for SIGINT
	}
	if !cli.Reported(err) {
		fmt.Fprintln(w, "Error:", pkgerrors.UserMessage(err))
	}
	return 1
}
