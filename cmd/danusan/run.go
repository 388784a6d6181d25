package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

type application interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Done() <-chan os.Signal
}

const stopTimeout = 30 * time.Second

// run starts the storefront and blocks until ctx is cancelled or fx reports
// shutdown. It returns the process exit code.
func run(ctx context.Context, app application, stderr io.Writer) int {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "failed to start storefront: %v\n", err)
		return 1
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(stderr, "failed to stop storefront: %v\n", err)
		return 1
	}
	return 0
}
