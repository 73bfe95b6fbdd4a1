package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"stock-calculator/internal/logger"
	"stock-calculator/internal/trace"
)

func main() {
	err := newRootCmd().Execute()

	_ = trace.Shutdown(context.Background())
	_ = logger.Sync()

	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

// exitError carries a process exit code for a failure that was already
// reported to the user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }
