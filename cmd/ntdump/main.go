// Command ntdump converts the theatre archive's SQL Server dump into a
// faithful SQLite store and distills it into the public mini store.
//
//	ntdump convert  --dump nt.sql                  dump -> faithful
//	ntdump distill  --mini minimal_nt.db           faithful -> mini (+ optional mirror)
//	ntdump run                                      both
//	ntdump validate --config run.json              check a run file and exit
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ntdump/internal/dump"
)

// Exit codes.
const (
	exitOK = iota
	exitFailure
	exitConfig
	exitNoStatements
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := runCLI(ctx, &rootOptions{}, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ntdump:", err)
		os.Exit(exitCode(err))
	}
}

// runCLI executes one command and always flushes metrics afterwards, so a
// failed step's RecordStep still reaches the backend.
func runCLI(ctx context.Context, opts *rootOptions, args []string) error {
	defer opts.finish()
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// exitCode maps an error to the process status. Per-row failures never
// reach here; they are part of the run report.
func exitCode(err error) int {
	var cfgErr *configError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &cfgErr):
		return exitConfig
	case errors.Is(err, dump.ErrNoStatements):
		return exitNoStatements
	default:
		return exitFailure
	}
}
