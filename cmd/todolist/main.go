// Command todolist is the CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nibzard/todolist/cmd"
)

const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Run(ctx, os.Args[1:])
	interrupted := ctx.Err() != nil
	stop()

	code, msg := exitStatus(err, interrupted)
	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	if code != 0 {
		os.Exit(code)
	}
}

// exitStatus maps the result of a run to a process exit code and the
// message printed on stderr.
func exitStatus(err error, interrupted bool) (int, string) {
	switch {
	case interrupted && err != nil:
		return exitInterrupted, "\nInterrupted"
	case interrupted:
		return exitInterrupted, ""
	case err != nil:
		return 1, fmt.Sprintf("Error: %v", err)
	}
	return 0, ""
}
