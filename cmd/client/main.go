// Package main is the QKart storefront client: catalog browsing, search,
// cart management and a read-only checkout summary from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if !isReported(err) {
			printError(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func isReported(err error) bool {
	return errors.Is(err, errReported)
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}
