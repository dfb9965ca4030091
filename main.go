// Command ly runs programs written in the ly language.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/ly/cli"
	"github.com/ardnew/ly/log"
	"github.com/ardnew/ly/pkg"
)

// exitInterrupted is the conventional status of a process stopped by SIGINT.
const exitInterrupted = 130

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err == nil {
		return
	}

	// The error's LogValue renders its whole context chain.
	log.Error("run failed", slog.Any("error", err))

	if errors.Is(err, pkg.ErrInterrupted) {
		os.Exit(exitInterrupted)
	}

	os.Exit(1)
}
