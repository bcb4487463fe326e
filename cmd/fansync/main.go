package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mhartig/fansync/cmd"
	"github.com/mhartig/fansync/pkg/buildinfo"
)

func main() {
	// Cancel the run context on the first interrupt so that workers can
	// finish their current file and report partial results.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := cmd.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, buildinfo.Name+": "+err.Error())
		os.Exit(1)
	}
}
