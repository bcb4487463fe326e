package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mhartig/fansync/pkg/config"
	"github.com/mhartig/fansync/pkg/treesync"
)

// consoleProgress renders an in-place progress line for one destination.
type consoleProgress struct {
	out  io.Writer
	name string
}

func (p *consoleProgress) Report(processed, total int) {
	fmt.Fprintf(p.out, "\r%s: %d/%d files", p.name, processed, total)
	if processed == total {
		fmt.Fprintln(p.out)
	}
}

// consoleReporters yields per-destination progress reporters. With more than
// one destination running at a time the carriage-return lines would garble
// each other, so parallel runs rely on the log output instead.
func consoleReporters(parallel int) func(config.Destination) treesync.ProgressReporter {
	if parallel > 1 {
		return nil
	}
	return func(dest config.Destination) treesync.ProgressReporter {
		return &consoleProgress{out: os.Stderr, name: dest.Name}
	}
}
