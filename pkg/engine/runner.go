// Package engine orchestrates a full sync run: one source tree fanned out to
// any number of destinations.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mhartig/fansync/pkg/config"
	"github.com/mhartig/fansync/pkg/extfilter"
	"github.com/mhartig/fansync/pkg/reachability"
	"github.com/mhartig/fansync/pkg/treesync"
)

// ReachabilityChecker verifies that a destination can be written to.
type ReachabilityChecker interface {
	EnsureReachable(ctx context.Context, dest config.Destination) bool
}

// DestinationSyncer mirrors a scanned source tree into a single destination.
type DestinationSyncer interface {
	Run(ctx context.Context, snap *treesync.Snapshot, dest config.Destination,
		filter *extfilter.Filter, reporter treesync.ProgressReporter) (*treesync.Result, error)
}

// DestinationOutcome is the per-destination verdict of a run. Exactly one of
// Result and Err is meaningful: Err is set when the destination was skipped
// or aborted, Result when the sync ran to completion.
type DestinationOutcome struct {
	Destination config.Destination
	Result      *treesync.Result
	Err         error
}

// Report collects the outcomes of a full run.
type Report struct {
	Source    string
	FileCount int
	Started   time.Time
	Duration  time.Duration
	Outcomes  []DestinationOutcome
}

// Failed reports whether any destination ended with an error or recorded
// copy errors.
func (r *Report) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Err != nil {
			return true
		}
		if o.Result != nil && !o.Result.Ok() {
			return true
		}
	}
	return false
}

// Options tune a Runner.
type Options struct {
	// Parallel is the maximum number of destinations synced at once.
	// Values below 2 mean strictly sequential processing.
	Parallel int
}

// Runner drives a sync run. The source tree is scanned exactly once and the
// resulting snapshot is shared by every destination.
type Runner struct {
	log      zerolog.Logger
	checker  ReachabilityChecker
	syncer   DestinationSyncer
	parallel int
}

func NewRunner(log zerolog.Logger, checker ReachabilityChecker, syncer DestinationSyncer, opts Options) *Runner {
	parallel := opts.Parallel
	if parallel < 1 {
		parallel = 1
	}
	return &Runner{
		log:      log.With().Str("component", "engine").Logger(),
		checker:  checker,
		syncer:   syncer,
		parallel: parallel,
	}
}

// Run syncs source into every destination. A destination that fails does not
// affect its siblings; the error return is reserved for run-level failures
// such as an unreadable source tree or a canceled context.
//
// reporters yields a progress reporter per destination so that parallel runs
// can keep their progress streams apart. It may be nil.
func (r *Runner) Run(ctx context.Context, source string, dests []config.Destination,
	filter *extfilter.Filter, reporters func(dest config.Destination) treesync.ProgressReporter) (*Report, error) {

	started := time.Now()
	snap, err := treesync.Scan(source, r.log)
	if err != nil {
		return nil, err
	}
	r.log.Info().Str("source", source).Int("files", snap.FileCount()).
		Int("destinations", len(dests)).Msg("Starting sync run")

	if reporters == nil {
		reporters = func(config.Destination) treesync.ProgressReporter {
			return treesync.NopReporter{}
		}
	}

	report := &Report{
		Source:    source,
		FileCount: snap.FileCount(),
		Started:   started,
		Outcomes:  make([]DestinationOutcome, len(dests)),
	}

	if r.parallel > 1 && len(dests) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.parallel)
		for i, dest := range dests {
			g.Go(func() error {
				report.Outcomes[i] = r.syncOne(gctx, snap, dest, filter, reporters(dest))
				return nil
			})
		}
		// Workers never return errors, so this only waits.
		_ = g.Wait()
	} else {
		for i, dest := range dests {
			report.Outcomes[i] = r.syncOne(ctx, snap, dest, filter, reporters(dest))
		}
	}

	report.Duration = time.Since(started)
	r.logReport(report)
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("sync run interrupted: %w", err)
	}
	return report, nil
}

func (r *Runner) syncOne(ctx context.Context, snap *treesync.Snapshot, dest config.Destination,
	filter *extfilter.Filter, reporter treesync.ProgressReporter) DestinationOutcome {

	outcome := DestinationOutcome{Destination: dest}
	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome
	}

	if !r.checker.EnsureReachable(ctx, dest) {
		outcome.Err = &reachability.MappingError{Destination: dest.Name, Path: dest.Path}
		r.log.Error().Str("destination", dest.Name).Str("path", dest.Path).
			Msg("Destination unreachable, skipping")
		return outcome
	}

	result, err := r.syncer.Run(ctx, snap, dest, filter, reporter)
	outcome.Result = result
	outcome.Err = err
	return outcome
}

func (r *Runner) logReport(report *Report) {
	synced, failed := 0, 0
	for _, o := range report.Outcomes {
		switch {
		case o.Err != nil:
			failed++
		case o.Result != nil:
			o.Result.LogSummary(r.log, "Destination finished")
			if !o.Result.Ok() {
				failed++
			} else {
				synced++
			}
		}
	}
	r.log.Info().
		Int("files", report.FileCount).
		Int("succeeded", synced).
		Int("failed", failed).
		Dur("elapsed", report.Duration).
		Msg("Sync run finished")
}
