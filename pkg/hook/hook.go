// Package hook runs user-supplied commands around a sync run, e.g. to stop a
// service before mirroring its data directory and restart it afterwards.
package hook

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Executor runs hook commands one after another.
type Executor struct {
	log zerolog.Logger
	// commandContext allows mocking os/exec in tests.
	commandContext func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

func NewExecutor(log zerolog.Logger) *Executor {
	return &Executor{
		log:            log.With().Str("component", "hook").Logger(),
		commandContext: exec.CommandContext,
	}
}

// RunAll executes the commands in order and stops at the first failure.
// Each command is split on whitespace, the first field being the executable.
func (e *Executor) RunAll(ctx context.Context, stage string, commands []string, dryRun bool) error {
	if len(commands) == 0 {
		return nil
	}

	e.log.Info().Str("stage", stage).Int("commands", len(commands)).Msg("Running hook commands")

	for _, command := range commands {
		if err := ctx.Err(); err != nil {
			return err
		}

		fields := strings.Fields(command)
		if len(fields) == 0 {
			continue
		}
		if dryRun {
			e.log.Info().Str("command", command).Msg("[DRY RUN] Would execute command")
			continue
		}
		e.log.Info().Str("command", command).Msg("Executing command")

		cmd := e.commandContext(ctx, fields[0], fields[1:]...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			// cmd.Wait reports a generic error when the context killed the
			// process, surface the cancellation instead.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			e.log.Warn().Str("command", command).Err(err).Msg("Hook command failed")
			return fmt.Errorf("hook command '%s' failed: %w", command, err)
		}
	}
	return nil
}
