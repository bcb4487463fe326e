// Package runlock prevents two sync runs from writing the same destination
// set at once. The lock is a JSON file holding the owner's PID, refreshed by
// a background heartbeat so that crashed owners go stale and get cleaned up.
package runlock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mhartig/fansync/pkg/util"
)

type lockState struct {
	PID        int64     `json:"pid"`
	LastUpdate time.Time `json:"last_update"`
	Owner      string    `json:"owner"`
}

// ErrLockActive is returned when the lock is already held by a live process.
type ErrLockActive struct {
	PID       int64
	Owner     string
	TimeSince time.Duration
}

func (e *ErrLockActive) Error() string {
	return fmt.Sprintf("another sync is running, lock held by PID %d (%s), last updated %s ago",
		e.PID, e.Owner, e.TimeSince.Truncate(time.Second))
}

// Lock is an acquired run lock.
type Lock struct {
	log               zerolog.Logger
	path              string
	owner             string
	heartbeatInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	held   bool
}

// A lock not refreshed for this long is considered abandoned.
const staleTimeout = 3 * time.Minute

// Acquire takes the run lock at lockFilePath, reclaiming it when the previous
// owner went stale. ctx covers the acquisition attempt, not the heartbeat.
func Acquire(ctx context.Context, log zerolog.Logger, lockFilePath, owner string, heartbeatInterval time.Duration) (*Lock, error) {
	// A few attempts cover the race between stale-lock cleanup and a
	// competing acquisition.
	const maxAttempts = 3

	for i := 0; i < maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lock, err := tryAcquire(log, lockFilePath, owner, heartbeatInterval)
		if err == nil {
			return lock, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to access lock file: %w", err)
		}

		state, readErr := readLockStateSafely(lockFilePath)
		if readErr != nil {
			// The owner may be mid-write, wait briefly and retry.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		elapsed := time.Since(state.LastUpdate)
		if elapsed < staleTimeout {
			return nil, &ErrLockActive{PID: state.PID, Owner: state.Owner, TimeSince: elapsed}
		}

		log.Warn().Int64("pid", state.PID).Dur("age", elapsed).Msg("Found stale run lock")
		if removeErr := os.Remove(lockFilePath); removeErr != nil && !os.IsNotExist(removeErr) {
			return nil, fmt.Errorf("failed to remove stale lock: %w", removeErr)
		}
		log.Info().Msg("Stale lock removed, retrying acquisition")
	}

	return nil, fmt.Errorf("failed to acquire run lock after %d attempts", maxAttempts)
}

// tryAcquire creates the lock file atomically via O_EXCL.
func tryAcquire(log zerolog.Logger, path, owner string, heartbeatInterval time.Duration) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, util.UserWritableFilePerms)
	if err != nil {
		return nil, err
	}
	f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	l := &Lock{
		log:               log,
		path:              path,
		owner:             owner,
		heartbeatInterval: heartbeatInterval,
		ctx:               ctx,
		cancel:            cancel,
		held:              true,
	}

	if err := l.updateState(); err != nil {
		l.cleanup()
		cancel()
		return nil, err
	}

	go l.heartbeat()
	return l, nil
}

// Release stops the heartbeat and removes the lock file. Releasing twice is
// a no-op.
func (l *Lock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.held {
		return
	}
	l.cancel()
	l.cleanup()
	l.held = false
}

func (l *Lock) cleanup() {
	if err := os.Remove(l.path); err != nil {
		if !os.IsNotExist(err) {
			l.log.Warn().Str("path", l.path).Err(err).Msg("Failed to remove lock file")
		}
		return
	}
	l.log.Debug().Str("path", l.path).Msg("Run lock released")
}

func (l *Lock) heartbeat() {
	ticker := time.NewTicker(l.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
			if err := l.updateState(); err != nil {
				l.log.Warn().Err(err).Msg("Heartbeat failed to update lock file")
			}
		}
	}
}

func (l *Lock) updateState() error {
	state := lockState{
		PID:        int64(os.Getpid()),
		LastUpdate: time.Now(),
		Owner:      l.owner,
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, util.UserWritableFilePerms)
}

// readLockStateSafely tolerates reading mid-truncation, when the file exists
// but is empty or holds partial JSON.
func readLockStateSafely(path string) (lockState, error) {
	var lastErr error

	for i := 0; i < 3; i++ {
		f, err := os.Open(path)
		if err != nil {
			return lockState{}, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			lastErr = err
			time.Sleep(50 * time.Millisecond)
			continue
		}
		if len(data) == 0 {
			lastErr = errors.New("lock file is empty")
			time.Sleep(50 * time.Millisecond)
			continue
		}

		var state lockState
		if err := json.Unmarshal(data, &state); err != nil {
			lastErr = err
			time.Sleep(50 * time.Millisecond)
			continue
		}
		return state, nil
	}

	return lockState{}, fmt.Errorf("failed to read valid lock content: %w", lastErr)
}
