// Package reachability decides whether a sync destination can be written to,
// mapping network shares on demand when they are not.
package reachability

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mhartig/fansync/pkg/config"
)

// Checker verifies destination paths before a sync run touches them. It is
// safe for concurrent use; credential prompts and mapping attempts are
// serialized so that parallel destination workers never interleave prompts.
type Checker struct {
	log      zerolog.Logger
	prompter CredentialPrompter
	store    CredentialStore
	mapper   ShareMapper

	mu sync.Mutex
}

// NewChecker creates a Checker. store may be nil, in which case credentials
// are prompted on every run that needs a mapping.
func NewChecker(log zerolog.Logger, prompter CredentialPrompter, store CredentialStore) *Checker {
	return &Checker{
		log:      log.With().Str("component", "reachability").Logger(),
		prompter: prompter,
		store:    store,
		mapper:   newPlatformMapper(),
	}
}

// EnsureReachable reports whether dest.Path is accessible, attempting a
// one-shot share mapping for network destinations that are not. The final
// answer always comes from a fresh existence check, never from the reported
// outcome of the mapping command.
func (c *Checker) EnsureReachable(ctx context.Context, dest config.Destination) bool {
	if dest.Type == config.HostLocal {
		if !pathExists(dest.Path) {
			return false
		}
		if err := ghostMountCheck(dest.Path); err != nil {
			c.log.Warn().Str("destination", dest.Name).Err(err).
				Msg("Destination may be a ghost mount")
		}
		return true
	}

	if pathExists(dest.Path) {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// A sibling worker may have mapped the same share while we waited.
	if pathExists(dest.Path) {
		return true
	}

	// Platforms without on-demand mapping never get a credential prompt,
	// there is nothing the credentials could be used for.
	if !c.mapper.Supported() {
		c.log.Warn().Str("destination", dest.Name).Str("path", dest.Path).
			Msg("On-demand mapping unavailable here, share must be mounted out-of-band")
		return pathExists(dest.Path)
	}

	creds, fromStore, mapped := c.attemptMapping(ctx, dest)
	reachable := pathExists(dest.Path)

	// Only a mapping that actually made the path visible proves the
	// credentials good enough to remember.
	if mapped && reachable && !fromStore && c.store != nil {
		if serr := c.store.Save(dest.Path, creds); serr != nil {
			c.log.Debug().Err(serr).Msg("Failed to store credentials")
		}
	}
	return reachable
}

// attemptMapping runs the one-shot mapping command. mapped reports whether
// the command itself succeeded; the caller still re-verifies the path.
func (c *Checker) attemptMapping(ctx context.Context, dest config.Destination) (creds Credentials, fromStore, mapped bool) {
	creds, fromStore = c.storedCredentials(dest.Path)
	if !fromStore {
		var err error
		creds, err = c.promptCredentials(dest.Path)
		if err != nil {
			c.log.Warn().Str("destination", dest.Name).Err(err).
				Msg("No credentials, cannot map share")
			return creds, fromStore, false
		}
	}

	if err := c.mapper.Map(ctx, dest.Path, creds); err != nil {
		c.log.Warn().Str("destination", dest.Name).Err(err).Msg("Failed to map share")
		if fromStore && c.store != nil {
			// Stored credentials were rejected, drop them so the next run
			// prompts again.
			if derr := c.store.Delete(dest.Path); derr != nil {
				c.log.Debug().Err(derr).Msg("Failed to drop stale credentials")
			}
		}
		return creds, fromStore, false
	}

	c.log.Info().Str("destination", dest.Name).Str("path", dest.Path).Msg("Mapped share")
	return creds, fromStore, true
}

func (c *Checker) storedCredentials(sharePath string) (Credentials, bool) {
	if c.store == nil {
		return Credentials{}, false
	}
	creds, err := c.store.Load(sharePath)
	if err != nil || creds.Principal == "" {
		return Credentials{}, false
	}
	return creds, true
}

func (c *Checker) promptCredentials(sharePath string) (Credentials, error) {
	principal, err := c.prompter.Principal(sharePath)
	if err != nil {
		return Credentials{}, err
	}
	if principal == "" {
		return Credentials{}, errors.New("empty username")
	}
	secret, err := c.prompter.Secret(principal)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Principal: principal, Secret: secret}, nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
