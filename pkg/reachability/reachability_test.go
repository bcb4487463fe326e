package reachability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhartig/fansync/pkg/config"
)

type fakePrompter struct {
	principal string
	secret    string
	calls     int
	err       error
}

func (p *fakePrompter) Principal(sharePath string) (string, error) {
	p.calls++
	return p.principal, p.err
}

func (p *fakePrompter) Secret(principal string) (string, error) {
	return p.secret, p.err
}

// fakeMapper simulates a successful mapping by creating the share path as a
// local directory.
type fakeMapper struct {
	calls int
	fail  error
	got   Credentials
}

func (m *fakeMapper) Supported() bool {
	return true
}

func (m *fakeMapper) Map(ctx context.Context, sharePath string, creds Credentials) error {
	m.calls++
	m.got = creds
	if m.fail != nil {
		return m.fail
	}
	return os.MkdirAll(sharePath, 0o755)
}

type memStore struct {
	entries map[string]Credentials
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]Credentials)}
}

func (s *memStore) Load(sharePath string) (Credentials, error) {
	creds, ok := s.entries[sharePath]
	if !ok {
		return Credentials{}, errors.New("not found")
	}
	return creds, nil
}

func (s *memStore) Save(sharePath string, creds Credentials) error {
	s.entries[sharePath] = creds
	return nil
}

func (s *memStore) Delete(sharePath string) error {
	delete(s.entries, sharePath)
	return nil
}

func newTestChecker(prompter CredentialPrompter, store CredentialStore, mapper ShareMapper) *Checker {
	c := NewChecker(zerolog.Nop(), prompter, store)
	if mapper != nil {
		c.mapper = mapper
	}
	return c
}

func TestEnsureReachableLocal(t *testing.T) {
	prompter := &fakePrompter{}
	checker := newTestChecker(prompter, nil, nil)

	t.Run("existing path is reachable", func(t *testing.T) {
		dest := config.Destination{Name: "disk", Path: t.TempDir(), Type: config.HostLocal}
		assert.True(t, checker.EnsureReachable(context.Background(), dest))
	})

	t.Run("missing path is unreachable", func(t *testing.T) {
		dest := config.Destination{
			Name: "disk",
			Path: filepath.Join(t.TempDir(), "gone"),
			Type: config.HostLocal,
		}
		assert.False(t, checker.EnsureReachable(context.Background(), dest))
	})

	t.Run("local destinations never prompt", func(t *testing.T) {
		assert.Zero(t, prompter.calls)
	})
}

func TestEnsureReachableSMBExisting(t *testing.T) {
	prompter := &fakePrompter{principal: "DOM\\user", secret: "pw"}
	mapper := &fakeMapper{}
	checker := newTestChecker(prompter, nil, mapper)

	dest := config.Destination{Name: "nas", Path: t.TempDir(), Type: config.HostSMB}
	assert.True(t, checker.EnsureReachable(context.Background(), dest))
	assert.Zero(t, prompter.calls, "reachable share must not prompt")
	assert.Zero(t, mapper.calls, "reachable share must not be remapped")
}

func TestEnsureReachableSMBMapping(t *testing.T) {
	sharePath := filepath.Join(t.TempDir(), "share")
	prompter := &fakePrompter{principal: "DOM\\user", secret: "pw"}
	mapper := &fakeMapper{}
	store := newMemStore()
	checker := newTestChecker(prompter, store, mapper)

	dest := config.Destination{Name: "nas", Path: sharePath, Type: config.HostSMB}
	assert.True(t, checker.EnsureReachable(context.Background(), dest))
	assert.Equal(t, 1, prompter.calls)
	assert.Equal(t, 1, mapper.calls)
	assert.Equal(t, Credentials{Principal: "DOM\\user", Secret: "pw"}, mapper.got)

	saved, err := store.Load(sharePath)
	require.NoError(t, err)
	assert.Equal(t, "DOM\\user", saved.Principal)
}

func TestEnsureReachableSMBUsesStoredCredentials(t *testing.T) {
	sharePath := filepath.Join(t.TempDir(), "share")
	prompter := &fakePrompter{principal: "wrong", secret: "wrong"}
	mapper := &fakeMapper{}
	store := newMemStore()
	require.NoError(t, store.Save(sharePath, Credentials{Principal: "DOM\\user", Secret: "pw"}))
	checker := newTestChecker(prompter, store, mapper)

	dest := config.Destination{Name: "nas", Path: sharePath, Type: config.HostSMB}
	assert.True(t, checker.EnsureReachable(context.Background(), dest))
	assert.Zero(t, prompter.calls, "stored credentials must suppress the prompt")
	assert.Equal(t, "DOM\\user", mapper.got.Principal)
}

func TestEnsureReachableSMBMappingFails(t *testing.T) {
	sharePath := filepath.Join(t.TempDir(), "share")
	prompter := &fakePrompter{principal: "DOM\\user", secret: "pw"}
	mapper := &fakeMapper{fail: errors.New("access denied")}
	checker := newTestChecker(prompter, nil, mapper)

	dest := config.Destination{Name: "nas", Path: sharePath, Type: config.HostSMB}
	assert.False(t, checker.EnsureReachable(context.Background(), dest))
}

func TestEnsureReachableSMBStaleCredentialsDropped(t *testing.T) {
	sharePath := filepath.Join(t.TempDir(), "share")
	mapper := &fakeMapper{fail: errors.New("access denied")}
	store := newMemStore()
	require.NoError(t, store.Save(sharePath, Credentials{Principal: "old", Secret: "old"}))
	checker := newTestChecker(&fakePrompter{}, store, mapper)

	dest := config.Destination{Name: "nas", Path: sharePath, Type: config.HostSMB}
	assert.False(t, checker.EnsureReachable(context.Background(), dest))
	_, err := store.Load(sharePath)
	assert.Error(t, err, "rejected credentials must be dropped")
}

func TestEnsureReachableSMBEmptyPrincipal(t *testing.T) {
	sharePath := filepath.Join(t.TempDir(), "share")
	prompter := &fakePrompter{principal: ""}
	mapper := &fakeMapper{}
	checker := newTestChecker(prompter, nil, mapper)

	dest := config.Destination{Name: "nas", Path: sharePath, Type: config.HostSMB}
	assert.False(t, checker.EnsureReachable(context.Background(), dest))
	assert.Zero(t, mapper.calls, "no credentials means no mapping attempt")
}

func TestEnsureReachableSMBReVerifiesAfterMapping(t *testing.T) {
	// The mapper reports success but the path never shows up. The checker
	// must trust the filesystem, not the command, and must not remember the
	// credentials as known-good either.
	sharePath := filepath.Join(t.TempDir(), "share")
	mapper := &fakeMapper{}
	prompter := &fakePrompter{principal: "DOM\\user", secret: "pw"}
	store := newMemStore()
	checker := newTestChecker(prompter, store, &liarMapper{inner: mapper})

	dest := config.Destination{Name: "nas", Path: sharePath, Type: config.HostSMB}
	assert.False(t, checker.EnsureReachable(context.Background(), dest))

	_, err := store.Load(sharePath)
	assert.Error(t, err, "credentials must not be saved when the path never became visible")
}

func TestEnsureReachableSMBUnsupportedPlatform(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("on-demand mapping is available on windows")
	}

	// The real platform mapper cannot map shares here, so an unreachable
	// share must degrade to a warning without ever touching stdin.
	prompter := &fakePrompter{principal: "DOM\\user", secret: "pw"}
	store := newMemStore()
	checker := NewChecker(zerolog.Nop(), prompter, store)

	dest := config.Destination{
		Name: "nas",
		Path: filepath.Join(t.TempDir(), "share"),
		Type: config.HostSMB,
	}
	assert.False(t, checker.EnsureReachable(context.Background(), dest))
	assert.Zero(t, prompter.calls, "non-mapping platform must not prompt for credentials")
	assert.Empty(t, store.entries, "non-mapping platform must not store credentials")
}

// liarMapper claims success without making the path available.
type liarMapper struct {
	inner *fakeMapper
}

func (m *liarMapper) Supported() bool {
	return true
}

func (m *liarMapper) Map(ctx context.Context, sharePath string, creds Credentials) error {
	m.inner.calls++
	return nil
}

func TestMappingError(t *testing.T) {
	err := &MappingError{Destination: "nas", Path: "\\\\server\\share"}
	assert.Contains(t, err.Error(), "nas")
	assert.Contains(t, err.Error(), "\\\\server\\share")
}
