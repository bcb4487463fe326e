package reachability

import (
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/mhartig/fansync/pkg/buildinfo"
)

// CredentialStore persists share credentials between runs.
type CredentialStore interface {
	Load(sharePath string) (Credentials, error)
	Save(sharePath string, creds Credentials) error
	Delete(sharePath string) error
}

// KeyringStore keeps credentials in the operating system keyring, one entry
// per share path.
type KeyringStore struct {
	service string
}

var _ CredentialStore = (*KeyringStore)(nil)

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: buildinfo.Name}
}

func (s *KeyringStore) Load(sharePath string) (Credentials, error) {
	data, err := keyring.Get(s.service, sharePath)
	if err != nil {
		return Credentials{}, fmt.Errorf("loading credentials for %s: %w", sharePath, err)
	}
	principal, secret, ok := strings.Cut(data, "\n")
	if !ok {
		return Credentials{}, fmt.Errorf("malformed keyring entry for %s", sharePath)
	}
	return Credentials{Principal: principal, Secret: secret}, nil
}

func (s *KeyringStore) Save(sharePath string, creds Credentials) error {
	if err := keyring.Set(s.service, sharePath, creds.Principal+"\n"+creds.Secret); err != nil {
		return fmt.Errorf("saving credentials for %s: %w", sharePath, err)
	}
	return nil
}

func (s *KeyringStore) Delete(sharePath string) error {
	if err := keyring.Delete(s.service, sharePath); err != nil {
		return fmt.Errorf("deleting credentials for %s: %w", sharePath, err)
	}
	return nil
}
