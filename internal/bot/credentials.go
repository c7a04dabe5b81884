package bot

import (
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/zalando/go-keyring"
)

// CredentialStore keeps the passwords of remote vCard sources, keyed by user name.
type CredentialStore interface {
	Get(user string) (string, error)
	Set(user, password string) error
}

// KeyringStore is a CredentialStore backed by the operating system keyring.
type KeyringStore struct {
	Service string
}

// NewKeyringStore returns a store using the application keyring service.
func NewKeyringStore() KeyringStore {
	return KeyringStore{Service: config.KeyringService}
}

func (s KeyringStore) Get(user string) (string, error) {
	return keyring.Get(s.Service, user)
}

func (s KeyringStore) Set(user, password string) error {
	return keyring.Set(s.Service, user, password)
}
