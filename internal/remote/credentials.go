package remote

import (
	"errors"

	"pomflow/internal/persist"
)

var ErrNotSignedIn = errors.New("not signed in; run pomflow login first")

// Credentials is the cached sign-in, stored under persist.KeyAuth.
type Credentials struct {
	ServerURL string `yaml:"serverUrl"`
	Token     string `yaml:"token"`
	UserID    string `yaml:"userId"`
	Email     string `yaml:"email"`
}

func (c Credentials) Valid() bool {
	return c.ServerURL != "" && c.Token != ""
}

// LoadCredentials returns ErrNotSignedIn when nothing usable is cached.
func LoadCredentials(store persist.Store) (Credentials, error) {
	var creds Credentials
	found, err := store.Load(persist.KeyAuth, &creds)
	if err != nil {
		return Credentials{}, err
	}
	if !found || !creds.Valid() {
		return Credentials{}, ErrNotSignedIn
	}
	return creds, nil
}

func SaveCredentials(store persist.Store, creds Credentials) error {
	return store.Save(persist.KeyAuth, creds)
}

func ClearCredentials(store persist.Store) error {
	return store.Delete(persist.KeyAuth)
}

// Client returns a client authenticated with the cached token.
func (c Credentials) Client() *Client {
	return NewClient(c.ServerURL, c.Token)
}
