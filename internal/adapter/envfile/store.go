// Package envfile caches Mapbox upload credentials in a dotenv file.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
)

// Keys written to the credentials file.
const (
	KeyBucket          = "BUCKET"
	KeyObject          = "KEY"
	KeyAccessKeyID     = "ACCESSKEYID"
	KeySecretAccessKey = "SECRETACCESSKEY"
	KeySessionToken    = "SESSIONTOKEN"
	KeyTimestamp       = "CRED_TIMESTAMP"
)

// Store reads and writes cached credentials at a dotenv path. Other
// variables in the file are preserved on write.
type Store struct {
	path string
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the cached credentials. A missing file yields an empty set.
func (s *Store) Load() (domain.CachedCredentials, error) {
	env, err := s.read()
	if err != nil {
		return domain.CachedCredentials{}, err
	}
	return domain.CachedCredentials{
		Credentials: domain.UploadCredentials{
			Bucket:          env[KeyBucket],
			Key:             env[KeyObject],
			AccessKeyID:     env[KeyAccessKeyID],
			SecretAccessKey: env[KeySecretAccessKey],
			SessionToken:    env[KeySessionToken],
		},
		Timestamp: env[KeyTimestamp],
	}, nil
}

// Save writes creds stamped with fetchedAt.
func (s *Store) Save(creds domain.UploadCredentials, fetchedAt time.Time) error {
	env, err := s.read()
	if err != nil {
		return err
	}
	env[KeyBucket] = creds.Bucket
	env[KeyObject] = creds.Key
	env[KeyAccessKeyID] = creds.AccessKeyID
	env[KeySecretAccessKey] = creds.SecretAccessKey
	env[KeySessionToken] = creds.SessionToken
	env[KeyTimestamp] = domain.FormatCredentialTime(fetchedAt)

	if err := godotenv.Write(env, s.path); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) read() (map[string]string, error) {
	env, err := godotenv.Read(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return env, nil
}
