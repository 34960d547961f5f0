package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestCredentialsFresh(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	maxAge := 30 * time.Minute

	assert.True(t, CredentialsFresh(FormatCredentialTime(now.Add(-10*time.Minute)), maxAge))
	assert.True(t, CredentialsFresh(FormatCredentialTime(now.Add(-30*time.Minute)), maxAge), "boundary is inclusive")
	assert.False(t, CredentialsFresh(FormatCredentialTime(now.Add(-31*time.Minute)), maxAge))
	assert.True(t, CredentialsFresh("2024-05-01 11:50:00", maxAge), "fraction is optional")
	assert.False(t, CredentialsFresh("", maxAge))
	assert.False(t, CredentialsFresh("yesterday", maxAge))
}

func TestFormatCredentialTime(t *testing.T) {
	ts := time.Date(2024, 5, 1, 9, 3, 4, 120000000, time.Local)
	assert.Equal(t, "2024-05-01 09:03:04.120000", FormatCredentialTime(ts))
}

func TestUploadCredentialsComplete(t *testing.T) {
	c := UploadCredentials{Bucket: "b", Key: "k", AccessKeyID: "a", SecretAccessKey: "s"}
	assert.True(t, c.Complete())
	c.Bucket = ""
	assert.False(t, c.Complete())
}

func TestCachedCredentials_Fresh(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	creds := UploadCredentials{Bucket: "b", Key: "k", AccessKeyID: "id", SecretAccessKey: "secret"}
	stamp := FormatCredentialTime(now.Add(-time.Minute))

	assert.True(t, CachedCredentials{Credentials: creds, Timestamp: stamp}.Fresh(30*time.Minute))
	assert.False(t, CachedCredentials{Timestamp: stamp}.Fresh(30*time.Minute), "incomplete set is stale")
	assert.False(t, CachedCredentials{Credentials: creds}.Fresh(30*time.Minute), "missing stamp is stale")
}
