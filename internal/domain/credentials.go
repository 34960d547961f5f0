package domain

import (
	"strings"
	"time"
)

// CredentialTimeLayout is the CRED_TIMESTAMP format in the credentials file.
// Stamps are local wall-clock time.
const CredentialTimeLayout = "2006-01-02 15:04:05.000000"

// Parsing accepts any fractional second, including none.
const credentialParseLayout = "2006-01-02 15:04:05"

// UploadCredentials are the temporary S3 staging credentials issued by the
// Mapbox Uploads API.
type UploadCredentials struct {
	Bucket          string `json:"bucket"`
	Key             string `json:"key"`
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	SessionToken    string `json:"sessionToken"`
}

// Complete reports whether every field needed for an S3 upload is set.
func (c UploadCredentials) Complete() bool {
	return c.Bucket != "" && c.Key != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// CredentialsFresh reports whether credentials stamped at stamp are at most
// maxAge old. A missing or unparseable stamp counts as stale.
func CredentialsFresh(stamp string, maxAge time.Duration) bool {
	if stamp == "" {
		return false
	}
	set, err := time.ParseInLocation(credentialParseLayout, strings.TrimSpace(stamp), time.Local)
	if err != nil {
		return false
	}
	return Now().Sub(set) <= maxAge
}

// CachedCredentials is a credential set read back from the local cache with
// the stamp it was saved under.
type CachedCredentials struct {
	Credentials UploadCredentials
	Timestamp   string
}

// Fresh reports whether the cached set is complete and at most maxAge old.
func (c CachedCredentials) Fresh(maxAge time.Duration) bool {
	return c.Credentials.Complete() && CredentialsFresh(c.Timestamp, maxAge)
}

// UploadStatus is the tileset service's description of an upload job.
type UploadStatus struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Tileset  string  `json:"tileset"`
	Owner    string  `json:"owner"`
	Complete bool    `json:"complete"`
	Progress float64 `json:"progress"`
	Error    *string `json:"error"`
	Created  string  `json:"created"`
	Modified string  `json:"modified"`
}

// FormatCredentialTime formats t as a CRED_TIMESTAMP value.
func FormatCredentialTime(t time.Time) string {
	return t.In(time.Local).Format(CredentialTimeLayout)
}
