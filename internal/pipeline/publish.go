package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/table"
)

// CredentialCache persists upload credentials between runs.
type CredentialCache interface {
	Load() (domain.CachedCredentials, error)
	Save(creds domain.UploadCredentials, fetchedAt time.Time) error
}

// CredentialIssuer hands out fresh temporary staging credentials.
type CredentialIssuer interface {
	Credentials(ctx context.Context) (domain.UploadCredentials, error)
}

// ObjectUploader stages a local file at the location the credentials name.
type ObjectUploader interface {
	UploadFile(ctx context.Context, path string, creds domain.UploadCredentials) (string, error)
}

// TilesetPublisher asks the map service to build a tileset from the staged
// object.
type TilesetPublisher interface {
	Publish(ctx context.Context, creds domain.UploadCredentials, tileset, name string) (*domain.UploadStatus, error)
}

// PublishStage stages the GeoJSON in S3 and publishes it as a tileset.
// Cached credentials are reused while fresh; otherwise new ones are
// requested and, with Overwrite, written back to the cache.
type PublishStage struct {
	GeoJSON    string
	Tileset    string
	UploadName string
	MaxAge     time.Duration
	Overwrite  bool

	Cache     CredentialCache
	Issuer    CredentialIssuer
	Uploader  ObjectUploader
	Publisher TilesetPublisher
	Logger    *slog.Logger

	// Response is the upload job reported by the last run, nil when the
	// publish call failed.
	Response *domain.UploadStatus
}

func (s *PublishStage) Name() string { return "publish" }

func (s *PublishStage) Run(ctx context.Context) (Result, error) {
	var res Result
	s.Response = nil
	if !table.Exists(s.GeoJSON) {
		return res, fmt.Errorf("geojson %s not found", s.GeoJSON)
	}

	creds, err := s.credentials(ctx)
	if err != nil {
		return res, err
	}

	location, err := s.Uploader.UploadFile(ctx, s.GeoJSON, creds)
	if err != nil {
		return res, fmt.Errorf("stage geojson: %w", err)
	}
	res.RowsRead = 1
	res.Outputs = []string{location}

	status, err := s.Publisher.Publish(ctx, creds, s.Tileset, s.UploadName)
	if err != nil {
		s.Logger.Error("tileset publish failed", "tileset", s.Tileset, "error", err)
		return res, nil
	}
	s.Response = status
	res.RowsWritten = 1
	s.Logger.Info("tileset upload accepted", "upload_id", status.ID, "tileset", status.Tileset)
	return res, nil
}

func (s *PublishStage) credentials(ctx context.Context) (domain.UploadCredentials, error) {
	cached, err := s.Cache.Load()
	if err != nil {
		s.Logger.Warn("could not read cached credentials", "error", err)
	} else if cached.Fresh(s.MaxAge) {
		s.Logger.Info("credentials are fresh", "stamp", cached.Timestamp)
		return cached.Credentials, nil
	}

	s.Logger.Info("credentials are expired, requesting new ones")
	creds, err := s.Issuer.Credentials(ctx)
	if err != nil {
		return domain.UploadCredentials{}, fmt.Errorf("fetch upload credentials: %w", err)
	}
	if s.Overwrite {
		if err := s.Cache.Save(creds, domain.Now()); err != nil {
			s.Logger.Warn("could not cache credentials", "error", err)
		} else {
			s.Logger.Info("credentials cached")
		}
	}
	return creds, nil
}
