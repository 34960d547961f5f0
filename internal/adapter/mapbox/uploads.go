package mapbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/observability"
)

// UploadsClient talks to the Mapbox Uploads API, which turns a GeoJSON file
// staged in S3 into a tileset.
type UploadsClient struct {
	token      string
	username   string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewUploadsClient creates an Uploads API client. token must carry the
// uploads:write scope.
func NewUploadsClient(baseURL, username, token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *UploadsClient {
	return &UploadsClient{
		token:      token,
		username:   username,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

type uploadRequest struct {
	URL     string `json:"url"`
	Tileset string `json:"tileset"`
	Name    string `json:"name"`
}

// Credentials requests temporary S3 staging credentials.
func (c *UploadsClient) Credentials(ctx context.Context) (domain.UploadCredentials, error) {
	var creds domain.UploadCredentials
	err := c.post(ctx, "credentials", c.endpoint("/credentials"), nil, &creds)
	if err != nil {
		return domain.UploadCredentials{}, err
	}
	return creds, nil
}

// Publish asks Mapbox to build tileset "<username>.<tileset>" from the object
// the credentials point at.
func (c *UploadsClient) Publish(ctx context.Context, creds domain.UploadCredentials, tileset, name string) (*domain.UploadStatus, error) {
	body, err := json.Marshal(uploadRequest{
		URL:     StagedObjectURL(creds),
		Tileset: c.username + "." + tileset,
		Name:    name,
	})
	if err != nil {
		return nil, fmt.Errorf("encode upload request: %w", err)
	}

	var status domain.UploadStatus
	if err := c.post(ctx, "publish", c.endpoint(""), body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// StagedObjectURL is the public S3 URL of the staged GeoJSON.
func StagedObjectURL(creds domain.UploadCredentials) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", creds.Bucket, creds.Key)
}

func (c *UploadsClient) endpoint(suffix string) string {
	return c.baseURL + "/uploads/v1/" + url.PathEscape(c.username) + suffix + "?" +
		url.Values{"access_token": {c.token}}.Encode()
}

func (c *UploadsClient) post(ctx context.Context, name, fullURL string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.UploadRequests.WithLabelValues(name, "error").Inc()
		return fmt.Errorf("%s request: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.UploadRequests.WithLabelValues(name, "error").Inc()
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mapbox uploads API error: status %d: %s", resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.UploadRequests.WithLabelValues(name, "error").Inc()
		return fmt.Errorf("decode %s response: %w", name, err)
	}
	c.metrics.UploadRequests.WithLabelValues(name, "success").Inc()
	c.logger.Debug("mapbox uploads call succeeded", "endpoint", name)
	return nil
}
