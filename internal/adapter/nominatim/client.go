// Package nominatim geocodes counties against an OpenStreetMap Nominatim
// server. Requests are spaced by a minimum interval to respect the public
// server's usage policy.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/observability"
)

const providerName = "nominatim"

// DefaultInterval is the public server's one-request-per-second limit.
const DefaultInterval = time.Second

// Client implements domain.Geocoder against the Nominatim /search endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	interval   time.Duration
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger

	mu   sync.Mutex
	last time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithInterval sets the minimum spacing between requests. Zero disables it.
func WithInterval(d time.Duration) Option {
	return func(c *Client) { c.interval = d }
}

// WithClock sets the clock used to space requests.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// NewClient creates a Nominatim client. userAgent identifies the application
// as the usage policy requires.
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		interval:   DefaultInterval,
		clock:      clockwork.NewRealClock(),
		metrics:    metrics,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ForwardGeocode looks up "<county>, <state>".
func (c *Client) ForwardGeocode(ctx context.Context, county, state string) (domain.GeocodingResult, error) {
	if err := c.wait(ctx); err != nil {
		return domain.GeocodingResult{}, err
	}

	params := url.Values{
		"q":      {domain.Key{County: county, State: state}.String()},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}

	start := time.Now()
	result, err := c.search(ctx, c.baseURL+"/search?"+params.Encode())
	c.metrics.GeocodeAPIDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "error").Inc()
	case !result.Found():
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "empty").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "success").Inc()
	}
	return result, err
}

func (c *Client) wait(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.interval > 0 && !c.last.IsZero() {
		if d := c.interval - c.clock.Since(c.last); d > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.clock.After(d):
			}
		}
	}
	c.last = c.clock.Now()
	return nil
}

func (c *Client) search(ctx context.Context, fullURL string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.GeocodingResult{}, fmt.Errorf("nominatim error: status %d: %s", resp.StatusCode, body)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 {
		return domain.GeocodingResult{}, nil
	}

	p := places[0]
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}
	c.logger.Debug("nominatim match", "display_name", p.DisplayName, "importance", p.Importance)

	return domain.GeocodingResult{
		Lat:         lat,
		Lon:         lon,
		DisplayName: p.DisplayName,
		PlaceName:   p.Name,
		Confidence:  p.Importance,
		Provider:    providerName,
	}, nil
}

// place is one jsonv2 search hit. Coordinates arrive as strings.
type place struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Name        string  `json:"name"`
	Importance  float64 `json:"importance"`
}
