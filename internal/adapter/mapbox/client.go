// Package mapbox talks to the Mapbox Geocoding and Uploads APIs and provides
// the LRU cache placed in front of every geocoding provider.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/observability"
)

const (
	providerName = "mapbox"

	// DefaultGeocodingURL is the v5 forward geocoding endpoint.
	DefaultGeocodingURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

	// Counties are "district" features; "region" (the state) is the fallback.
	countyTypes = "district,region"
)

// Client implements domain.Geocoder with Mapbox forward geocoding, restricted
// to US counties.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another geocoding endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// NewClient creates a geocoding client authenticated with a public token.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		token:      token,
		baseURL:    DefaultGeocodingURL,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ForwardGeocode looks up "<county>, <state>" and prefers a county-level
// match over a state-level one.
func (c *Client) ForwardGeocode(ctx context.Context, county, state string) (domain.GeocodingResult, error) {
	query := domain.Key{County: county, State: state}.String()

	start := time.Now()
	features, err := c.search(ctx, query)
	c.metrics.GeocodeAPIDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "error").Inc()
		return domain.GeocodingResult{}, err
	}

	f, ok := bestFeature(features)
	if !ok {
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "empty").Inc()
		c.logger.Debug("mapbox returned no usable feature", "query", query)
		return domain.GeocodingResult{}, nil
	}
	c.metrics.GeocodeRequests.WithLabelValues(providerName, "success").Inc()
	return domain.GeocodingResult{
		Lon:         f.Center[0],
		Lat:         f.Center[1],
		DisplayName: f.PlaceName,
		PlaceName:   f.Text,
		Confidence:  f.Relevance,
		Provider:    providerName,
	}, nil
}

func (c *Client) search(ctx context.Context, query string) ([]feature, error) {
	params := url.Values{
		"access_token": {c.token},
		"country":      {"us"},
		"types":        {countyTypes},
		"autocomplete": {"false"},
		"limit":        {"5"},
	}
	endpoint := fmt.Sprintf("%s/%s.json?%s", c.baseURL, url.PathEscape(query), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build geocoding request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geocode %q: status %d: %s", query, resp.StatusCode, msg)
	}

	var body featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}
	return body.Features, nil
}

// bestFeature returns the first district with a center, else the first
// feature of any type with a center.
func bestFeature(features []feature) (feature, bool) {
	var fallback *feature
	for i := range features {
		f := &features[i]
		if len(f.Center) != 2 {
			continue
		}
		if slices.Contains(f.PlaceType, "district") {
			return *f, true
		}
		if fallback == nil {
			fallback = f
		}
	}
	if fallback == nil {
		return feature{}, false
	}
	return *fallback, true
}

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	PlaceType []string  `json:"place_type"`
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
}
