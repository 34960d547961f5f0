package domain

import "context"

// GeocodingResult is a provider's best match for a "County, State" query.
// The zero value means nothing was found.
type GeocodingResult struct {
	Lat         float64
	Lon         float64
	DisplayName string // full provider label, e.g. "Lewis County, New York, United States"
	PlaceName   string
	Confidence  float64 // provider relevance or importance, 0 to 1
	Provider    string
}

// Found reports whether the provider returned coordinates.
func (r GeocodingResult) Found() bool {
	return r.Lat != 0 || r.Lon != 0
}

// Point returns the match as a Point, nil when nothing was found.
func (r GeocodingResult) Point() *Point {
	if !r.Found() {
		return nil
	}
	return &Point{Lon: r.Lon, Lat: r.Lat}
}

// Geocoder resolves a county within a state to coordinates.
type Geocoder interface {
	ForwardGeocode(ctx context.Context, county, state string) (GeocodingResult, error)
}
