package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoCoordinates is returned when a Locations cell holds no usable pair.
var ErrNoCoordinates = errors.New("no coordinates")

// Geometry is a GeoJSON Point geometry. Coordinates are [lon, lat].
type Geometry struct {
	Coordinates []float64 `json:"coordinates"`
	Type        string    `json:"type"`
}

// FeatureProperties are the popup fields rendered by the map front end.
type FeatureProperties struct {
	Title                   string `json:"title"`
	Description             string `json:"description"`
	County                  string `json:"County"`
	State                   string `json:"State"`
	DeveloperName           string `json:"DeveloperName"`
	PointsofInterconnection string `json:"PointsofInterconnection"`
}

// Feature is one project pin.
type Feature struct {
	Type       string            `json:"type"`
	Properties FeatureProperties `json:"properties"`
	Geometry   Geometry          `json:"geometry"`
}

// FeatureCollection is the top-level GeoJSON document.
type FeatureCollection struct {
	Features []Feature `json:"features"`
	Type     string    `json:"type"`
}

// NewFeatureCollection wraps features in a FeatureCollection. A nil slice is
// encoded as an empty array.
func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Features: features, Type: "FeatureCollection"}
}

// ProjectLocation is the subset of a located queue row a feature is built from.
type ProjectLocation struct {
	ProjectName             string
	County                  string
	State                   string
	DeveloperName           string
	PointsOfInterconnection string
	Locations               string
}

// ParseCoordinates parses a "[a, b]" Locations cell into its two numbers.
func ParseCoordinates(cell string) ([]float64, error) {
	s := strings.TrimSpace(cell)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("parse %q: %w", cell, ErrNoCoordinates)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("parse %q: %w", cell, ErrNoCoordinates)
	}
	coords := make([]float64, 0, 2)
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", cell, err)
		}
		coords = append(coords, f)
	}
	return coords, nil
}

// FormatCoordinates renders a point in Mapbox [lon, lat] order. A nil point
// renders as an empty cell.
func FormatCoordinates(p *Point) string {
	if p == nil {
		return ""
	}
	return "[" + strconv.FormatFloat(p.Lon, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Lat, 'f', -1, 64) + "]"
}

// NewFeature builds a point feature for a located project.
func NewFeature(loc ProjectLocation) (Feature, error) {
	coords, err := ParseCoordinates(loc.Locations)
	if err != nil {
		return Feature{}, err
	}
	return Feature{
		Type: "Feature",
		Properties: FeatureProperties{
			Title:                   loc.ProjectName,
			Description:             Key{County: loc.County, State: loc.State}.String(),
			County:                  loc.County,
			State:                   loc.State,
			DeveloperName:           loc.DeveloperName,
			PointsofInterconnection: loc.PointsOfInterconnection,
		},
		Geometry: Geometry{Coordinates: coords, Type: "Point"},
	}, nil
}
