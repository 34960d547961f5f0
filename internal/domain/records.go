package domain

import (
	"errors"
	"strings"
)

// ErrEmptyMatrix is returned when there are no labelled rows to model.
var ErrEmptyMatrix = errors.New("matrix has no rows")

// Status is the outcome indicator of a queue project.
type Status int

const (
	StatusWithdrawn Status = 0
	StatusInService Status = 1
	StatusActive    Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusWithdrawn:
		return "withdrawn"
	case StatusInService:
		return "inservice"
	case StatusActive:
		return "active"
	default:
		return "unknown"
	}
}

// StatusFromName infers the outcome from a queue or merged file name.
// "service" wins over "withdrawn"; anything else is still in the queue.
func StatusFromName(name string) Status {
	switch {
	case strings.Contains(name, "service"):
		return StatusInService
	case strings.Contains(name, "withdrawn"):
		return StatusWithdrawn
	default:
		return StatusActive
	}
}

// QueueRecord is one interconnection-queue entry after cleaning.
type QueueRecord struct {
	Position      string `json:"position"`
	Type          string `json:"type"`
	CountyRaw     string `json:"county_raw"`
	StateRaw      string `json:"state_raw"`
	County        string `json:"county"`
	State         string `json:"state"`
	Status        Status `json:"status"`
	DeveloperName string `json:"developer_name,omitempty"`
}

// AmenityRecord is one county of the natural amenity reference.
type AmenityRecord struct {
	CountyRaw string  `json:"county_raw"`
	StateRaw  string  `json:"state_raw"`
	County    string  `json:"county"`
	State     string  `json:"state"`
	Tier      float64 `json:"tier"`
	Rank      float64 `json:"rank"`
}

// MergedRecord is a queue record joined with its county amenity data.
// HasTier is false when no amenity record matched.
type MergedRecord struct {
	QueueRecord
	Tier    float64 `json:"tier"`
	Rank    float64 `json:"rank"`
	HasTier bool    `json:"has_tier"`
	Opposed bool    `json:"opposed"`
}

// OpposedProject is one row of the opposed wind project database.
type OpposedProject struct {
	Entity     string
	Government string
	County     string
	State      string
}

// Point is a WGS-84 coordinate.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// GeocodedRecord pairs a "County, State" query with its coordinates.
// Point is nil when the lookup failed.
type GeocodedRecord struct {
	Query string
	Point *Point
}

// Key is the (County, State) join key.
type Key struct {
	County string
	State  string
}

func (k Key) String() string {
	return k.County + ", " + k.State
}

// Complete reports whether both halves of the key are set.
func (k Key) Complete() bool {
	return k.County != "" && k.State != ""
}
