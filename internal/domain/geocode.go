package domain

import (
	"context"
	"log/slog"
)

// LocateCounty resolves one county to a centroid. A lookup that fails or
// finds nothing still yields a record, with a nil Point, so a single bad
// county never stops the locate stage. Cancellation is the only error.
func LocateCounty(ctx context.Context, key Key, geocoder Geocoder, logger *slog.Logger) (GeocodedRecord, error) {
	rec := GeocodedRecord{Query: key.String()}
	if geocoder == nil || !key.Complete() {
		return rec, nil
	}

	result, err := geocoder.ForwardGeocode(ctx, key.County, key.State)
	switch {
	case ctx.Err() != nil:
		return rec, ctx.Err()
	case err != nil:
		logger.Warn("county lookup failed", "query", rec.Query, "error", err)
	case !result.Found():
		logger.Warn("no coordinates for county", "query", rec.Query)
	default:
		rec.Point = result.Point()
		logger.Debug("county located", "query", rec.Query, "provider", result.Provider, "place", result.DisplayName)
	}
	return rec, nil
}
