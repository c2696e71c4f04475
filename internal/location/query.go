package location

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// QueryGeolocator reports the position the browser sent along with a request:
// "lat" and "lon" values, or "geo=denied" when the user refused the prompt.
type QueryGeolocator struct {
	Values url.Values
}

// FromQuery returns nil when the request carries no geolocation at all, which
// Resolve treats as an absent capability.
func FromQuery(values url.Values) Geolocator {
	if values.Get("geo") == "" && values.Get("lat") == "" && values.Get("lon") == "" {
		return nil
	}
	return QueryGeolocator{Values: values}
}

func (q QueryGeolocator) CurrentPosition(ctx context.Context) (Position, error) {
	switch strings.ToLower(q.Values.Get("geo")) {
	case "denied":
		return Position{}, ErrPermissionDenied
	case "timeout":
		return Position{}, ErrTimeout
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(q.Values.Get("lat")), 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Position{}, ErrPositionUnavailable
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(q.Values.Get("lon")), 64)
	if err != nil || math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Position{}, ErrPositionUnavailable
	}
	return Position{Latitude: lat, Longitude: lon}, nil
}
