// Package location turns a single-shot position query into the location string
// handed to the weather API.
package location

import (
	"context"
	"errors"
	"strconv"
)

var (
	ErrUnsupported         = errors.New("geolocation not supported")
	ErrPermissionDenied    = errors.New("geolocation permission denied")
	ErrPositionUnavailable = errors.New("geolocation position unavailable")
	ErrTimeout             = errors.New("geolocation timed out")
)

// Position is a WGS84 coordinate pair.
type Position struct {
	Latitude  float64
	Longitude float64
}

// String formats the position as "<lat>,<lon>" using the shortest
// representation that round-trips.
func (p Position) String() string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

// Geolocator answers one position query. A nil Geolocator means the
// capability is absent.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

type GeolocatorFunc func(ctx context.Context) (Position, error)

func (f GeolocatorFunc) CurrentPosition(ctx context.Context) (Position, error) {
	return f(ctx)
}

// Resolve asks geo once for the current position. Any failure, including an
// absent geolocator or an expired ctx, yields fallback.
func Resolve(ctx context.Context, geo Geolocator, fallback string) (string, error) {
	if geo == nil {
		return fallback, ErrUnsupported
	}

	type result struct {
		pos Position
		err error
	}
	done := make(chan result, 1)
	go func() {
		pos, err := geo.CurrentPosition(ctx)
		done <- result{pos, err}
	}()

	select {
	case <-ctx.Done():
		return fallback, ErrTimeout
	case r := <-done:
		if r.err != nil {
			return fallback, r.err
		}
		return r.pos.String(), nil
	}
}
