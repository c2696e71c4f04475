package location

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fallback = "Cairo"

func TestResolve_Success(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want string
	}{
		{"positive", Position{30.0444, 31.2357}, "30.0444,31.2357"},
		{"negative", Position{-33.8688, -151.2093}, "-33.8688,-151.2093"},
		{"integers", Position{51, 0}, "51,0"},
		{"full precision", Position{37.774929123, -122.419416456}, "37.774929123,-122.419416456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := GeolocatorFunc(func(ctx context.Context) (Position, error) { return tt.pos, nil })
			got, err := Resolve(context.Background(), geo, fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_FailuresFallBack(t *testing.T) {
	tests := []struct {
		name    string
		geo     Geolocator
		wantErr error
	}{
		{"absent capability", nil, ErrUnsupported},
		{"denied", GeolocatorFunc(func(ctx context.Context) (Position, error) { return Position{}, ErrPermissionDenied }), ErrPermissionDenied},
		{"unavailable", GeolocatorFunc(func(ctx context.Context) (Position, error) { return Position{}, ErrPositionUnavailable }), ErrPositionUnavailable},
		{"timeout", GeolocatorFunc(func(ctx context.Context) (Position, error) { return Position{}, ErrTimeout }), ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(context.Background(), tt.geo, fallback)
			assert.Equal(t, fallback, got)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolve_ContextDeadlineFallsBack(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	geo := GeolocatorFunc(func(ctx context.Context) (Position, error) {
		<-block
		return Position{1, 2}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got, err := Resolve(ctx, geo, fallback)
	assert.Equal(t, fallback, got)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestResolve_QueriesOnce(t *testing.T) {
	calls := 0
	geo := GeolocatorFunc(func(ctx context.Context) (Position, error) {
		calls++
		return Position{}, ErrPermissionDenied
	})

	_, _ = Resolve(context.Background(), geo, fallback)
	assert.Equal(t, 1, calls)
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		absent  bool
		want    string
		wantErr error
	}{
		{name: "no geolocation", query: "", absent: true},
		{name: "coordinates", query: "lat=30.0444&lon=31.2357", want: "30.0444,31.2357"},
		{name: "denied", query: "geo=denied", wantErr: ErrPermissionDenied},
		{name: "timeout", query: "geo=timeout", wantErr: ErrTimeout},
		{name: "bad latitude", query: "lat=abc&lon=1", wantErr: ErrPositionUnavailable},
		{name: "out of range", query: "lat=91&lon=1", wantErr: ErrPositionUnavailable},
		{name: "nan", query: "lat=NaN&lon=1", wantErr: ErrPositionUnavailable},
		{name: "missing longitude", query: "lat=10", wantErr: ErrPositionUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			geo := FromQuery(values)
			if tt.absent {
				assert.Nil(t, geo)
				return
			}
			require.NotNil(t, geo)

			got, err := Resolve(context.Background(), geo, fallback)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, fallback, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
