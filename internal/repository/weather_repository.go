package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fakhrymubarak/weather-dashboard/internal/model"
)

const (
	forecastDays = "3"
	airQuality   = "no"
)

var (
	ErrAPIKeyMissing = errors.New("API key missing")
)

// FetchError reports a non-2xx answer from the weather API.
type FetchError struct {
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// WeatherRepository defines the interface for weather data access
type WeatherRepository interface {
	GetForecast(ctx context.Context, location string) (*model.WeatherResponse, error)
}

type weatherRepository struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewWeatherRepository creates a forecast repository for the given API base
// URL and key. The default http.Client is used unless one is passed.
func NewWeatherRepository(baseURL, apiKey string, httpClient ...*http.Client) WeatherRepository {
	client := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &weatherRepository{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: client,
	}
}

// GetForecast issues exactly one GET to forecast.json. There is no retry.
func (r *weatherRepository) GetForecast(ctx context.Context, location string) (*model.WeatherResponse, error) {
	if r.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.forecastURL(location), nil)
	if err != nil {
		return nil, fmt.Errorf("build forecast request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{StatusCode: resp.StatusCode}
	}

	var data model.WeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (r *weatherRepository) forecastURL(location string) string {
	q := url.Values{}
	q.Set("key", r.apiKey)
	q.Set("days", forecastDays)
	q.Set("aqi", airQuality)
	q.Set("q", location)
	return r.baseURL + "/forecast.json?" + q.Encode()
}
