package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fakhrymubarak/weather-dashboard/internal/model"
	"github.com/fakhrymubarak/weather-dashboard/internal/repository"
)

var (
	ErrEmptyLocation = errors.New("location is empty")
)

// WeatherServiceInterface is what handlers and dashboards depend on.
type WeatherServiceInterface interface {
	GetWeather(ctx context.Context, location string) (*model.WeatherResponse, error)
}

type WeatherService struct {
	WeatherRepo repository.WeatherRepository
}

func NewWeatherService(repo repository.WeatherRepository) *WeatherService {
	return &WeatherService{WeatherRepo: repo}
}

// GetWeather fetches the forecast for location. The location is passed to the
// repository verbatim.
func (s *WeatherService) GetWeather(ctx context.Context, location string) (*model.WeatherResponse, error) {
	if strings.TrimSpace(location) == "" {
		return nil, ErrEmptyLocation
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return s.WeatherRepo.GetForecast(ctx, location)
}
