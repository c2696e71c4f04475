package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fakhrymubarak/weather-dashboard/internal/model"
	"github.com/fakhrymubarak/weather-dashboard/internal/repository"
	"github.com/fakhrymubarak/weather-dashboard/internal/service"
	"go.uber.org/zap"
)

type WeatherHandler struct {
	WeatherService service.WeatherServiceInterface
	Logger         *zap.SugaredLogger
}

func NewWeatherHandler(svc service.WeatherServiceInterface, logger *zap.SugaredLogger) *WeatherHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &WeatherHandler{
		WeatherService: svc,
		Logger:         logger,
	}
}

func writeJSONResponse(w http.ResponseWriter, logger *zap.SugaredLogger, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		logger.Errorw("could not encode json", "error", err)
	}
}

// HandleWeather serves the raw forecast for the location query parameter.
func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSONResponse(w, h.Logger, http.StatusMethodNotAllowed, model.Failure("Method not allowed", ""))
		return
	}

	location := r.URL.Query().Get("location")
	if location == "" {
		writeJSONResponse(w, h.Logger, http.StatusBadRequest, model.Failure("Missing 'location' query parameter", ""))
		return
	}

	weather, err := h.WeatherService.GetWeather(r.Context(), location)
	if err != nil {
		status, errMsg := weatherErrorStatus(err)
		h.Logger.Errorw("Error fetching weather data", "location", location, "error", err)
		writeJSONResponse(w, h.Logger, status, model.Failure(errMsg, ""))
		return
	}

	writeJSONResponse(w, h.Logger, http.StatusOK, model.Success(weather))
}

func weatherErrorStatus(err error) (int, string) {
	var fetchErr *repository.FetchError
	switch {
	case errors.Is(err, service.ErrEmptyLocation):
		return http.StatusBadRequest, "Missing 'location' query parameter"
	case errors.As(err, &fetchErr) && fetchErr.StatusCode == http.StatusBadRequest:
		// weatherapi.com answers 400 for unknown locations
		return http.StatusNotFound, "Location not found"
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway, fetchErr.Error()
	default:
		return http.StatusInternalServerError, "Failed to fetch weather data"
	}
}
