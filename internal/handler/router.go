package handler

import (
	"net/http"

	"github.com/fakhrymubarak/weather-dashboard/internal/middleware"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Weather   *WeatherHandler
	Dashboard *DashboardHandler
	// Limiter guards /weather. Nil disables rate limiting.
	Limiter *middleware.RateLimiter
	Logger  *zap.SugaredLogger
}

// NewRouter wires every route of the server.
func NewRouter(deps RouterDeps) *mux.Router {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Logging(logger))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSONResponse(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	var weather http.Handler = http.HandlerFunc(deps.Weather.HandleWeather)
	if deps.Limiter != nil {
		weather = deps.Limiter.Middleware(weather)
	}
	r.Handle("/weather", weather)

	r.HandleFunc("/", deps.Dashboard.HandlePage).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/{id}/input", deps.Dashboard.HandleInput).Methods(http.MethodPost)
	r.HandleFunc("/dashboard/{id}/events", deps.Dashboard.HandleEvents).Methods(http.MethodGet)

	return r
}
