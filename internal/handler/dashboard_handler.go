package handler

import (
	"net/http"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/dashboard"
	"github.com/fakhrymubarak/weather-dashboard/internal/dom"
	"github.com/fakhrymubarak/weather-dashboard/internal/location"
	"github.com/fakhrymubarak/weather-dashboard/internal/model"
	"github.com/fakhrymubarak/weather-dashboard/internal/sse"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	defaultKeepAlive = 15 * time.Second
	eventBuffer      = 16
)

// DashboardHandler serves the dashboard page and its per-session endpoints.
type DashboardHandler struct {
	Registry  *dashboard.Registry
	Logger    *zap.SugaredLogger
	KeepAlive time.Duration
}

func NewDashboardHandler(registry *dashboard.Registry, logger *zap.SugaredLogger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DashboardHandler{
		Registry:  registry,
		Logger:    logger,
		KeepAlive: defaultKeepAlive,
	}
}

// HandlePage opens a session, runs the initial load and returns the page
// with both containers filled in.
func (h *DashboardHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	geo := location.FromQuery(r.URL.Query())
	s := h.Registry.Create()

	if err := s.Dashboard.Start(r.Context(), geo); err != nil {
		h.Logger.Debugw("Initial dashboard load failed", "session", s.ID, "error", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := renderPage(w, newPageData(s.ID, s.Document, geo != nil)); err != nil {
		h.Logger.Errorw("could not render page", "session", s.ID, "error", err)
	}
}

func (h *DashboardHandler) session(w http.ResponseWriter, r *http.Request) (*dashboard.Session, bool) {
	id := mux.Vars(r)["id"]
	s, ok := h.Registry.Get(id)
	if !ok {
		writeJSONResponse(w, h.Logger, http.StatusNotFound, model.Failure("Unknown dashboard session", ""))
	}
	return s, ok
}

// HandleInput feeds the posted value to the session's debounced input handler.
func (h *DashboardHandler) HandleInput(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSONResponse(w, h.Logger, http.StatusBadRequest, model.Failure("Invalid form body", ""))
		return
	}
	s.Dashboard.HandleInput(r.PostFormValue("value"))
	writeJSONResponse(w, h.Logger, http.StatusAccepted, model.Response{Message: "Accepted"})
}

// HandleEvents streams container updates of the session. The current content
// of every non-empty container is sent first.
func (h *DashboardHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	flusher := sse.Prepare(w)
	if flusher == nil {
		writeJSONResponse(w, h.Logger, http.StatusInternalServerError, model.Failure("Streaming unsupported", ""))
		return
	}

	updates, cancel := s.Document.Subscribe(eventBuffer)
	defer cancel()
	detach := s.Attach()
	defer detach()

	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for _, id := range []string{dom.CurrentWeatherID, dom.AdditionalWeatherID} {
		el := s.Document.Lookup(id)
		if el == nil || el.InnerHTML() == "" {
			continue
		}
		if err := sse.WriteEvent(w, flusher, id, dom.Update{ID: id, HTML: el.InnerHTML()}); err != nil {
			return
		}
	}

	keepAlive := h.KeepAlive
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if err := sse.WriteEvent(w, flusher, u.ID, u); err != nil {
				h.Logger.Debugw("event stream closed", "session", s.ID, "error", err)
				return
			}
		case <-ticker.C:
			if err := sse.WriteComment(w, flusher, "ping"); err != nil {
				return
			}
		}
	}
}
