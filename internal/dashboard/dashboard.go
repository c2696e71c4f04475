// Package dashboard runs the resolve, fetch and render pipeline for one
// dashboard page.
package dashboard

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fakhrymubarak/weather-dashboard/internal/debounce"
	"github.com/fakhrymubarak/weather-dashboard/internal/dom"
	"github.com/fakhrymubarak/weather-dashboard/internal/location"
	"github.com/fakhrymubarak/weather-dashboard/internal/model"
	"github.com/fakhrymubarak/weather-dashboard/internal/render"
	"github.com/fakhrymubarak/weather-dashboard/internal/sequence"
	"github.com/fakhrymubarak/weather-dashboard/internal/service"
	"go.uber.org/zap"
)

// MinInputLength is the longest trimmed input that is still ignored.
const MinInputLength = 3

var ErrStaleResponse = errors.New("a newer load was issued for this dashboard")

type Options struct {
	Weather            service.WeatherServiceInterface
	Document           *dom.Document
	Logger             *zap.SugaredLogger
	DefaultLocation    string
	GeolocationTimeout time.Duration
	DebounceDelay      time.Duration
	// Sequencer, when set, makes Load drop responses that were overtaken by a
	// newer load for the same SessionID.
	Sequencer sequence.Sequencer
	SessionID string
}

type Dashboard struct {
	weather         service.WeatherServiceInterface
	log             *zap.SugaredLogger
	defaultLocation string
	geoTimeout      time.Duration
	seq             sequence.Sequencer
	id              string

	current    *dom.Element
	additional *dom.Element
	input      *dom.Element

	debouncer *debounce.Debouncer
	ctx       context.Context
	cancel    context.CancelFunc
}

// New builds a dashboard and looks its containers up once. Containers missing
// from the document stay nil and writes to them are skipped. ctx bounds the
// loads started from user input.
func New(ctx context.Context, opts Options) *Dashboard {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.DebounceDelay <= 0 {
		opts.DebounceDelay = debounce.DefaultDelay
	}
	if opts.Document == nil {
		opts.Document = dom.NewDocument()
	}
	ctx, cancel := context.WithCancel(ctx)

	return &Dashboard{
		weather:         opts.Weather,
		log:             opts.Logger,
		defaultLocation: opts.DefaultLocation,
		geoTimeout:      opts.GeolocationTimeout,
		seq:             opts.Sequencer,
		id:              opts.SessionID,
		current:         opts.Document.Lookup(dom.CurrentWeatherID),
		additional:      opts.Document.Lookup(dom.AdditionalWeatherID),
		input:           opts.Document.Lookup(dom.UserInputID),
		debouncer:       debounce.New(opts.DebounceDelay),
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Start resolves the location through geo, falling back to the default
// location, and loads it.
func (d *Dashboard) Start(ctx context.Context, geo location.Geolocator) error {
	geoCtx := ctx
	if d.geoTimeout > 0 {
		var cancel context.CancelFunc
		geoCtx, cancel = context.WithTimeout(ctx, d.geoTimeout)
		defer cancel()
	}

	loc, err := location.Resolve(geoCtx, geo, d.defaultLocation)
	if err != nil {
		d.log.Warnw("Geolocation not available or denied, using default location",
			"session", d.id, "location", loc, "error", err)
	}
	return d.Load(ctx, loc)
}

// Load fetches the forecast for loc and renders both containers. A fetch
// failure is logged and returned without touching either container. A render
// failure is logged and leaves only its own container unchanged.
func (d *Dashboard) Load(ctx context.Context, loc string) error {
	var ticket int64
	if d.seq != nil {
		n, err := d.seq.Next(ctx, d.id)
		if err != nil {
			d.log.Warnw("Sequencer unavailable, applying response unordered", "session", d.id, "error", err)
		} else {
			ticket = n
		}
	}

	data, err := d.weather.GetWeather(ctx, loc)
	if err != nil {
		d.log.Errorw("Error fetching weather data", "session", d.id, "location", loc, "error", err)
		return err
	}

	if ticket > 0 {
		latest, err := d.seq.Latest(ctx, d.id)
		if err == nil && latest != ticket {
			d.log.Infow("Discarding stale weather response", "session", d.id, "location", loc,
				"ticket", ticket, "latest", latest)
			return ErrStaleResponse
		}
	}

	d.renderCurrent(data)
	d.renderForecast(data)
	return nil
}

func (d *Dashboard) renderCurrent(data *model.WeatherResponse) {
	html, err := render.Current(data)
	if err != nil {
		d.log.Errorw("Invalid data format for current weather", "session", d.id, "error", err)
		return
	}
	if d.current == nil {
		return
	}
	d.current.SetInnerHTML(html)
}

func (d *Dashboard) renderForecast(data *model.WeatherResponse) {
	html, err := render.Forecast(data)
	if err != nil {
		d.log.Errorw("Invalid data format for forecast", "session", d.id, "error", err)
		return
	}
	if d.additional == nil {
		return
	}
	d.additional.SetInnerHTML(html)
}

// HandleInput feeds one input event. Bursts collapse into a single load after
// the quiet period, and only when the trimmed value is longer than
// MinInputLength characters.
func (d *Dashboard) HandleInput(value string) {
	if d.input == nil {
		return
	}
	d.debouncer.Call(func() {
		q := strings.TrimSpace(value)
		if utf8.RuneCountInString(q) <= MinInputLength {
			return
		}
		_ = d.Load(d.ctx, q)
	})
}

// Close drops any pending input and cancels in-flight input loads.
func (d *Dashboard) Close() {
	d.debouncer.Stop()
	d.cancel()
}

func (d *Dashboard) ID() string { return d.id }
