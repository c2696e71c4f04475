// Package render turns a forecast.json payload into the HTML fragments shown
// in the dashboard's two containers. Every function here is pure.
package render

import (
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/model"
)

const (
	localTimeLayout = "2006-01-02 15:04"
	dateLayout      = "2006-01-02"

	NoForecastHTML = "<p>No forecast data available.</p>"
)

var (
	ErrInvalidCurrent  = errors.New("invalid data format for current weather")
	ErrInvalidForecast = errors.New("invalid data format for forecast")
)

var funcs = template.FuncMap{
	"num": func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
}

var currentTmpl = template.Must(template.New("current").Funcs(funcs).Parse(`
<div class="forecast-container" id="forecast">
    <div class="forecast-header bg-card-header d-flex justify-content-between" id="today">
      <div class="header-font">{{.DayName}}</div>
      <div class="header-font">{{.Day}}{{.Suffix}} of {{.Month}}</div>
    </div>
    <div class="forecast-content bg-card-body rounded-bottom" id="current">
      <div class="location-font">{{.Location}}</div>
      <div class="degree">
        <div class="temp-font">{{num .TempC}}<sup>o</sup>C</div>
        <div class="forecast-icon">
          <img src="{{.IconURL}}" alt="{{.Condition}}" width="90">
        </div>
      </div>
      <div class="condition-font p-2">{{.Condition}}</div>
      <span class="header-font px-2"><img class="p-2" src="./img/umbrella.png" alt="">{{.Humidity}}%</span>
      <span class="header-font px-2"><img class="p-2" src="./img/wind.png" alt="">{{num .WindKph}}km/h</span>
      <span class="header-font px-2"><img class="p-2" src="./img/compass.png" alt="">{{.WindDirection}}</span>
    </div>
</div>
`))

var forecastTmpl = template.Must(template.New("forecast").Funcs(funcs).Parse(`{{range .}}
<div class="d-flex flex-column w-100">
    <div class="forecast-header {{.HeaderClass}}">
      <div class="header-font">{{.DayName}}</div>
    </div>
    <div class="forecast-content {{.BodyClass}} d-flex justify-content-center align-items-center flex-column rounded-bottom">
      <img class="text-center p-3" src="{{.IconURL}}" alt="{{.Condition}}" />
      <div class="maxtemp-font text-center pt-2">{{num .MaxTempC}}°C</div>
      <div class="mintemp-font text-center pb-2">{{num .MinTempC}}°C</div>
      <div class="condition-font text-center p-3">{{.Condition}}</div>
    </div>
</div>
{{end}}`))

type currentView struct {
	DayName       string
	Day           int
	Suffix        string
	Month         string
	Location      string
	TempC         float64
	IconURL       string
	Condition     string
	Humidity      int
	WindKph       float64
	WindDirection string
}

type dayCard struct {
	DayName     string
	HeaderClass string
	BodyClass   string
	IconURL     string
	Condition   string
	MaxTempC    float64
	MinTempC    float64
}

// Current renders the current-conditions card. Both the current and location
// sections must be present and location.localtime must parse.
func Current(data *model.WeatherResponse) (string, error) {
	if data == nil || data.Current == nil || data.Location == nil {
		return "", ErrInvalidCurrent
	}
	local, err := time.Parse(localTimeLayout, strings.TrimSpace(data.Location.Localtime))
	if err != nil {
		return "", fmt.Errorf("%w: localtime %q", ErrInvalidCurrent, data.Location.Localtime)
	}

	view := currentView{
		DayName:       local.Weekday().String(),
		Day:           local.Day(),
		Suffix:        OrdinalSuffix(local.Day()),
		Month:         local.Month().String(),
		Location:      data.Location.Name,
		TempC:         data.Current.TempC,
		IconURL:       iconURL(data.Current.Condition.Icon),
		Condition:     data.Current.Condition.Text,
		Humidity:      data.Current.Humidity,
		WindKph:       data.Current.WindKph,
		WindDirection: WindDirection(data.Current.WindDir),
	}
	return execute(currentTmpl, view)
}

// Forecast renders one card per upcoming day. The first forecast day is today,
// which Current already shows, so it is skipped. The first remaining card
// always gets the secondary style.
func Forecast(data *model.WeatherResponse) (string, error) {
	if data == nil || data.Forecast == nil || data.Forecast.ForecastDay == nil {
		return "", ErrInvalidForecast
	}
	upcoming := data.Forecast.ForecastDay
	if len(upcoming) > 0 {
		upcoming = upcoming[1:]
	}
	if len(upcoming) == 0 {
		return NoForecastHTML, nil
	}

	cards := make([]dayCard, 0, len(upcoming))
	for i, fd := range upcoming {
		date, err := time.Parse(dateLayout, strings.TrimSpace(fd.Date))
		if err != nil {
			return "", fmt.Errorf("%w: date %q", ErrInvalidForecast, fd.Date)
		}
		card := dayCard{
			DayName:     DayOfWeek(int(date.Weekday())),
			HeaderClass: "bg-card-header",
			BodyClass:   "bg-card-body",
			IconURL:     iconURL(fd.Day.Condition.Icon),
			Condition:   fd.Day.Condition.Text,
			MaxTempC:    fd.Day.MaxTempC,
			MinTempC:    fd.Day.MinTempC,
		}
		if i == 0 {
			card.HeaderClass = "bg-card-header-secondary"
			card.BodyClass = "bg-card-body-secondary"
		}
		cards = append(cards, card)
	}
	return execute(forecastTmpl, cards)
}

// iconURL prefixes the protocol-relative icon path weatherapi.com returns.
func iconURL(icon string) string {
	return "https:" + icon
}

func execute(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
