package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/fakhrymubarak/weather-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdinalSuffix(t *testing.T) {
	want := map[int]string{
		1: "st", 2: "nd", 3: "rd", 4: "th", 5: "th", 6: "th", 7: "th", 8: "th", 9: "th", 10: "th",
		11: "th", 12: "th", 13: "th", 14: "th", 15: "th", 16: "th", 17: "th", 18: "th", 19: "th", 20: "th",
		21: "st", 22: "nd", 23: "rd", 24: "th", 25: "th", 26: "th", 27: "th", 28: "th", 29: "th", 30: "th",
		31: "st",
	}
	for day := 1; day <= 31; day++ {
		assert.Equal(t, want[day], OrdinalSuffix(day), "day %d", day)
	}
}

func TestWindDirection(t *testing.T) {
	tests := map[string]string{
		"N":   "North",
		"S":   "South",
		"E":   "East",
		"W":   "West",
		"NE":  "Northeast",
		"NW":  "Northwest",
		"SE":  "Southeast",
		"SW":  "Southwest",
		"NNE": "North-Northeast",
		"ENE": "East-Northeast",
		"ESE": "East-Southeast",
		"SSE": "South-Southeast",
		"SSW": "South-Southwest",
		"WSW": "West-Southwest",
		"WNW": "West-Northwest",
		"NNW": "North-Northwest",
	}
	require.Len(t, windDirections, 16)
	for abbr, full := range tests {
		assert.Equal(t, full, WindDirection(abbr), abbr)
	}

	assert.Equal(t, "North-Northwest", WindDirection("nnw"))
	assert.Equal(t, "XX", WindDirection("XX"))
	assert.Equal(t, "", WindDirection(""))
}

func TestDayOfWeek(t *testing.T) {
	assert.Equal(t, "Sunday", DayOfWeek(0))
	assert.Equal(t, "Wednesday", DayOfWeek(3))
	assert.Equal(t, "Saturday", DayOfWeek(6))
	assert.Equal(t, "", DayOfWeek(7))
	assert.Equal(t, "", DayOfWeek(-1))
}

func sampleResponse(days ...string) *model.WeatherResponse {
	resp := &model.WeatherResponse{
		Location: &model.Location{Name: "Cairo", Localtime: "2025-06-27 14:05"},
		Current: &model.Current{
			TempC:     34.2,
			Humidity:  30,
			WindKph:   18.4,
			WindDir:   "NNW",
			Condition: model.Condition{Text: "Sunny", Icon: "//cdn.weatherapi.com/weather/64x64/day/113.png"},
		},
		Forecast: &model.Forecast{ForecastDay: []model.ForecastDay{}},
	}
	for i, d := range days {
		resp.Forecast.ForecastDay = append(resp.Forecast.ForecastDay, model.ForecastDay{
			Date: d,
			Day: model.Day{
				MaxTempC:  float64(30 + i),
				MinTempC:  float64(20 + i),
				Condition: model.Condition{Text: "Clear", Icon: "//cdn.weatherapi.com/weather/64x64/day/113.png"},
			},
		})
	}
	return resp
}

func TestCurrent_RendersCard(t *testing.T) {
	html, err := Current(sampleResponse())
	require.NoError(t, err)

	assert.Contains(t, html, `<div class="header-font">Friday</div>`)
	assert.Contains(t, html, `<div class="header-font">27th of June</div>`)
	assert.Contains(t, html, `<div class="location-font">Cairo</div>`)
	assert.Contains(t, html, `34.2<sup>o</sup>C`)
	assert.Contains(t, html, `src="https://cdn.weatherapi.com/weather/64x64/day/113.png"`)
	assert.Contains(t, html, `alt="Sunny"`)
	assert.Contains(t, html, `30%`)
	assert.Contains(t, html, `18.4km/h`)
	assert.Contains(t, html, `North-Northwest`)
}

func TestCurrent_UnmappedWindPassesThrough(t *testing.T) {
	data := sampleResponse()
	data.Current.WindDir = "XX"

	html, err := Current(data)
	require.NoError(t, err)
	assert.Contains(t, html, `alt="">XX</span>`)
}

func TestCurrent_EscapesProviderText(t *testing.T) {
	data := sampleResponse()
	data.Location.Name = `<script>alert(1)</script>`

	html, err := Current(data)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestCurrent_InvalidData(t *testing.T) {
	tests := []struct {
		name string
		data *model.WeatherResponse
	}{
		{"nil response", nil},
		{"missing current", &model.WeatherResponse{Location: &model.Location{Localtime: "2025-06-27 14:05"}}},
		{"missing location", &model.WeatherResponse{Current: &model.Current{}}},
		{"bad localtime", &model.WeatherResponse{Current: &model.Current{}, Location: &model.Location{Localtime: "yesterday"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := Current(tt.data)
			assert.Empty(t, html)
			assert.True(t, errors.Is(err, ErrInvalidCurrent))
		})
	}
}

func TestForecast_SingleDayShowsNoData(t *testing.T) {
	html, err := Forecast(sampleResponse("2025-06-27"))
	require.NoError(t, err)
	assert.Equal(t, NoForecastHTML, html)
}

func TestForecast_EmptyListShowsNoData(t *testing.T) {
	html, err := Forecast(sampleResponse())
	require.NoError(t, err)
	assert.Equal(t, NoForecastHTML, html)
}

func TestForecast_DropsTodayAndStylesFirstCard(t *testing.T) {
	html, err := Forecast(sampleResponse("2025-06-27", "2025-06-28", "2025-06-29", "2025-06-30"))
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(html, `class="d-flex flex-column w-100"`))
	assert.NotContains(t, html, "Friday")
	assert.Equal(t, 1, strings.Count(html, "bg-card-header-secondary"))
	assert.Equal(t, 1, strings.Count(html, "bg-card-body-secondary"))
	assert.Equal(t, 2, strings.Count(html, `class="forecast-header bg-card-header"`))

	sat := strings.Index(html, "Saturday")
	sun := strings.Index(html, "Sunday")
	mon := strings.Index(html, "Monday")
	require.True(t, sat >= 0 && sun >= 0 && mon >= 0)
	assert.True(t, sat < sun && sun < mon, "cards keep forecast order")

	secondary := strings.Index(html, "bg-card-header-secondary")
	assert.True(t, secondary < sat, "secondary style belongs to the first card")

	assert.Contains(t, html, "31°C")
	assert.Contains(t, html, "21°C")
	assert.NotContains(t, html, "30°C", "today's max temperature is not rendered")
}

func TestForecast_InvalidData(t *testing.T) {
	tests := []struct {
		name string
		data *model.WeatherResponse
	}{
		{"nil response", nil},
		{"missing forecast", &model.WeatherResponse{}},
		{"missing forecastday", &model.WeatherResponse{Forecast: &model.Forecast{}}},
		{"bad date", sampleResponse("2025-06-27", "tomorrow")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := Forecast(tt.data)
			assert.Empty(t, html)
			assert.ErrorIs(t, err, ErrInvalidForecast)
		})
	}
}
