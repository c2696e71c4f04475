package model

// WeatherResponse is the subset of the weatherapi.com forecast.json payload the
// dashboard reads. Sections are pointers so a missing section can be told
// apart from a zero value.
type WeatherResponse struct {
	Location *Location `json:"location,omitempty"`
	Current  *Current  `json:"current,omitempty"`
	Forecast *Forecast `json:"forecast,omitempty"`
}

type Location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	TzID      string  `json:"tz_id"`
	Localtime string  `json:"localtime"`
}

type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

type Current struct {
	LastUpdated string    `json:"last_updated"`
	TempC       float64   `json:"temp_c"`
	IsDay       int       `json:"is_day"`
	Condition   Condition `json:"condition"`
	WindKph     float64   `json:"wind_kph"`
	WindDegree  int       `json:"wind_degree"`
	WindDir     string    `json:"wind_dir"`
	Humidity    int       `json:"humidity"`
	FeelsLikeC  float64   `json:"feelslike_c"`
}

type Forecast struct {
	ForecastDay []ForecastDay `json:"forecastday"`
}

type ForecastDay struct {
	Date string `json:"date"`
	Day  Day    `json:"day"`
}

type Day struct {
	MaxTempC  float64   `json:"maxtemp_c"`
	MinTempC  float64   `json:"mintemp_c"`
	AvgTempC  float64   `json:"avgtemp_c"`
	Condition Condition `json:"condition"`
}
