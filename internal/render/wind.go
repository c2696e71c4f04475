package render

import "strings"

var windDirections = map[string]string{
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

// WindDirection expands a compass abbreviation. Unknown codes come back as given.
func WindDirection(abbr string) string {
	if full, ok := windDirections[strings.ToUpper(abbr)]; ok {
		return full
	}
	return abbr
}
