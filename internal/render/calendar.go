package render

var days = [...]string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// DayOfWeek maps a 0-based day index (Sunday = 0) to its name, or "" when the
// index is out of range.
func DayOfWeek(index int) string {
	if index < 0 || index >= len(days) {
		return ""
	}
	return days[index]
}

// OrdinalSuffix returns the English ordinal suffix for a day of the month.
func OrdinalSuffix(day int) string {
	if day > 3 && day < 21 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
