package model

// WeatherState is the tri-state shown by the weather box.
type WeatherState int

const (
	// WeatherLoading means no reading has arrived yet.
	WeatherLoading WeatherState = iota
	// WeatherError means the store could not fetch weather.
	WeatherError
	// WeatherCurrent means a current reading is available.
	WeatherCurrent
)

// Weather is the store's normalized Open-Meteo payload.
type Weather struct {
	Error     string   `json:"error,omitempty"`
	FetchedAt string   `json:"fetched_at,omitempty"`
	Current   *Reading `json:"current"`
	Daily     []Day    `json:"daily"`
}

// Reading is the current weather.
type Reading struct {
	Temp  *float64 `json:"temp"`
	Feels *float64 `json:"feels,omitempty"`
	Wind  *float64 `json:"wind"`
	Code  *int     `json:"code"`
	IsDay *int     `json:"is_day,omitempty"`
}

// Day is one daily forecast entry.
type Day struct {
	Date string   `json:"date"`
	TMax *float64 `json:"tmax"`
	TMin *float64 `json:"tmin"`
	Code *int     `json:"code"`
}

// State derives the tri-state for a possibly nil snapshot.
func (w *Weather) State() WeatherState {
	switch {
	case w == nil:
		return WeatherLoading
	case w.Error != "":
		return WeatherError
	case w.Current != nil:
		return WeatherCurrent
	default:
		return WeatherLoading
	}
}

// Today returns the first daily entry, if any.
func (w *Weather) Today() (Day, bool) {
	if w == nil || len(w.Daily) == 0 {
		return Day{}, false
	}
	return w.Daily[0], true
}
