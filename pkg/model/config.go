// Package model defines the display state mirrored from the Infotafel store.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Mode identifies what the main panel shows.
type Mode string

const (
	// ModeCarousel rotates images from the selected folders.
	ModeCarousel Mode = "carousel"
	// ModeText shows the text panel.
	ModeText Mode = "text"
)

// ParseMode maps a raw layout mode to a Mode. Anything but "text" is a
// carousel, matching how the store's web client treats the field.
func ParseMode(raw string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(raw))) == ModeText {
		return ModeText
	}
	return ModeCarousel
}

// Light is one of the three states of the status indicator.
type Light string

const (
	// LightGreen means care is running normally.
	LightGreen Light = "green"
	// LightYellow means care is restricted.
	LightYellow Light = "yellow"
	// LightRed means care is not available.
	LightRed Light = "red"
)

// ParseLight normalizes a status value, defaulting to green.
func ParseLight(raw string) Light {
	switch l := Light(strings.ToLower(strings.TrimSpace(raw))); l {
	case LightGreen, LightYellow, LightRed:
		return l
	default:
		return LightGreen
	}
}

// Numeric limits applied to store values before use.
const (
	DefaultIntervalSec = 10
	MinIntervalSec     = 3
	MaxIntervalSec     = 120

	DefaultTickerSpeed = 70
	MinTickerSpeed     = 20
	MaxTickerSpeed     = 220

	DefaultPollSec = 30
	MinPollSec     = 5
	MaxPollSec     = 300
)

// Config is the display configuration edited by the admin tool.
type Config struct {
	Theme       string      `json:"theme"`
	Layout      Layout      `json:"layout"`
	Carousel    Carousel    `json:"carousel"`
	TextPanel   TextPanel   `json:"text_panel"`
	InfoBoxes   InfoBoxes   `json:"info_boxes"`
	Ticker      Ticker      `json:"ticker"`
	Events      *Events     `json:"events,omitempty"`
	Autorefresh Autorefresh `json:"autorefresh"`
}

// Layout toggles the panels around the main content.
type Layout struct {
	Mode           string `json:"mode"`
	ShowInfoColumn bool   `json:"show_info_column"`
	ShowTicker     bool   `json:"show_ticker"`
}

// Carousel configures the image rotation.
type Carousel struct {
	IntervalSec Number          `json:"interval_sec"`
	Shuffle     bool            `json:"shuffle"`
	Folders     FolderSelection `json:"folders"`
}

// TextPanel is shown when the layout mode is text.
type TextPanel struct {
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

// InfoBoxes configures the secondary column.
type InfoBoxes struct {
	WeatherEnabled bool        `json:"weather_enabled"`
	Weather        WeatherSite `json:"weather"`
	Ampel          Ampel       `json:"ampel"`
	Custom         []CustomBox `json:"custom"`

	// Events is where older stores keep the event settings.
	Events *Events `json:"events,omitempty"`
}

// WeatherSite selects the location used by the store's weather lookup.
type WeatherSite struct {
	City  string  `json:"city"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Units string  `json:"units,omitempty"`
}

// Ampel is the three-light status indicator.
type Ampel struct {
	Status  string `json:"status"`
	Label   string `json:"label"`
	Details string `json:"details"`
}

// Light returns the normalized indicator state.
func (a Ampel) Light() Light {
	return ParseLight(a.Status)
}

// CustomBox is a free-form markdown box in the info column.
type CustomBox struct {
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	Enabled  bool   `json:"enabled"`
}

// Ticker configures the announcement strip.
type Ticker struct {
	Enabled bool     `json:"enabled"`
	Speed   Number   `json:"speed"`
	Items   []string `json:"items"`
}

// Events configures the upcoming events box.
type Events struct {
	Enabled bool     `json:"enabled"`
	Title   string   `json:"title"`
	Items   []string `json:"items"`
}

// Autorefresh configures the poll fallback.
type Autorefresh struct {
	PollFallbackSec Number `json:"poll_fallback_sec"`
}

// Mode returns the normalized layout mode.
func (c Config) Mode() Mode {
	return ParseMode(c.Layout.Mode)
}

// TickerEnabled reports whether both the ticker and the layout want a strip.
func (c Config) TickerEnabled() bool {
	return c.Ticker.Enabled && c.Layout.ShowTicker
}

// CarouselInterval returns the clamped rotation interval.
func (c Config) CarouselInterval() time.Duration {
	return seconds(c.Carousel.IntervalSec, DefaultIntervalSec, MinIntervalSec, MaxIntervalSec)
}

// TickerSpeed returns the clamped ticker speed in pixels per second.
func (c Config) TickerSpeed() int {
	return c.Ticker.Speed.Clamp(DefaultTickerSpeed, MinTickerSpeed, MaxTickerSpeed)
}

// PollInterval returns the clamped poll fallback interval.
func (c Config) PollInterval() time.Duration {
	return seconds(c.Autorefresh.PollFallbackSec, DefaultPollSec, MinPollSec, MaxPollSec)
}

// EventSettings returns the events configuration, falling back to the copy
// nested under info_boxes.
func (c Config) EventSettings() Events {
	if c.Events != nil {
		return *c.Events
	}
	if c.InfoBoxes.Events != nil {
		return *c.InfoBoxes.Events
	}
	return Events{}
}

// Clamp limits n to [lo, hi].
func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func seconds(n Number, def, lo, hi int) time.Duration {
	return time.Duration(n.Clamp(def, lo, hi)) * time.Second
}

// FolderSelection is either every folder or an ordered list of folder ids.
type FolderSelection struct {
	All bool
	IDs []string
}

// AllFolders selects every folder in index order.
func AllFolders() FolderSelection {
	return FolderSelection{All: true}
}

// SelectFolders selects the given folder ids in order.
func SelectFolders(ids ...string) FolderSelection {
	return FolderSelection{IDs: ids}
}

// UnmarshalJSON accepts "all" or an array of ids. Any other value selects
// nothing.
func (s *FolderSelection) UnmarshalJSON(data []byte) error {
	*s = FolderSelection{}
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		s.All = raw == "all"
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		s.IDs = ids
		return nil
	}
	var anything interface{}
	if err := json.Unmarshal(data, &anything); err != nil {
		return fmt.Errorf("model: folder selection: %w", err)
	}
	return nil
}

// MarshalJSON writes the store's wire form.
func (s FolderSelection) MarshalJSON() ([]byte, error) {
	if s.All {
		return []byte(`"all"`), nil
	}
	ids := s.IDs
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}
