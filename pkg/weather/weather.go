// Package weather maps Open-Meteo weather codes to display text.
package weather

var labels = map[int]string{
	0:  "Klar",
	1:  "Überwiegend klar",
	2:  "Wolkig",
	3:  "Bedeckt",
	45: "Nebel",
	48: "Raureif-Nebel",
	51: "Niesel leicht",
	53: "Niesel",
	55: "Niesel stark",
	61: "Regen leicht",
	63: "Regen",
	65: "Regen stark",
	71: "Schnee leicht",
	73: "Schnee",
	75: "Schnee stark",
	80: "Schauer leicht",
	81: "Schauer",
	82: "Schauer stark",
	95: "Gewitter",
}

// Label returns a short German label for a WMO code. A nil code yields "—";
// codes outside the known subset yield "Wetter".
func Label(code *int) string {
	if code == nil {
		return "—"
	}
	if l, ok := labels[*code]; ok {
		return l
	}
	return "Wetter"
}

// Icon picks a symbol for the code group.
func Icon(code *int, isDay bool) string {
	if code == nil {
		return "🌡"
	}
	c := *code
	switch {
	case c == 0:
		if isDay {
			return "☀"
		}
		return "☽"
	case c >= 1 && c <= 3:
		return "⛅"
	case c >= 45 && c <= 48:
		return "🌫"
	case c >= 51 && c <= 67, c >= 80 && c <= 82:
		return "🌧"
	case c >= 71 && c <= 77, c >= 85 && c <= 86:
		return "❄"
	case c >= 95 && c <= 99:
		return "⛈"
	default:
		return "🌡"
	}
}
