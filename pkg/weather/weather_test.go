package weather

import "testing"

func code(c int) *int { return &c }

func TestLabel(t *testing.T) {
	cases := []struct {
		code *int
		want string
	}{
		{nil, "—"},
		{code(0), "Klar"},
		{code(63), "Regen"},
		{code(95), "Gewitter"},
		{code(77), "Wetter"},
	}
	for _, tc := range cases {
		if got := Label(tc.code); got != tc.want {
			t.Fatalf("Label(%v): got %q want %q", tc.code, got, tc.want)
		}
	}
}

func TestIcon(t *testing.T) {
	if Icon(code(0), true) != "☀" || Icon(code(0), false) != "☽" {
		t.Fatalf("clear sky icons wrong")
	}
	if Icon(code(73), true) != "❄" {
		t.Fatalf("snow icon wrong")
	}
	if Icon(nil, true) != "🌡" {
		t.Fatalf("nil code icon wrong")
	}
}
