package theme

import "testing"

func TestUnknownThemeFallsBackToMint(t *testing.T) {
	if got := ForID("neon").ID; got != DefaultID {
		t.Fatalf("got %q", got)
	}
	if got := ForID("").ID; got != DefaultID {
		t.Fatalf("got %q", got)
	}
	if got := ForID("night").ID; got != "night" {
		t.Fatalf("got %q", got)
	}
}

func TestIDsSorted(t *testing.T) {
	ids := IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Fatalf("ids not sorted: %v", ids)
		}
	}
	for _, id := range ids {
		if ForID(id).ID != id {
			t.Fatalf("palette %q not reachable", id)
		}
	}
}
