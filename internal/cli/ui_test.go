package cli

import (
	"strings"
	"testing"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "(0 B)"},
		{512, "(512 B)"},
		{2048, "(2.0 KB)"},
		{3 << 20, "(3.0 MB)"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRouteText(t *testing.T) {
	names := []string{"Kendall/MIT", "Charles/MGH", "Park Street"}
	got := routeText("Red", names)
	for _, n := range names {
		if !strings.Contains(got, n) {
			t.Errorf("routeText missing %q: %q", n, got)
		}
	}
	if strings.Count(got, iconArrow) != len(names)-1 {
		t.Errorf("routeText arrows = %d, want %d", strings.Count(got, iconArrow), len(names)-1)
	}
	if strings.Count(got, iconStop) != 2 {
		t.Errorf("routeText should mark both end stops: %q", got)
	}
}
