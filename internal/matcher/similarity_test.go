package matcher

import (
	"math"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "", b: "abc", want: 0.0},
		{name: "case insensitive identity", a: "espn", b: "ESPN", want: 1.0},
		{name: "suffix", a: "espn", b: "ESPN HD", want: 8.0 / 11.0},
		{name: "longer suffix", a: "BBC One", b: "BBC One HD", want: 14.0 / 17.0},
		{name: "prefix", a: "Das Erste", b: "ARD Das Erste", want: 18.0 / 22.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0.0},
		{name: "sparse overlap", a: "CNN", b: "Fox News", want: 2.0 / 11.0},
		{name: "shared words", a: "Sky Sports F1", b: "Sky Sports Main Event", want: 22.0 / 34.0},
		{name: "rotation", a: "abcd", b: "bcda", want: 0.75},
		{name: "multibyte runes", a: "Ö1", b: "ö1", want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarityProperties(t *testing.T) {
	names := []string{
		"", "ESPN", "ESPN HD", "espn2", "BBC One", "BBC One HD", "BBC Two", "CNN",
		"CNN International", "Fox News", "ZDF", "ZDFneo", "Das Erste", "ARD Das Erste",
		"Discovery", "Discovery Channel", "Sky Sports F1", "Sky Sports Main Event",
	}

	t.Run("identity", func(t *testing.T) {
		for _, n := range names {
			if got := Similarity(n, n); got != 1.0 {
				t.Errorf("Similarity(%q, %q) = %v, want 1", n, n, got)
			}
		}
	})

	t.Run("symmetry", func(t *testing.T) {
		pairs := [][2]string{
			{"ESPN", "ESPN HD"},
			{"espn", "ESPN2"},
			{"BBC One", "BBC One HD"},
			{"BBC One", "BBC Two"},
			{"CNN", "CNN International"},
			{"ZDF", "ZDFneo"},
			{"Das Erste", "ARD Das Erste"},
			{"Discovery", "Discovery Channel"},
			{"Sky Sports F1", "Sky Sports Main Event"},
			{"Fox News", "FOX News HD"},
			{"", "ESPN"},
			{"abcd", "bcda"},
		}
		for _, p := range pairs {
			if ab, ba := Similarity(p[0], p[1]), Similarity(p[1], p[0]); ab != ba {
				t.Errorf("Similarity(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
			}
		}
	})

	t.Run("bounded", func(t *testing.T) {
		for _, a := range names {
			for _, b := range names {
				if s := Similarity(a, b); s < 0 || s > 1 {
					t.Errorf("Similarity(%q, %q) = %v outside [0, 1]", a, b, s)
				}
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		first := Similarity("Sky Sports F1", "Sky Sports Main Event")
		for range 10 {
			if got := Similarity("Sky Sports F1", "Sky Sports Main Event"); got != first {
				t.Fatalf("got %v, previously %v", got, first)
			}
		}
	})
}

func TestSimilarityOrientation(t *testing.T) {
	// earliest-block tie-breaking makes these two differ
	if got := Similarity("tide", "diet"); got != 0.25 {
		t.Errorf("Similarity(tide, diet) = %v, want 0.25", got)
	}
	if got := Similarity("diet", "tide"); got != 0.5 {
		t.Errorf("Similarity(diet, tide) = %v, want 0.5", got)
	}
}
