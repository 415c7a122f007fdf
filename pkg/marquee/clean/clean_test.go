package clean

import (
	"reflect"
	"testing"
)

func TestRuntime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
		ok   bool
	}{
		{"minutes suffix", "142 min", 142, true},
		{"bare number", "90", 90, true},
		{"leading text", "approx 120 min", 120, true},
		{"no digits", "unknown", 0, false},
		{"empty", "", 0, false},
		{"na marker", "NA", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Runtime(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Runtime(%q) = (%d, %v), want (%d, %v)", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRuntimeFirstDigitRunOnly(t *testing.T) {
	// Only the first run of digits counts, trailing numbers are ignored.
	got, ok := Runtime("120 min (director's cut 142)")
	if !ok || got != 120 {
		t.Errorf("Runtime = (%d, %v), want (120, true)", got, ok)
	}
}

func TestYear(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"1994", 1994, true},
		{" 2008 ", 2008, true},
		{"N/A", 0, false},
		{"PG", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := Year(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Year(%q) = (%d, %v), want (%d, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestGross(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"$28,341,469", 28341469, true},
		{"134966411", 134966411, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"$1.5M", 0, false},
	}

	for _, tt := range tests {
		got, ok := Gross(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Gross(%q) = (%d, %v), want (%d, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestGenres(t *testing.T) {
	got := Genres("Crime, Drama")
	want := []string{"Crime", "Drama"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Genres = %v, want %v", got, want)
	}

	if got := Genres(""); len(got) != 0 {
		t.Errorf("Genres(\"\") = %v, want empty", got)
	}

	// Duplicates and order are preserved.
	got = Genres("Drama, Action , Drama")
	want = []string{"Drama", "Action", "Drama"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Genres = %v, want %v", got, want)
	}
}
