package lookup

import "testing"

func TestBackgroundClass(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want string
	}{
		{"晴", "sunny"},
		{"Partly cloudy", "cloudy"},
		{"多云", "cloudy"},
		{"小雨", "rainy"},
		{"Thundery outbreaks possible", "rainy"},
		{"大雪", "snowy"},
		{"未知", "sunny"}, // default
	}
	for _, tc := range cases {
		if got := backgroundClass(tc.text); got != tc.want {
			t.Fatalf("backgroundClass(%q): expected %q got %q", tc.text, tc.want, got)
		}
	}
}

func TestBeaufortScale(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kmph string
		want int
	}{
		{"0", 0},
		{"3", 1},
		{"10", 2},
		{"25", 4},
		{"60", 7},
		{"130", 12},
		{"not-a-number", 0},
		{" 15 ", 3},
	}
	for _, tc := range cases {
		if got := beaufortScale(tc.kmph); got != tc.want {
			t.Fatalf("beaufortScale(%q): expected %d got %d", tc.kmph, tc.want, got)
		}
	}
}
