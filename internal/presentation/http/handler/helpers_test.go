package handler

import "testing"

func TestToCents(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{1, 100},
		{19.99, 1999}, // float representation must not truncate to 1998
		{0.1, 10},
		{0.07, 7},
		{12345.67, 1234567},
	}

	for _, tc := range cases {
		if got := toCents(tc.in); got != tc.want {
			t.Errorf("toCents(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
