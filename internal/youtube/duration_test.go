// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

package youtube

import "testing"

func TestParseISODuration(t *testing.T) {
	t.Parallel()

	seconds := func(v float64) *float64 { return &v }

	tests := []struct {
		input    string
		expected *float64
	}{
		{"PT5M30S", seconds(330)},
		{"PT1H", seconds(3600)},
		{"PT1H2M3S", seconds(3723)},
		{"PT45S", seconds(45)},
		{"PT1M30.5S", seconds(90.5)},
		{"PT0.25S", seconds(0.25)},
		{"PT1.5M", nil},
		{"PT0S", seconds(0)},
		{"P1DT2H", seconds(93600)},
		{"P0D", seconds(0)},
		{"PT", nil},
		{"P", nil},
		{"", nil},
		{"5M30S", nil},
		{"PT5X", nil},
		{"garbage", nil},
		{"PT-5M", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := ParseISODuration(tt.input)

			switch {
			case tt.expected == nil && got != nil:
				t.Errorf("ParseISODuration(%q) = %f, want nil", tt.input, *got)
			case tt.expected != nil && got == nil:
				t.Errorf("ParseISODuration(%q) = nil, want %f", tt.input, *tt.expected)
			case tt.expected != nil && got != nil && *got != *tt.expected:
				t.Errorf("ParseISODuration(%q) = %f, want %f", tt.input, *got, *tt.expected)
			}
		})
	}
}
