// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

package youtube

import (
	"regexp"
	"strconv"
)

// isoDurationPattern matches the ISO-8601 duration subset the Data API
// emits: an optional day component and an optional time block. Seconds
// may carry a fractional part.
// Examples: PT5M30S, PT1H, PT2H10M, PT1M30.5S, P1DT3H, P0D.
var isoDurationPattern = regexp.MustCompile(
	`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseISODuration converts an ISO-8601 duration string to seconds.
// Returns nil for strings that do not match the API's duration grammar,
// including the empty string. A nil result means "duration unknown" and
// propagates through the pipeline instead of being treated as zero.
func ParseISODuration(s string) *float64 {
	if s == "" || s == "P" || s == "PT" {
		return nil
	}

	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	days := parseComponent(m[1])
	hours := parseComponent(m[2])
	minutes := parseComponent(m[3])
	seconds := parseSeconds(m[4])

	total := float64(days*86400+hours*3600+minutes*60) + seconds
	return &total
}

func parseComponent(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseSeconds handles the seconds component, which unlike the others
// may be fractional.
func parseSeconds(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
