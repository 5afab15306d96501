package geourl

import (
	"regexp"
	"strconv"
	"strings"
)

// Coords is a parsed map-link coordinate pair.
type Coords struct {
	Latitude  float64
	Longitude float64
}

var coordPatterns = []*regexp.Regexp{
	// Apple Maps: https://maps.apple.com/?coordinate=30.27,-97.74
	regexp.MustCompile(`coordinate=(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)`),
	// Google Maps query: https://maps.google.com/?q=30.27,-97.74
	regexp.MustCompile(`[?&]q=(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)`),
	// Google Maps viewport: https://www.google.com/maps/@30.27,-97.74,15z
	regexp.MustCompile(`@(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)`),
}

var mapHosts = []string{
	"maps.apple.com",
	"maps.google.com",
	"google.com/maps",
	"goo.gl/maps",
}

// Extract scans text for a known map-link coordinate pattern. The second
// return value is false when no parseable pair is present.
func Extract(text string) (Coords, bool) {
	for _, pattern := range coordPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		lat, latErr := strconv.ParseFloat(match[1], 64)
		lng, lngErr := strconv.ParseFloat(match[2], 64)
		if latErr != nil || lngErr != nil {
			continue
		}

		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			continue
		}

		return Coords{Latitude: lat, Longitude: lng}, true
	}

	return Coords{}, false
}

// ContainsMapLink reports whether text mentions a known map provider,
// even if no coordinates can be parsed out of it.
func ContainsMapLink(text string) bool {
	lower := strings.ToLower(text)

	for _, host := range mapHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}

	return false
}
