package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrUnavailable means no coordinate could be obtained for a location
var ErrUnavailable = errors.New("coordinates unavailable")

const (
	degreeMark = "°"
	minuteMark = "′"
	secondMark = "″"
)

// Hemisphere letters accepted for each axis
const (
	Latitude  = "NS"
	Longitude = "EW"
)

// ParseDMS converts text of the form D°M′S″H into decimal degrees.
// Seconds may be absent or non-numeric, in which case they count as zero.
// N and E are positive, S and W negative.
func ParseDMS(text string) (float64, error) {
	return ParseAxis(text, Latitude+Longitude)
}

// ParseAxis is ParseDMS restricted to the hemisphere letters in hemispheres, so a
// latitude ending in E or W is rejected.
func ParseAxis(text, hemispheres string) (float64, error) {
	text = strings.TrimSpace(text)

	hemisphere, size := utf8.DecodeLastRuneInString(text)
	if !strings.ContainsRune(hemispheres, hemisphere) {
		return 0, fmt.Errorf("%w: no %s hemisphere in %q", ErrUnavailable, hemispheres, text)
	}
	sign := 1.0
	if hemisphere == 'S' || hemisphere == 'W' {
		sign = -1
	}
	body := text[:len(text)-size]

	degText, rest, ok := strings.Cut(body, degreeMark)
	if !ok {
		return 0, fmt.Errorf("%w: no degrees in %q", ErrUnavailable, text)
	}
	minText, rest, ok := strings.Cut(rest, minuteMark)
	if !ok {
		return 0, fmt.Errorf("%w: no minutes in %q", ErrUnavailable, text)
	}
	secText, _, _ := strings.Cut(rest, secondMark)

	degrees, err := parseComponent(degText)
	if err != nil {
		return 0, fmt.Errorf("%w: degrees in %q", ErrUnavailable, text)
	}
	minutes, err := parseComponent(minText)
	if err != nil {
		return 0, fmt.Errorf("%w: minutes in %q", ErrUnavailable, text)
	}
	seconds, err := parseComponent(secText)
	if err != nil {
		seconds = 0
	}

	return sign * (degrees + minutes/60 + seconds/3600), nil
}

func parseComponent(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative component %q", s)
	}
	return v, nil
}
