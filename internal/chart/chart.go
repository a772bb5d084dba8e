// Package chart draws horizontal bar charts as plain text.
package chart

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/travel-forecast/internal/weather"
)

// Width is the length of the longest bar in characters
const Width = 40

const (
	barRune    = "█"
	HourLayout = "Mon 15:04"
	DayLayout  = "Mon 02 Jan"
)

// Bar is one labelled value
type Bar struct {
	Label string
	Value float64
}

// Bars writes title followed by one line per bar. Bars are scaled against the largest
// absolute value; a non-zero value always gets at least one block.
func Bars(w io.Writer, title string, bars []Bar) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(bars) == 0 {
		_, err := fmt.Fprintln(w, "  (no data)")
		return err
	}

	labelWidth := 0
	peak := 0.0
	for _, b := range bars {
		labelWidth = max(labelWidth, utf8.RuneCountInString(b.Label))
		peak = max(peak, math.Abs(b.Value))
	}

	for _, b := range bars {
		n := 0
		if peak > 0 {
			n = int(math.Round(math.Abs(b.Value) / peak * Width))
			if n == 0 && b.Value != 0 {
				n = 1
			}
		}
		pad := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(b.Label))
		if _, err := fmt.Fprintf(w, "  %s%s │%s %.1f\n", b.Label, pad, strings.Repeat(barRune, n), b.Value); err != nil {
			return err
		}
	}

	return nil
}

// Temperatures turns forecast records into temperature bars labelled in loc
func Temperatures(records []weather.Record, layout string, loc *time.Location) []Bar {
	bars := make([]Bar, 0, len(records))
	for _, r := range records {
		bars = append(bars, Bar{Label: r.Time.In(loc).Format(layout), Value: r.Temperature})
	}
	return bars
}

// Precipitation turns forecast records into precipitation probability bars, in percent
func Precipitation(records []weather.Record, layout string, loc *time.Location) []Bar {
	bars := make([]Bar, 0, len(records))
	for _, r := range records {
		bars = append(bars, Bar{Label: r.Time.In(loc).Format(layout), Value: r.PrecipProbability * 100})
	}
	return bars
}

// Location loads a forecast timezone, falling back to UTC when it is unknown
func Location(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
