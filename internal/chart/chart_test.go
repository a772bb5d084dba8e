package chart

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/travel-forecast/internal/weather"
)

func TestBars(t *testing.T) {
	var buf bytes.Buffer
	err := Bars(&buf, "Temperature", []Bar{
		{Label: "Mon", Value: 50},
		{Label: "Tuesday", Value: 25},
		{Label: "Wed", Value: 0},
	})
	if err != nil {
		t.Fatalf("Bars() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Temperature" {
		t.Errorf("title line = %q", lines[0])
	}

	if got := strings.Count(lines[1], barRune); got != Width {
		t.Errorf("peak bar has %d blocks, want %d", got, Width)
	}
	if got := strings.Count(lines[2], barRune); got != Width/2 {
		t.Errorf("half bar has %d blocks, want %d", got, Width/2)
	}
	if got := strings.Count(lines[3], barRune); got != 0 {
		t.Errorf("zero bar has %d blocks, want 0", got)
	}

	// labels are padded so the axis lines up
	if strings.Index(lines[1], "│") != strings.Index(lines[2], "│") {
		t.Errorf("axis misaligned:\n%s\n%s", lines[1], lines[2])
	}
	if !strings.HasSuffix(lines[2], " 25.0") {
		t.Errorf("value missing from %q", lines[2])
	}
}

func TestBars_SmallValuesVisible(t *testing.T) {
	var buf bytes.Buffer
	if err := Bars(&buf, "Rain", []Bar{{"a", 100}, {"b", 0.5}}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if got := strings.Count(lines[2], barRune); got != 1 {
		t.Errorf("small bar has %d blocks, want 1", got)
	}
}

func TestBars_NegativeValues(t *testing.T) {
	var buf bytes.Buffer
	if err := Bars(&buf, "Cold", []Bar{{"a", -10}, {"b", 5}}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if got := strings.Count(lines[1], barRune); got != Width {
		t.Errorf("negative peak has %d blocks, want %d", got, Width)
	}
	if !strings.HasSuffix(lines[1], "-10.0") {
		t.Errorf("sign missing from %q", lines[1])
	}
}

func TestBars_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Bars(&buf, "Nothing", nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "(no data)") {
		t.Errorf("got %q", buf.String())
	}
}

func TestTemperaturesAndPrecipitation(t *testing.T) {
	records := []weather.Record{
		{Time: time.Date(2020, 4, 16, 13, 0, 0, 0, time.UTC), Temperature: 47.9, PrecipProbability: 0.04},
		{Time: time.Date(2020, 4, 16, 14, 0, 0, 0, time.UTC), Temperature: 49.2, PrecipProbability: 0.55},
	}
	loc := time.FixedZone("CEST", 2*3600)

	temps := Temperatures(records, HourLayout, loc)
	if len(temps) != 2 || temps[0].Label != "Thu 15:00" || temps[1].Value != 49.2 {
		t.Errorf("Temperatures() = %+v", temps)
	}

	rain := Precipitation(records, HourLayout, time.UTC)
	if rain[0].Label != "Thu 13:00" || math.Abs(rain[1].Value-55) > 1e-9 {
		t.Errorf("Precipitation() = %+v", rain)
	}
}

func TestLocation(t *testing.T) {
	if Location("") != time.UTC {
		t.Error("empty name should be UTC")
	}
	if Location("Not/AZone") != time.UTC {
		t.Error("unknown zone should fall back to UTC")
	}
}
