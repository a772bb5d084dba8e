package weather

import (
	"testing"
	"time"

	"github.com/pfrederiksen/travel-forecast/internal/travel"
)

func TestRecords(t *testing.T) {
	forecast, err := Decode([]byte(loadFixture(t)))
	if err != nil {
		t.Fatal(err)
	}

	records := forecast.Records()
	if len(records) != 1+3+2 {
		t.Fatalf("got %d records, want 6", len(records))
	}

	key := forecast.Coordinate().Key()
	counts := make(map[travel.ForecastKind]int)
	for _, r := range records {
		counts[r.Kind]++
		if r.Coordinates != key {
			t.Errorf("record key %q, want %q", r.Coordinates, key)
		}
		if r.Time.Location() != time.UTC {
			t.Errorf("record time %v is not UTC", r.Time)
		}
	}
	if counts[travel.KindCurrent] != 1 || counts[travel.KindHourly] != 3 || counts[travel.KindDaily] != 2 {
		t.Errorf("kind counts = %v", counts)
	}

	current := records[0]
	if current.Kind != travel.KindCurrent || current.Temperature != 48.3 || current.FeelsLike != 45.1 {
		t.Errorf("current record = %+v", current)
	}
	if !current.Time.Equal(time.Unix(1587050000, 0)) {
		t.Errorf("current time = %v", current.Time)
	}

	daily := records[4]
	if daily.Kind != travel.KindDaily || daily.Temperature != 51.4 || daily.FeelsLike != 49.9 {
		t.Errorf("daily record should use highs: %+v", daily)
	}
}

func TestEpochTime(t *testing.T) {
	got := EpochTime(0)
	if !got.Equal(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)) || got.Location() != time.UTC {
		t.Errorf("EpochTime(0) = %v", got)
	}
}
