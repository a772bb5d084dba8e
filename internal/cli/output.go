package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/travel-forecast/internal/storage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// HistoryResult contains data to be output
type HistoryResult struct {
	ListedAt    time.Time        `json:"listed_at"`
	Travels     []storage.Travel `json:"travels"`
	TravelCount int              `json:"travel_count"`
}

// WriteHistory writes recorded travels in the specified format
func WriteHistory(w io.Writer, travels []storage.Travel, format OutputFormat) error {
	result := &HistoryResult{
		ListedAt:    time.Now().UTC(),
		Travels:     travels,
		TravelCount: len(travels),
	}
	if result.Travels == nil {
		result.Travels = []storage.Travel{}
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *HistoryResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text grouped by region
func writeText(w io.Writer, result *HistoryResult) error {
	if result.TravelCount == 0 {
		fmt.Fprintln(w, "No travels recorded yet.")
		return nil
	}

	region := ""
	regions := 0
	for _, t := range result.Travels {
		if t.Region != region || regions == 0 {
			region = t.Region
			regions++
			fmt.Fprintf(w, "\n%s:\n", region)
		}
		fmt.Fprintf(w, "  %s, %s (%s)\n", t.Attraction, t.Destination, t.Coordinates)
	}
	fmt.Fprintf(w, "\nTotal: %d travels\n", result.TravelCount)

	return nil
}
