package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/travel-forecast/internal/storage"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByRegion      SortOrder = "region"
	SortByDestination SortOrder = "destination"
	SortByAttraction  SortOrder = "attraction"
)

// Valid reports whether o is a known sort order
func (o SortOrder) Valid() bool {
	switch o {
	case SortByRegion, SortByDestination, SortByAttraction:
		return true
	}
	return false
}

// sortTravels sorts travels by the requested field, breaking ties with the others
func sortTravels(travels []storage.Travel, order SortOrder) {
	sort.SliceStable(travels, func(i, j int) bool {
		a, b := travels[i], travels[j]
		switch order {
		case SortByDestination:
			return less(a.Destination, b.Destination, a.Attraction, b.Attraction)
		case SortByAttraction:
			return less(a.Attraction, b.Attraction, a.Destination, b.Destination)
		default:
			if !strings.EqualFold(a.Region, b.Region) {
				return strings.ToLower(a.Region) < strings.ToLower(b.Region)
			}
			return less(a.Destination, b.Destination, a.Attraction, b.Attraction)
		}
	})
}

// less compares case-insensitively on the first pair, then the second
func less(a1, b1, a2, b2 string) bool {
	if !strings.EqualFold(a1, b1) {
		return strings.ToLower(a1) < strings.ToLower(b1)
	}
	return strings.ToLower(a2) < strings.ToLower(b2)
}
