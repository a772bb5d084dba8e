// Package travel defines the core data types shared across the travel-forecast tool.
//
// Regions, destinations and attractions are scraped from the travel site and linked to
// each other only by the order in which the user navigates them. A Coordinate is the
// decimal latitude/longitude pair that joins travel metadata to forecast data; its Key
// is the canonical "lat,long" string used for the forecast request and both tables.
package travel
