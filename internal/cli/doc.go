// Package cli implements the command-line interface for travel-forecast.
//
// The root command runs an interactive session: the user picks a region, a destination
// and an attraction, the attraction is located through its encyclopedia page (or its
// destination when that fails) and the forecast for it is fetched, recorded and shown
// as text and bar charts. Subcommands create the database schema, list recorded
// travels, chart stored forecasts and clear the page cache.
package cli
