package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/travel-forecast/internal/chart"
	"github.com/pfrederiksen/travel-forecast/internal/logger"
	"github.com/pfrederiksen/travel-forecast/internal/menu"
	"github.com/pfrederiksen/travel-forecast/internal/scraper"
	"github.com/pfrederiksen/travel-forecast/internal/storage"
	"github.com/pfrederiksen/travel-forecast/internal/travel"
	"github.com/pfrederiksen/travel-forecast/internal/weather"
)

// Catalog lists what can be browsed on the travel site
type Catalog interface {
	Regions(ctx context.Context) (*scraper.Extraction[travel.Region], error)
	Destinations(ctx context.Context, region travel.Region) (*scraper.Extraction[travel.Destination], error)
	Attractions(ctx context.Context, dest travel.Destination) (*scraper.Extraction[travel.Attraction], error)
}

// Locator finds coordinates for a selection
type Locator interface {
	ResolveSelection(ctx context.Context, sel travel.Selection) (travel.Selection, error)
}

// Forecaster requests a forecast for a coordinate
type Forecaster interface {
	RequestForecast(ctx context.Context, coord travel.Coordinate) (*weather.Forecast, error)
}

// Recorder persists travels and their forecasts
type Recorder interface {
	RecordTravel(ctx context.Context, payload *weather.Forecast, region, destination, attraction string) error
	RecordForecast(ctx context.Context, payload *weather.Forecast) (int, error)
}

// forecastViews are the numbered choices of the forecast menu
var forecastViews = []string{
	"Current conditions",
	"Hourly temperature",
	"Daily temperature",
	"Precipitation probability",
}

// Session is one interactive run of the menu
type Session struct {
	catalog    Catalog
	locator    Locator
	forecaster Forecaster
	recorder   Recorder

	in  *bufio.Scanner
	out io.Writer
	nav *menu.Navigator

	regions      []travel.Region
	destinations []travel.Destination
	attractions  []travel.Attraction

	selection travel.Selection
	forecast  *weather.Forecast
}

// NewSession creates a session reading choices from in and writing menus to out
func NewSession(catalog Catalog, locator Locator, forecaster Forecaster, recorder Recorder, in io.Reader, out io.Writer) *Session {
	return &Session{
		catalog:    catalog,
		locator:    locator,
		forecaster: forecaster,
		recorder:   recorder,
		in:         bufio.NewScanner(in),
		out:        out,
		nav:        menu.New(),
	}
}

// Run drives the menu until the user exits or input ends
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		options, err := s.show(ctx)
		if err != nil {
			return err
		}
		s.nav.SetOptions(options)

		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}

		state := s.nav.State()
		action := s.nav.Handle(s.in.Text())

		switch action.Kind {
		case menu.ActionExit:
			fmt.Fprintln(s.out, "Goodbye.")
			return nil
		case menu.ActionInvalid:
			fmt.Fprintf(s.out, "Invalid choice: %s\n", action.Message)
		case menu.ActionBack:
			// the previous screen is redrawn from what was already loaded
		case menu.ActionSelect:
			s.choose(ctx, state, action.Index)
		}
	}
}

// show prints the current screen and returns the number of options on it
func (s *Session) show(ctx context.Context) (int, error) {
	switch s.nav.State() {
	case menu.Regions:
		if s.regions == nil {
			ext, err := s.catalog.Regions(ctx)
			if err != nil {
				return 0, err
			}
			s.regions = ext.Items
		}
		names := make([]string, len(s.regions))
		for i, r := range s.regions {
			names[i] = r.Name
		}
		s.list("Regions", names)
		return len(names), nil

	case menu.Destinations:
		if s.destinations == nil {
			ext, err := s.catalog.Destinations(ctx, s.selection.Region)
			if err != nil {
				return s.retreat(ctx, err, menu.Regions)
			}
			s.destinations = ext.Items
		}
		names := make([]string, len(s.destinations))
		for i, d := range s.destinations {
			names[i] = d.Name
		}
		s.list("Destinations in "+s.selection.Region.Name, names)
		return len(names), nil

	case menu.Attractions:
		if s.attractions == nil {
			ext, err := s.catalog.Attractions(ctx, s.selection.Destination)
			if err != nil {
				return s.retreat(ctx, err, menu.Destinations)
			}
			s.attractions = ext.Items
		}
		names := make([]string, len(s.attractions))
		for i, a := range s.attractions {
			names[i] = a.Name
		}
		s.list("Attractions in "+s.selection.Destination.Name, names)
		return len(names), nil

	default:
		s.list("Forecast for "+s.selection.Location(), forecastViews)
		return len(forecastViews), nil
	}
}

// retreat reports a failed page load and redraws target instead
func (s *Session) retreat(ctx context.Context, err error, target menu.State) (int, error) {
	if ctx.Err() != nil {
		return 0, err
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
	logger.Error("loading menu failed", logger.Fields{"state": s.nav.State().String()}, err)
	s.nav.ReturnTo(target)
	return s.show(ctx)
}

func (s *Session) list(title string, names []string) {
	fmt.Fprintf(s.out, "\n%s\n", title)
	if len(names) == 0 {
		fmt.Fprintln(s.out, "  (nothing found)")
	}
	for i, name := range names {
		fmt.Fprintf(s.out, "  %2d. %s\n", i+1, name)
	}
	if s.nav.Depth() > 0 {
		fmt.Fprintf(s.out, "Enter a number, '%s' or '%s'.\n", menu.CommandBack, menu.CommandExit)
	} else {
		fmt.Fprintf(s.out, "Enter a number or '%s'.\n", menu.CommandExit)
	}
}

// choose applies a selection made in state
func (s *Session) choose(ctx context.Context, state menu.State, index int) {
	switch state {
	case menu.Regions:
		s.selection = travel.Selection{Region: s.regions[index]}
		s.destinations = nil
	case menu.Destinations:
		s.selection.Destination = s.destinations[index]
		s.selection.Attraction = travel.Attraction{}
		s.attractions = nil
	case menu.Attractions:
		s.selection.Attraction = s.attractions[index]
		if err := s.prepareForecast(ctx); err != nil {
			fmt.Fprintf(s.out, "Could not get a forecast for %s: %v\n", s.selection.Attraction.Name, err)
			logger.Error("forecast failed", logger.Fields{
				"attraction":  s.selection.Attraction.Name,
				"destination": s.selection.Destination.Name,
			}, err)
			s.forecast = nil
			s.nav.ReturnTo(menu.Destinations)
		}
	case menu.ForecastMenu:
		if err := s.view(index); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

// prepareForecast locates the selection, fetches its forecast and records both
func (s *Session) prepareForecast(ctx context.Context) error {
	sel, err := s.locator.ResolveSelection(ctx, s.selection)
	if err != nil {
		return fmt.Errorf("locating %s: %w", s.selection.Attraction.Name, err)
	}
	s.selection = sel
	if sel.Fallback {
		fmt.Fprintf(s.out, "No coordinates found for %s, showing the forecast for %s.\n",
			sel.Attraction.Name, sel.Destination.Name)
	}

	forecast, err := s.forecaster.RequestForecast(ctx, sel.Coordinate)
	if err != nil {
		return err
	}

	err = s.recorder.RecordTravel(ctx, forecast, sel.Region.Name, sel.Destination.Name, sel.Location())
	switch {
	case errors.Is(err, storage.ErrTravelExists):
		fmt.Fprintf(s.out, "You have looked up %s before.\n", sel.Location())
	case err != nil:
		return err
	}

	n, err := s.recorder.RecordForecast(ctx, forecast)
	if err != nil {
		return err
	}
	logger.Debug("forecast recorded", logger.Fields{"coordinates": forecast.Coordinate().Key(), "rows": n})

	s.forecast = forecast
	return nil
}

// view renders one of the forecast menu choices
func (s *Session) view(index int) error {
	f := s.forecast
	loc := chart.Location(f.Timezone)
	records := f.Records()

	switch index {
	case 0:
		return writeCurrent(s.out, s.selection, f)
	case 1:
		return chart.Bars(s.out, "Hourly temperature (°F)",
			chart.Temperatures(ofKind(records, travel.KindHourly), chart.HourLayout, loc))
	case 2:
		return chart.Bars(s.out, "Daily high temperature (°F)",
			chart.Temperatures(ofKind(records, travel.KindDaily), chart.DayLayout, loc))
	case 3:
		return chart.Bars(s.out, "Hourly precipitation probability (%)",
			chart.Precipitation(ofKind(records, travel.KindHourly), chart.HourLayout, loc))
	default:
		return fmt.Errorf("unknown view %d", index+1)
	}
}

func ofKind(records []weather.Record, kind travel.ForecastKind) []weather.Record {
	var out []weather.Record
	for _, r := range records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func writeCurrent(w io.Writer, sel travel.Selection, f *weather.Forecast) error {
	c := f.Currently
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", sel.Info())
	fmt.Fprintf(&b, "  Coordinates:   %s\n", f.Coordinate().Key())
	fmt.Fprintf(&b, "  Observed:      %s\n", weather.EpochTime(c.Time).In(chart.Location(f.Timezone)).Format("Mon 02 Jan 15:04 MST"))
	fmt.Fprintf(&b, "  Summary:       %s\n", c.Summary)
	fmt.Fprintf(&b, "  Temperature:   %.1f°F (feels like %.1f°F)\n", c.Temperature, c.ApparentTemperature)
	fmt.Fprintf(&b, "  Humidity:      %.0f%%\n", c.Humidity*100)
	fmt.Fprintf(&b, "  Wind speed:    %.1f mph\n", c.WindSpeed)
	fmt.Fprintf(&b, "  Precipitation: %.0f%%\n", c.PrecipProbability*100)
	if f.Hourly.Summary != "" {
		fmt.Fprintf(&b, "  Next hours:    %s\n", f.Hourly.Summary)
	}
	if f.Daily.Summary != "" {
		fmt.Fprintf(&b, "  This week:     %s\n", f.Daily.Summary)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
