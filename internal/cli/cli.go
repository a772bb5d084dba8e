package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/travel-forecast/internal/cache"
	"github.com/pfrederiksen/travel-forecast/internal/chart"
	"github.com/pfrederiksen/travel-forecast/internal/config"
	"github.com/pfrederiksen/travel-forecast/internal/fetcher"
	"github.com/pfrederiksen/travel-forecast/internal/geo"
	"github.com/pfrederiksen/travel-forecast/internal/logger"
	"github.com/pfrederiksen/travel-forecast/internal/scraper"
	"github.com/pfrederiksen/travel-forecast/internal/storage"
	"github.com/pfrederiksen/travel-forecast/internal/travel"
	"github.com/pfrederiksen/travel-forecast/internal/weather"
)

// ExitError is the process status when a command fails
const ExitError = 1

// envFile holds secrets such as DARKSKY_API_KEY
const envFile = ".env"

var (
	flagConfig  string
	flagVerbose bool
	flagFormat  string
	flagSort    string
	flagKind    string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "travel-forecast",
		Short: "Browse travel attractions and their weather forecast",
		Long: `An interactive tool to browse travel regions, destinations and attractions,
locate an attraction and show its weather forecast.
Pages are cached locally and every forecast is recorded in the database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSession,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ./travel-forecast.yaml)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and print metrics on exit")

	cmd.AddCommand(newInitDBCmd(), newHistoryCmd(), newShowCmd(), newCacheCmd())

	return cmd
}

func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the travel and forecast tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			pool, err := storage.Connect(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer pool.Close()

			if err := storage.Migrate(cmd.Context(), pool); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Database schema ready.")
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded travels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := OutputFormat(strings.ToLower(flagFormat))
			if format != FormatText && format != FormatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
			}
			order := SortOrder(strings.ToLower(flagSort))
			if !order.Valid() {
				return fmt.Errorf("invalid sort order: %s (must be 'region', 'destination' or 'attraction')", flagSort)
			}

			cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			pool, err := storage.Connect(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer pool.Close()

			travels, err := storage.NewRepository(pool).Travels(cmd.Context())
			if err != nil {
				return err
			}
			sortTravels(travels, order)

			return WriteHistory(cmd.OutOrStdout(), travels, format)
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", "region", "Sort by: region, destination or attraction")

	return cmd
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <lat,long>",
		Short: "Chart the stored forecast for recorded coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := travel.ParseKey(args[0])
			if err != nil {
				return err
			}
			kind, err := parseKind(flagKind)
			if err != nil {
				return err
			}

			cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			pool, err := storage.Connect(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer pool.Close()

			records, err := storage.NewRepository(pool).Forecasts(cmd.Context(), coord.Key(), kind)
			if err != nil {
				return err
			}

			return writeStored(cmd.OutOrStdout(), coord, kind, latestPerTime(records))
		},
	}

	cmd.Flags().StringVar(&flagKind, "kind", "daily", "Forecast kind: current, hourly or daily")

	return cmd
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the page cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			store, closeStore, err := openCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := store.Len(cmd.Context())
			if err != nil {
				return fmt.Errorf("counting cache entries: %w", err)
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached pages.\n", n)
			return nil
		},
	})

	return cmd
}

// runSession is the interactive menu
func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, closeStore, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	f := fetcher.New(store, cfg.FetcherOptions())

	client, err := weather.NewClient(f, cfg.Sites.ForecastBaseURL, cfg.APIKey, cfg.DebugFile)
	if err != nil {
		return fmt.Errorf("%w (set %s in the environment or %s)", err, config.APIKeyEnv, envFile)
	}

	pool, err := storage.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	session := NewSession(
		scraper.New(f, cfg.Sites.TravelBaseURL),
		geo.NewResolver(f, cfg.Sites.WikiBaseURL),
		client,
		storage.NewRepository(pool),
		cmd.InOrStdin(),
		cmd.OutOrStdout(),
	)

	err = session.Run(ctx)

	recordCacheSize(context.WithoutCancel(ctx), store)
	if flagVerbose {
		logger.DefaultMetrics().WriteSummary(cmd.ErrOrStderr())
	}

	return err
}

// recordCacheSize publishes the number of cached pages as the cache.entries gauge
func recordCacheSize(ctx context.Context, store cache.Store) {
	n, err := store.Len(ctx)
	if err != nil {
		logger.Warn("could not count cache entries", logger.Fields{"error": err.Error()})
		return
	}
	logger.SetGauge("cache.entries", float64(n))
}

// setup loads configuration and installs the default logger
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig, envFile)
	if err != nil {
		return nil, err
	}

	logger.SetDefault(logger.New(cfg.LogLevel(flagVerbose), cmd.ErrOrStderr()))
	logger.Debug("configuration loaded", cfg.Fields())

	return cfg, nil
}

// openCache opens the configured cache backend. The returned func releases it.
func openCache(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		client, err := cache.ConnectRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewRedisStore(client), func() { _ = client.Close() }, nil
	default:
		store, err := cache.LoadFileStore(cfg.Cache.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("loading cache: %w", err)
		}
		logger.Debug("using file cache", logger.Fields{"path": store.Path()})
		return store, func() {}, nil
	}
}

func parseKind(s string) (travel.ForecastKind, error) {
	for _, k := range []travel.ForecastKind{travel.KindCurrent, travel.KindHourly, travel.KindDaily} {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid kind: %s (must be 'current', 'hourly' or 'daily')", s)
}

func writeStored(w io.Writer, coord travel.Coordinate, kind travel.ForecastKind, records []weather.Record) error {
	title := fmt.Sprintf("%s temperature at %s (°F)", kind, coord.Key())
	layout := chart.HourLayout
	if kind == travel.KindDaily {
		layout = chart.DayLayout
	}
	if err := chart.Bars(w, title, chart.Temperatures(records, layout, time.UTC)); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return chart.Bars(w, "Precipitation probability (%)", chart.Precipitation(records, layout, time.UTC))
}

// latestPerTime keeps the last row recorded for each timestamp. Rows arrive ordered by
// time then insertion, so repeated lookups of one place collapse to the newest values.
func latestPerTime(records []weather.Record) []weather.Record {
	out := make([]weather.Record, 0, len(records))
	for _, r := range records {
		if n := len(out); n > 0 && out[n-1].Time.Equal(r.Time) {
			out[n-1] = r
			continue
		}
		out = append(out, r)
	}
	return out
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
