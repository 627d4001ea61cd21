package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"z3-dashboard/config"
	"z3-dashboard/services"
	"z3-dashboard/storage"
	"z3-dashboard/utils"
)

var (
	// Global flags (override .env / environment if set)
	flagSource string
	flagCSV    string
	debug      bool

	// Loaded configuration
	cfg    *config.Config
	logger *utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "z3dash",
	Short: "BMW Z3 listings dashboard",
	Long: `z3dash loads BMW Z3 sale listings from a CSV file or PostgreSQL table,
filters them and reports key statistics, mean price by model year, the price
distribution and a linear price trend.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "listing source: csv or postgres (overrides DATA_SOURCE)")
	rootCmd.PersistentFlags().StringVar(&flagCSV, "csv", "", "path to the listings CSV (overrides CSV_PATH)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	cfg = config.Load()

	f := rootCmd.PersistentFlags()
	if f.Changed("source") {
		cfg.DataSource = flagSource
	}
	if f.Changed("csv") {
		cfg.CSVPath = flagCSV
	}
	if f.Changed("debug") {
		cfg.Debug = debug
	}

	logger = utils.NewLogger(cfg.Debug)
}

// openSource builds the configured listing source. The returned func closes
// any connection it holds.
func openSource(c *config.Config, l *utils.Logger) (storage.ListingSource, func(), error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	switch c.DataSource {
	case config.SourcePostgres:
		pg, err := storage.NewPostgresSource(c.DSN(), c.PostgresTable, c.MaxRetries, l)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { pg.Close() }, nil
	default:
		return storage.NewCSVSource(c.CSVPath, l), func() {}, nil
	}
}

// newDashboardService wires the source, cache and pipeline from c.
func newDashboardService(c *config.Config, l *utils.Logger) (*services.DashboardService, func(), error) {
	src, closeFn, err := openSource(c, l)
	if err != nil {
		return nil, nil, err
	}
	svc := services.NewDashboardService(src, storage.NewCache(), services.PipelineOptions{
		HistogramBins: c.HistogramBins,
		Sort:          services.DefaultSortOptions(),
		TableLimit:    c.TableLimit,
	}, l)
	l.Debug("[config] source=%s bins=%d limit=%d", src.Key(), c.HistogramBins, c.TableLimit)
	return svc, closeFn, nil
}
