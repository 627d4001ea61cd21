package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"z3-dashboard/models"
	"z3-dashboard/services"
	"z3-dashboard/utils"
)

var (
	repFrom     string
	repTo       string
	repYearMin  int
	repYearMax  int
	repKMMin    int
	repKMMax    int
	repPriceMin int
	repPriceMax int
	repSellers  []string
	repSort     string
	repLimit    int
	repBins     int
	repFormat   string
	repNoColor  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the dashboard for the selected filters",
	Long: `Filters the listings and prints key statistics, mean price by model year,
the price distribution, the price trend and the listing table.

Unset filters default to the full range of the loaded data.`,
	Example: `  z3dash report --year-min 1998 --price-max 15000
  z3dash report --seller professionnel --sort price:asc --limit 20
  z3dash report --from 01/01/2024 --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(repFormat)
		if format != "text" && format != "json" && format != "yaml" {
			return fmt.Errorf("invalid --format %q (want text, json or yaml)", repFormat)
		}

		if format != "text" {
			// keep stdout parseable
			logger = utils.NewWriterLogger(cmd.ErrOrStderr(), cfg.Debug)
		}

		o, err := overridesFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		opts, err := optionsFromFlags(cmd.Flags())
		if err != nil {
			return err
		}

		svc, closeFn, err := newDashboardService(cfg, logger)
		if err != nil {
			return err
		}
		defer closeFn()

		d, err := svc.RecomputeWith(cmd.Context(), o, opts)
		if err != nil {
			if errors.Is(err, models.ErrSourceUnavailable) {
				return fmt.Errorf("listings source not found, check CSV_PATH or --csv: %w", err)
			}
			return err
		}
		out := cmd.OutOrStdout()
		return writeDashboard(out, d, format, !repNoColor && isTerminal(out))
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	f := reportCmd.Flags()
	f.StringVar(&repFrom, "from", "", "earliest publication date (DD/MM/YYYY)")
	f.StringVar(&repTo, "to", "", "latest publication date (DD/MM/YYYY)")
	f.IntVar(&repYearMin, "year-min", 0, "minimum model year")
	f.IntVar(&repYearMax, "year-max", 0, "maximum model year")
	f.IntVar(&repKMMin, "km-min", 0, "minimum mileage in km")
	f.IntVar(&repKMMax, "km-max", 0, "maximum mileage in km")
	f.IntVar(&repPriceMin, "price-min", 0, "minimum price in EUR")
	f.IntVar(&repPriceMax, "price-max", 0, "maximum price in EUR")
	f.StringSliceVar(&repSellers, "seller", nil, "seller types to include, comma-separated or repeatable (\"none\" selects nothing)")
	f.StringVar(&repSort, "sort", "", "table sort as field:direction, field one of date, price, mileage, year")
	f.IntVar(&repLimit, "limit", 0, "maximum table rows (0 keeps TABLE_LIMIT)")
	f.IntVar(&repBins, "bins", 0, "price histogram bins (0 keeps HISTOGRAM_BINS)")
	f.StringVarP(&repFormat, "format", "f", "text", "output format: text, json or yaml")
	f.BoolVar(&repNoColor, "no-color", false, "disable ANSI colours")
}

// overridesFromFlags collects the filter flags the user actually set.
func overridesFromFlags(f *pflag.FlagSet) (services.CriteriaOverrides, error) {
	var o services.CriteriaOverrides

	if f.Changed("from") {
		t, err := services.ParseDateArg(repFrom)
		if err != nil {
			return o, fmt.Errorf("--from: %w", err)
		}
		o.From = &t
	}
	if f.Changed("to") {
		t, err := services.ParseDateArg(repTo)
		if err != nil {
			return o, fmt.Errorf("--to: %w", err)
		}
		o.To = &t
	}

	for _, i := range []struct {
		name string
		val  int
		dst  **int
	}{
		{"year-min", repYearMin, &o.YearMin},
		{"year-max", repYearMax, &o.YearMax},
		{"km-min", repKMMin, &o.KMMin},
		{"km-max", repKMMax, &o.KMMax},
		{"price-min", repPriceMin, &o.PriceMin},
		{"price-max", repPriceMax, &o.PriceMax},
	} {
		if f.Changed(i.name) {
			v := i.val
			*i.dst = &v
		}
	}

	if f.Changed("seller") {
		o.Sellers = services.ParseSellers(repSellers)
	}
	return o, nil
}

func optionsFromFlags(f *pflag.FlagSet) (services.PipelineOptions, error) {
	var opts services.PipelineOptions
	if f.Changed("sort") {
		s, err := services.ParseSortOptions(repSort)
		if err != nil {
			return opts, err
		}
		opts.Sort = s
	}
	if repLimit < 0 {
		return opts, fmt.Errorf("--limit must not be negative")
	}
	if repBins < 0 || repBins > services.MaxHistogramBins {
		return opts, fmt.Errorf("--bins must be between 0 and %d", services.MaxHistogramBins)
	}
	opts.TableLimit = repLimit
	opts.HistogramBins = repBins
	return opts, nil
}

func writeDashboard(w io.Writer, d *models.Dashboard, format string, color bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	default:
		services.NewReporter(w, color).Print(d)
		return nil
	}
}

// isTerminal reports whether w is a character device. Anything that is not
// an *os.File, such as a buffer, is treated as not a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
