package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"skiphire/frontend/skips"
	"skiphire/infrastructure/config"
	"skiphire/infrastructure/pricing"
)

type fetchOptions struct {
	roadLegalOnly  bool
	heavyWasteOnly bool
	sortBy         string
	format         string
	postcode       string
	area           string
}

type sourceFactory func(cfg config.Config) pricing.Source

func main() {
	if err := newRootCmd(defaultSource).Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultSource(cfg config.Config) pricing.Source {
	return pricing.NewClient(cfg.PricingBaseURL, pricing.Location{Postcode: cfg.Postcode, Area: cfg.Area}, cfg.FetchTimeout)
}

func newRootCmd(newSource sourceFactory) *cobra.Command {
	var opts fetchOptions
	cmd := &cobra.Command{
		Use:           "skipfetch",
		Short:         "Fetch skip options for the configured location and print them filtered and sorted",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.postcode != "" {
				cfg.Postcode = opts.postcode
			}
			if opts.area != "" {
				cfg.Area = opts.area
			}
			return run(cmd.Context(), cmd.OutOrStdout(), newSource(cfg), cfg.ImageBaseURL, opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.roadLegalOnly, "road-legal-only", false, "only show skips allowed on the road")
	f.BoolVar(&opts.heavyWasteOnly, "heavy-waste-only", false, "only show skips that accept heavy waste")
	f.StringVar(&opts.sortBy, "sort", string(skips.SortBySize), "sort key: size or price")
	f.StringVar(&opts.format, "format", "table", "output format: table, csv or json")
	f.StringVar(&opts.postcode, "postcode", "", "override PRICING_POSTCODE")
	f.StringVar(&opts.area, "area", "", "override PRICING_AREA")
	return cmd
}

func run(ctx context.Context, out io.Writer, src pricing.Source, imageBaseURL string, opts fetchOptions) error {
	format := strings.ToLower(strings.TrimSpace(opts.format))
	switch format {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	raw, err := src.FetchSkips(ctx)
	if err != nil {
		return fmt.Errorf("fetch skips: %w", err)
	}
	filters := skips.FilterState{
		RoadLegalOnly:  opts.roadLegalOnly,
		HeavyWasteOnly: opts.heavyWasteOnly,
		SortBy:         skips.ParseSortKey(opts.sortBy),
	}
	full := skips.TransformAll(raw, imageBaseURL)
	list := skips.Apply(full, filters)

	switch format {
	case "csv":
		return skips.WriteCSV(out, list)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(skips.SkipsResponse{Total: len(full), Count: len(list), Filters: filters, Skips: list})
	default:
		return writeTable(out, list, len(full), filters)
	}
}

func writeTable(out io.Writer, list []skips.SkipViewModel, total int, filters skips.FilterState) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSIZE\tHIRE\tPRICE\tBREAKDOWN\tROAD\tHEAVY\tCAPACITY")
	for _, s := range list {
		breakdown := s.PriceBeforeVAT + " + " + s.VATAmount + " VAT"
		if s.HasTransportPricing {
			breakdown = s.TransportLabel() + " + " + s.PerTonneLabel()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s bags\n",
			s.ID, s.SizeLabel, s.DaysLabel, s.Price, breakdown,
			yesNo(s.RoadLegal), yesNo(s.HeavyWasteSuitable), s.Capacity.BinBags)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if filters.Active() {
		_, err := fmt.Fprintf(out, "Showing %d of %d skips\n", len(list), total)
		return err
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(out, "No skips available")
		return err
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
