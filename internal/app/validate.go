package app

import (
	"github.com/spf13/cobra"
)

func NewValidateCmd(mgr Manager) *cobra.Command {
	var verbose bool
	var watch bool
	var failFast bool
	var strictTemporal bool
	var concurrency int
	var mirrors mirrorValue

	cmd := &cobra.Command{
		Use:   "validate <path|glob|url>...",
		Short: "Validate STAC documents against their published schemas",
		Args:  cobra.MinimumNArgs(1),
		Example: `
SINGLE DOCUMENTS
  stacv validate ./catalog.json
  stacv validate https://example.com/stac/collection.json

MANY DOCUMENTS
  stacv validate ./catalog                  - every .json file below the directory
  stacv validate "./catalog/**/item-*.json" - a doublestar glob (quote it)

OFFLINE
  stacv validate --mirror https://schemas.stacspec.org/=./schemas item.json`,
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Report every violation of every schema (default stops at the first failing schema)")
	outputVal := formatValue("text")
	cmd.Flags().VarP(&outputVal, "output", "o", "Output format (text, json)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", true, "Stop at the first invalid document")
	cmd.Flags().BoolVar(&strictTemporal, "strict-temporal", false,
		"Also check that datetime, start_datetime and end_datetime are consistent")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of schemas and files checked in parallel")
	cmd.Flags().Var(&mirrors, "mirror", "Serve schema URLs with this prefix from a local directory (repeatable)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Watch for changes and validate again")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := mgr.Config()
		opts := ValidateOptions{
			Verbose:        verbose,
			Format:         string(outputVal),
			FailFast:       cfg.Validate.FailFast,
			StrictTemporal: cfg.Validate.StrictTemporal,
			Concurrency:    cfg.Validate.Concurrency,
			Mirrors:        mirrors,
			Progress:       string(outputVal) == "text",
		}
		if cmd.Flags().Changed("fail-fast") {
			opts.FailFast = failFast
		}
		if cmd.Flags().Changed("strict-temporal") {
			opts.StrictTemporal = strictTemporal
		}
		if cmd.Flags().Changed("concurrency") {
			if concurrency < 1 {
				return &InvalidFlagError{Flag: "concurrency", Reason: "must be at least 1"}
			}
			opts.Concurrency = concurrency
		}

		noColour, _ := cmd.Flags().GetBool("nocolour")
		opts.UseColour = !noColour

		if watch {
			return mgr.WatchValidation(cmd.Context(), args, opts, nil)
		}
		return mgr.Validate(cmd.Context(), args, opts)
	}

	return cmd
}
