package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andyballingall/stacv/internal/schema"
)

func NewResolveCmd(mgr Manager) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "resolve <path|url>",
		Short: "Print the schema locations a STAC document is validated against",
		Args:  cobra.ExactArgs(1),
		Example: `
  stacv resolve ./item.json
  stacv resolve --explain ./item.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := mgr.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			writeResolution(cmd.OutOrStdout(), res, explain)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&explain, "explain", "e", false,
		"Also show the version policy and the extensions that were skipped")

	return cmd
}

func writeResolution(w io.Writer, res schema.Resolution, explain bool) {
	if !explain {
		for _, uri := range res.URIs() {
			fmt.Fprintln(w, uri)
		}
		return
	}

	fmt.Fprintf(w, "stac_version: %s\n", res.Policy.Version)
	fmt.Fprintf(w, "schema root:  %s\n", res.Policy.Root)
	fmt.Fprintf(w, "addressing:   %s\n", res.Policy.Addressing)
	fmt.Fprintln(w, "schemas:")
	for _, loc := range res.Locations {
		source := "core"
		if !loc.IsCore() {
			source = loc.Extension
		}
		fmt.Fprintf(w, "  %s [%s]\n", loc.URI, source)
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(w, "skipped:")
		for _, s := range res.Skipped {
			fmt.Fprintf(w, "  %s (%s)\n", s.Extension, s.Reason)
		}
	}
}
