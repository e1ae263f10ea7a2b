package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRoundTripCmd(mgr Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip <path|url>",
		Short: "Decode a STAC document and print its canonical encoding",
		Long: `Decode a STAC document into its typed form and encode it again.
Every field is kept, including ones stacv does not know about, so the output
is the same JSON value as the input with keys in canonical order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := mgr.RoundTrip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
