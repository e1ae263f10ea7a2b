package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/andyballingall/stacv/internal/config"
	"github.com/andyballingall/stacv/internal/fs"
)

// Version is the current version of stacv, set at build time.
var Version = "dev"

// Banner with colour codes.
var Banner = "\033[32m" + `
     _
 ___| |_ __ _  _____   __
/ __| __/ _' |/ __\ \ / /
\__ \ || (_| | (__ \ V /
|___/\__\__,_|\___| \_/
` + "\033[0m"

var LongDescription = `
stacv checks SpatioTemporal Asset Catalog documents (Catalogs, Collections and
Items) against the JSON Schemas published for their stac_version and declared
extensions. It works out which schemas apply, including the older short
extension names, fetches them and reports every place a document falls short.
`

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stdout, stderr io.Writer, envp fs.EnvProvider) *cobra.Command {
	var debug bool
	var noColour bool
	var configPath pathValue

	rootCmd := &cobra.Command{
		Use:           "stacv",
		Short:         "Validate STAC documents against their published JSON Schemas",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          Banner + "\n" + LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				ll.Set(slog.LevelDebug)
			}
			// Skip initialization for help and completion commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			cfg, err := config.Load(string(configPath), envp)
			if err != nil {
				return fmt.Errorf("configuration failed: %w", err)
			}

			logger, closeLog, err := newLogger(stderr, ll, logPath(".", envp))
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}
			if cfg.Source != "" {
				logger.Debug("loaded configuration", "path", cfg.Source)
			}

			lazy.SetInner(NewCLIManager(logger, cfg, stdout, stderr), closeLog)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().VarP(&configPath, "config", "f", "path to stacv.yml (overrides $STACV_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	rootCmd.AddCommand(NewValidateCmd(lazy))
	rootCmd.AddCommand(NewResolveCmd(lazy))
	rootCmd.AddCommand(NewRoundTripCmd(lazy))

	return rootCmd
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
