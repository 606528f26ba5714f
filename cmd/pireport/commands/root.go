package commands

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pireport/internal/aggregate"
	"pireport/internal/config"
	"pireport/internal/logging"
	"pireport/internal/mutate"
	"pireport/internal/registry"
	"pireport/internal/remote"
	"pireport/internal/resolve"
	"pireport/internal/rpc"
	"pireport/internal/store"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "pireport",
	Short: "pireport is a scoped override resolution server for performance-indicator reporting",
	Long: `A reporting backend that resolves performance-indicator templates per unit and year,
layering stored overrides over base templates, and serves resolution and mutation
operations over a stdio JSON-RPC loop.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("pireport starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		reg := registry.New()
		if cfg.SeedOverlay {
			if _, statErr := os.Stat(cfg.SeedsDir); statErr == nil {
				if err := reg.LoadDir(cfg.SeedsDir); err != nil {
					log.Warn().Err(err).Str("dir", cfg.SeedsDir).Msg("Seed overlay failed, continuing with built-in templates")
				}
			}
		}

		resolver := resolve.New(st, reg)
		engine := aggregate.New(resolver)
		mutator := mutate.New(st, resolver)

		log.Info().Str("backend", cfg.StoreBackend).Msg("RPC server starting stdio loop")
		return rpc.NewServer(resolver, engine, mutator, st).Serve()
	},
}

// openStore selects the override backend. Unknown values fall back to
// sqlite so a typo cannot silently produce a volatile store.
func openStore(cfg *config.AppConfig) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.OpenMemoryStore(cfg.SnapshotPath)
	case config.BackendRemote:
		return remote.New(cfg.Remote), nil
	case config.BackendSQLite:
		return store.OpenSQLiteStore(cfg.SQLitePath)
	default:
		log.Warn().Str("backend", cfg.StoreBackend).Msg("Unknown store backend, using sqlite")
		return store.OpenSQLiteStore(cfg.SQLitePath)
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
