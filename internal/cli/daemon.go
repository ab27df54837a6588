package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/statusdeck/statusdeck/internal/config"
	"github.com/statusdeck/statusdeck/internal/db"
	"github.com/statusdeck/statusdeck/internal/events"
	"github.com/statusdeck/statusdeck/internal/logging"
	"github.com/statusdeck/statusdeck/internal/server"
	"github.com/statusdeck/statusdeck/internal/store"
)

// DaemonOptions configures the HTTP daemon.
type DaemonOptions struct {
	Addr    string
	DataDir string
}

// ServeDaemon starts the dashboard API server. Used by cmd/statusdeckd and
// the daemon subcommand.
func ServeDaemon(opts DaemonOptions) error {
	cfg, err := resolveDaemonConfig(opts)
	if err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel)

	st, err := store.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	var audit *events.Writer
	database, err := db.Open(cfg.AuditDB)
	if err != nil {
		log.Warn().Err(err).Msg("audit database unavailable")
	} else {
		defer database.Close()
		if err := database.Migrate(); err != nil {
			log.Warn().Err(err).Msg("audit migration failed")
		} else {
			audit = events.NewWriter(database.DB)
		}
	}

	srv := server.New(st, audit, log, cfg.UploadDir)
	return srv.Run(server.Options{Addr: cfg.Addr})
}

func resolveDaemonConfig(opts DaemonOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	return cfg, nil
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the dashboard API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		return ServeDaemon(DaemonOptions{
			Addr:    os.Getenv("STATUSDECK_ADDR"),
			DataDir: dataDir,
		})
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}
