// Command bloodbank runs the blood bank API and its maintenance tasks.
//
//	@title			Blood Bank API
//	@version		1.0
//	@description	Hospital-scoped blood requests, recipients and reference data.
//	@BasePath		/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/bloodbank-backend/internal/config"
	"github.com/tbourn/bloodbank-backend/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// app carries what every subcommand needs once the root has loaded it.
type app struct {
	cfg config.Config
	log zerolog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var envFile string

	rootCmd := &cobra.Command{
		Use:          "bloodbank",
		Short:        "Blood Bank API server",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(envFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(migrateCmd(a))
	rootCmd.AddCommand(hospitalCmd(a))
	return rootCmd
}

// load reads the optional dotenv file, the configuration and sets up logging.
// Variables already present in the environment win over the file.
func (a *app) load(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg

	sysutil.SetLogLevel(cfg.LogLevel)
	a.log = sysutil.NewLogger(os.Stderr, cfg.LogPretty, cfg.OTEL.ServiceName, version)
	log.Logger = a.log
	return nil
}
