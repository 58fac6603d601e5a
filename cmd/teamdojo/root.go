package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dfryer1193/teamdojo/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries what every sub-command needs once flags and config are resolved
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:           "teamdojo",
		Short:         "TeamDojo image and training backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return setupLogging(cfg.Log)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./teamdojo.yaml or /etc/teamdojo/teamdojo.yaml)")
	flags.String("db", "", "SQLite database path")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")
	_ = a.v.BindPFlag("database.path", flags.Lookup("db"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	rootCmd.AddCommand(
		newServeCommand(a),
		newMigrateCommand(a),
	)

	return rootCmd
}

func setupLogging(cfg config.LogConfig) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return nil
}
