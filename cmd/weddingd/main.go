package main

import (
	"fmt"
	"os"
	"path/filepath"

	"weddingsite/config"
	"weddingsite/db"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	root := &cobra.Command{
		Use:   "weddingd",
		Short: "Wedding invitation site with RSVP collection",
		Long: `weddingd serves the bilingual wedding invitation page, collects RSVPs
and exposes the admin API used to edit the site content.

Settings come from flags, WEDDING_* environment variables (plus ADMIN_PASSWORD
and DATABASE_URL) and an optional config file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg

			zcfg := zap.NewProductionConfig()
			if cfg.Verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			a.logger, err = zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Config file (yaml, json or toml)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("db-driver", db.DriverSQLite, "Database driver: sqlite or postgres")
	flags.String("db-dsn", "", "Postgres DSN (or DATABASE_URL)")
	flags.String("db-path", "data/wedding.db", "SQLite database file")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newMigrateCmd(a))
	root.AddCommand(newSeedCmd(a))
	return root
}

// openStore opens the configured database. gorm's own logging is silenced;
// store failures are logged by callers.
func (a *app) openStore() (*db.SQLStore, error) {
	if a.cfg.DBDriver == db.DriverSQLite {
		if dir := filepath.Dir(a.cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}
	a.logger.Sugar().Infof("db: using %s %s", a.cfg.DBDriver, a.cfg.LogDSN())
	gormDB, err := db.OpenGorm(a.cfg.DBDriver, a.cfg.DSN(), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return db.NewSQLStore(gormDB), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
