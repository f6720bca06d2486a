package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sushihentaime/writeflow/internal/common"
	"github.com/sushihentaime/writeflow/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	migrations string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "wfctl",
		Short:        "Operator tasks for the WriteFlow API",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", ".env", "path to the configuration file")
	root.PersistentFlags().StringVar(&opts.migrations, "migrations", "file://migrations", "migration source URL")

	root.AddCommand(newMigrateCmd(opts), newAdminCmd(opts))

	return root
}

func (o *options) load() (*config.Config, string, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, "", fmt.Errorf("could not load configuration: %w", err)
	}

	dsn := common.PostgresURI(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	return cfg, dsn, nil
}
