// Command vitrine serve o backend do site institucional e do painel
// administrativo.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vitrine/config"
	"vitrine/logging"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vitrine",
		Short: "Marketing site backend with an admin content API",
		Long: `vitrine serves the public content API of the website, the contact form,
the AI content generator and the admin CRUD used by the dashboard.

Configuration comes from an optional YAML file (--config) overridden by
VITRINE_* environment variables, e.g. VITRINE_AUTH_MODE=dev.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("VITRINE_CONFIG"), "path to YAML config file")
	root.AddCommand(newServeCmd(), newSeedCmd(), newTokenCmd())
	return root
}

// loadRuntime lê a configuração e monta o logger.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, logger, nil
}
