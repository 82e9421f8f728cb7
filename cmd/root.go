package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "gtm-agent",
	Short: "Sales lead enrichment and outreach pipeline",
	Long:  "Enriches B2B leads with web research and model calls, drafts outreach, and works the follow-up schedule for WalletConnect Pay.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional, real deployments use the environment.
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
