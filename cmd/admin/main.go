package main

import (
	"fmt"
	"os"

	"github.com/harish-v07/CreatorHub/internal/config"
	"github.com/harish-v07/CreatorHub/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "creatorhub-admin",
		Short:         "Operational commands for CreatorHub payments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(accountsCmd())
	rootCmd.AddCommand(kycRetryCmd())
	rootCmd.AddCommand(verifyCmd())

	return rootCmd
}

func loadConfig() *config.Config {
	cfg := config.Load()
	logger.Init(cfg.Log)
	return cfg
}
