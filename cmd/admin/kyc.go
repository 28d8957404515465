package main

import (
	"fmt"

	"github.com/harish-v07/CreatorHub/internal/database"
	"github.com/harish-v07/CreatorHub/internal/event"
	"github.com/harish-v07/CreatorHub/internal/gateway"
	"github.com/harish-v07/CreatorHub/internal/logic"
	"github.com/harish-v07/CreatorHub/internal/repository"
	"github.com/harish-v07/CreatorHub/internal/task"
	"github.com/spf13/cobra"
)

func kycRetryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kyc-retry",
		Short: "Re-submit stakeholder details for creators whose KYC submission failed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			db, err := database.Init(cfg.Database)
			if err != nil {
				return err
			}

			profiles := repository.NewProfileRepository(db)
			linked := logic.NewLinkedAccountLogic(gateway.NewClient(cfg.Gateway), profiles, nil, event.NopPublisher{}, cfg.Provisioning)

			submitted, failed, err := task.NewKYCRetryJob(profiles, linked, 0).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "KYC submitted: %d, failed: %d\n", submitted, failed)
			return nil
		},
	}
}
