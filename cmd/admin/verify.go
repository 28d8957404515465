package main

import (
	"fmt"
	"time"

	"github.com/harish-v07/CreatorHub/internal/checkout"
	"github.com/spf13/cobra"
)

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-payment",
		Short: "Check a checkout signature against a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, _ := cmd.Flags().GetString("server")
			orderID, _ := cmd.Flags().GetString("order")
			paymentID, _ := cmd.Flags().GetString("payment")
			sig, _ := cmd.Flags().GetString("signature")

			v := checkout.NewRemoteVerifier(server, 10*time.Second)
			if err := v.Verify(cmd.Context(), orderID, paymentID, sig); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Payment verified successfully")
			return nil
		},
	}
	cmd.Flags().String("server", "http://localhost:8080", "Payments server base URL")
	cmd.Flags().String("order", "", "Gateway order id")
	cmd.Flags().String("payment", "", "Gateway payment id")
	cmd.Flags().String("signature", "", "Checkout signature")
	cmd.MarkFlagRequired("order")
	cmd.MarkFlagRequired("payment")
	cmd.MarkFlagRequired("signature")
	return cmd
}
