package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/harish-v07/CreatorHub/internal/gateway"
	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect and deactivate linked accounts",
	}
	cmd.AddCommand(accountsListCmd())
	cmd.AddCommand(accountsSuspendCmd())
	return cmd
}

func accountsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List route linked accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			gw := gateway.NewClient(loadConfig().Gateway)

			accounts, err := gw.ListAccounts(cmd.Context(), gateway.RouteProduct, count)
			if err != nil {
				return err
			}
			printAccounts(cmd.OutOrStdout(), accounts)
			return nil
		},
	}
	cmd.Flags().IntP("count", "n", 100, "Maximum accounts to fetch")
	return cmd
}

func accountsSuspendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suspend [account-id...]",
		Short: "Suspend linked accounts; the gateway cannot delete them",
		Long: `Suspend the given linked accounts, or every route account when --all is set.
Linked accounts cannot be deleted through the gateway API, only suspended.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			yes, _ := cmd.Flags().GetBool("yes")
			out := cmd.OutOrStdout()
			gw := gateway.NewClient(loadConfig().Gateway)

			ids := args
			if all {
				accounts, err := gw.ListAccounts(cmd.Context(), gateway.RouteProduct, 100)
				if err != nil {
					return err
				}
				printAccounts(out, accounts)
				ids = ids[:0]
				for _, acc := range accounts {
					ids = append(ids, acc.ID)
				}
			}
			if len(ids) == 0 {
				return fmt.Errorf("no accounts to suspend")
			}

			if !yes && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Deactivate %d account(s)? (yes/no): ", len(ids))) {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}

			success, failed := 0, 0
			for _, id := range ids {
				acc, err := gw.SuspendAccount(cmd.Context(), id)
				if err != nil {
					fmt.Fprintf(out, "Failed to deactivate %s: %v\n", id, err)
					failed++
					continue
				}
				fmt.Fprintf(out, "Deactivated: %s (%s)\n", acc.ID, displayName(*acc))
				success++
			}

			fmt.Fprintf(out, "\nDone. Deactivated: %d, Failed: %d\n", success, failed)
			return nil
		},
	}
	cmd.Flags().Bool("all", false, "Suspend every route linked account")
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
	return cmd
}

func printAccounts(w io.Writer, accounts []gateway.Account) {
	if len(accounts) == 0 {
		fmt.Fprintln(w, "No linked accounts found.")
		return
	}
	fmt.Fprintf(w, "Found %d linked account(s):\n", len(accounts))
	for i, acc := range accounts {
		fmt.Fprintf(w, "%d. %s - %s (%s)\n", i+1, acc.ID, displayName(acc), acc.Status)
	}
}

func displayName(acc gateway.Account) string {
	if acc.LegalBusinessName != "" {
		return acc.LegalBusinessName
	}
	return acc.Email
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(line), "yes")
}
