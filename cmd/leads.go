package main

import (
	"github.com/spf13/cobra"

	"github.com/wcpay/gtm-agent/internal/model"
	"github.com/wcpay/gtm-agent/internal/store"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Manage leads",
}

var (
	listStatus   string
	listCategory string
	listSearch   string
	listLimit    int
)

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		leads, err := env.Store.ListLeads(cmd.Context(), store.LeadFilter{
			Status:   model.LeadStatus(listStatus),
			Category: listCategory,
			Search:   listSearch,
			Limit:    listLimit,
		})
		if err != nil {
			return err
		}
		return printJSON(leads)
	},
}

var leadsGetCmd = &cobra.Command{
	Use:   "get <lead-id>",
	Short: "Show one lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		lead, err := env.Store.GetLead(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(lead)
	},
}

var leadsDeleteCmd = &cobra.Command{
	Use:   "delete <lead-id>...",
	Short: "Delete leads by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		n, err := env.Store.DeleteLeads(cmd.Context(), args)
		if err != nil {
			return err
		}
		cmd.Printf("deleted %d leads\n", n)
		return nil
	},
}

func init() {
	leadsListCmd.Flags().StringVar(&listStatus, "status", "", "filter by pipeline status")
	leadsListCmd.Flags().StringVar(&listCategory, "category", "", "filter by category")
	leadsListCmd.Flags().StringVar(&listSearch, "search", "", "substring match on company and contact")
	leadsListCmd.Flags().IntVar(&listLimit, "limit", 0, "max rows (default 100)")
	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsGetCmd)
	leadsCmd.AddCommand(leadsDeleteCmd)
	rootCmd.AddCommand(leadsCmd)
}
