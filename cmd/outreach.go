package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/wcpay/gtm-agent/internal/model"
)

var draftPlatform string

var draftCmd = &cobra.Command{
	Use:   "draft <lead-id>",
	Short: "Draft an outreach message for an enriched lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		msg, err := env.Drafter.Draft(cmd.Context(), args[0], model.Platform(draftPlatform))
		if err != nil {
			return err
		}
		return printJSON(msg)
	},
}

var sendForce bool

var sendCmd = &cobra.Command{
	Use:   "send <message-id>",
	Short: "Send a drafted message and schedule its follow-ups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		msg, err := env.Sender.Send(cmd.Context(), args[0], sendForce)
		if err != nil {
			return err
		}
		return printJSON(msg)
	},
}

var followupsProcess bool

var followupsCmd = &cobra.Command{
	Use:   "followups",
	Short: "List due follow-ups, or send them with --process",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		now := time.Now().UTC()
		if followupsProcess {
			results, err := env.Sender.ProcessDue(cmd.Context(), now)
			if err != nil {
				return err
			}
			return printJSON(results)
		}

		due, err := env.Store.ListDueFollowUps(cmd.Context(), now)
		if err != nil {
			return err
		}
		return printJSON(due)
	},
}

func init() {
	draftCmd.Flags().StringVar(&draftPlatform, "platform", "email", "platform: email or linkedin")
	sendCmd.Flags().BoolVar(&sendForce, "force", false, "send even to an inferred, unverified address")
	followupsCmd.Flags().BoolVar(&followupsProcess, "process", false, "send all due follow-ups")
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(followupsCmd)
}
