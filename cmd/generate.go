package main

import (
	"github.com/spf13/cobra"

	"github.com/wcpay/gtm-agent/internal/leadgen"
)

var (
	generateTitles  string
	generatePersist bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <company profile>",
	Short: "Generate prospective leads from a market profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		leads, err := env.Generator.Generate(cmd.Context(), leadgen.Request{
			Profile: args[0],
			Titles:  generateTitles,
			Persist: generatePersist,
		})
		if err != nil {
			return err
		}
		return printJSON(leads)
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateTitles, "titles", "CEO, CFO, Head of Payments", "comma-separated decision-maker titles")
	generateCmd.Flags().BoolVar(&generatePersist, "persist", false, "write generated leads to the store")
	rootCmd.AddCommand(generateCmd)
}
