package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <lead-id>",
	Short: "Run the full enrichment pipeline on one lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		lead, err := env.Enricher.Enrich(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJSON(lead)
	},
}

var qualifyIDsFile string

var qualifyCmd = &cobra.Command{
	Use:   "qualify [lead-id...]",
	Short: "Enrich a batch of leads sequentially",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		ids := args
		if qualifyIDsFile != "" {
			fileIDs, err := readIDFile(qualifyIDsFile)
			if err != nil {
				return err
			}
			ids = append(ids, fileIDs...)
		}
		if len(ids) == 0 {
			return cmd.Help()
		}

		results := env.Enricher.Batch(cmd.Context(), ids)

		failed := 0
		for _, r := range results {
			if !r.Success {
				failed++
			}
		}
		if err := printJSON(results); err != nil {
			return err
		}
		if failed > 0 {
			cmd.PrintErrf("%d of %d leads failed\n", failed, len(results))
		}
		return nil
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readIDFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ids = append(ids, line)
		}
	}
	return ids, nil
}

func init() {
	qualifyCmd.Flags().StringVar(&qualifyIDsFile, "file", "", "file with one lead id per line")
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(qualifyCmd)
}
