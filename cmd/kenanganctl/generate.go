package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	var dateFlag string
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the daily scrapbook page for a family",
		RunE: func(cmd *cobra.Command, args []string) error {
			if familyFlag == "" || dateFlag == "" {
				return fmt.Errorf("--family and --date required")
			}
			resp, err := checkResponse(newClient().R().
				SetBody(map[string]string{"familyId": familyFlag, "dateString": dateFlag}).
				Post("/api/scrapbooks/generate"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, resp.String())
			return nil
		},
	}
	generateCmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Calendar day YYYY-MM-DD (required)")
	_ = generateCmd.MarkFlagRequired("date")
	rootCmd.AddCommand(generateCmd)
}
