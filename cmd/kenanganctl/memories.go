package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	memoriesCmd := &cobra.Command{Use: "memories", Short: "Memory record operations"}

	// list
	var dateFlag string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List a family's records for one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if familyFlag == "" || dateFlag == "" {
				return fmt.Errorf("--family and --date required")
			}
			resp, err := checkResponse(newClient().R().
				SetQueryParam("date", dateFlag).
				Get(fmt.Sprintf("/api/families/%s/memories", familyFlag)))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, resp.String())
			return nil
		},
	}
	listCmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Calendar day YYYY-MM-DD (required)")
	_ = listCmd.MarkFlagRequired("date")
	memoriesCmd.AddCommand(listCmd)

	// create
	var content, imageURL string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a memory record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if familyFlag == "" {
				return fmt.Errorf("--family required")
			}
			if content == "" && imageURL == "" {
				return fmt.Errorf("--content or --image required")
			}
			payload := map[string]string{}
			if content != "" {
				payload["content"] = content
			}
			if imageURL != "" {
				payload["imageUrl"] = imageURL
			}
			resp, err := checkResponse(newClient().R().
				SetBody(payload).
				Post(fmt.Sprintf("/api/families/%s/memories", familyFlag)))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, resp.String())
			return nil
		},
	}
	createCmd.Flags().StringVarP(&content, "content", "c", "", "Record text")
	createCmd.Flags().StringVarP(&imageURL, "image", "i", "", "Image URL")
	memoriesCmd.AddCommand(createCmd)

	rootCmd.AddCommand(memoriesCmd)
}
