package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	familiesCmd := &cobra.Command{Use: "families", Short: "Family operations"}

	var name, members string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a family",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name required")
			}
			var memberIDs []string
			if members != "" {
				memberIDs = strings.Split(members, ",")
			}
			resp, err := checkResponse(newClient().R().
				SetBody(map[string]interface{}{"name": name, "memberIds": memberIDs}).
				Post("/api/families"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, resp.String())
			return nil
		},
	}
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Family name (required)")
	createCmd.Flags().StringVarP(&members, "members", "m", "", "Comma-separated member user IDs")
	_ = createCmd.MarkFlagRequired("name")
	familiesCmd.AddCommand(createCmd)

	getCmd := &cobra.Command{
		Use:   "get FAMILY_ID",
		Short: "Get a family by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := checkResponse(newClient().R().
				Get(fmt.Sprintf("/api/families/%s", args[0])))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, resp.String())
			return nil
		},
	}
	familiesCmd.AddCommand(getCmd)

	rootCmd.AddCommand(familiesCmd)
}
