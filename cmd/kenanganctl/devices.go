package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	devicesCmd := &cobra.Command{Use: "devices", Short: "Device token operations"}

	var token, platform string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a push token for the calling user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--push-token required")
			}
			payload := map[string]string{"token": token}
			if platform != "" {
				payload["platform"] = platform
			}
			resp, err := checkResponse(newClient().R().
				SetBody(payload).
				Post("/api/devices"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, resp.String())
			return nil
		},
	}
	registerCmd.Flags().StringVarP(&token, "push-token", "p", "", "FCM device token (required)")
	registerCmd.Flags().StringVar(&platform, "platform", "", "Device platform (android, ios)")
	_ = registerCmd.MarkFlagRequired("push-token")
	devicesCmd.AddCommand(registerCmd)

	rootCmd.AddCommand(devicesCmd)
}
