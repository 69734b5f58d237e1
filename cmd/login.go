package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginEmail == "" || loginPassword == "" {
			return fmt.Errorf("--email and --password are required")
		}
		sess, err := openSession()
		if err != nil {
			return err
		}
		client := newClient(sess)
		tok, err := client.Login(cmd.Context(), loginEmail, loginPassword)
		if err != nil {
			return err
		}
		if err := sess.SaveToken(tok.AccessToken); err != nil {
			return err
		}
		fmt.Printf("✓ Logged in as %s\n", loginEmail)
		if org := sess.OrganizationID(); org != "" {
			fmt.Printf("  organization: %s\n", org)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
}
