package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	signupEmail    string
	signupPassword string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if signupEmail == "" || signupPassword == "" {
			return fmt.Errorf("--email and --password are required")
		}
		sess, err := openSession()
		if err != nil {
			return err
		}
		client := newClient(sess)
		tok, err := client.Signup(cmd.Context(), signupEmail, signupPassword)
		if err != nil {
			return err
		}
		if err := sess.SaveToken(tok.AccessToken); err != nil {
			return err
		}
		fmt.Printf("✓ Account created for %s\n", signupEmail)
		fmt.Println("• Check your inbox for the verification email, then run `hrnexus verify <token>`")
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Verify an email address with the emailed token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		client := newClient(sess)
		if err := client.Verify(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("✓ Email verified")
		return nil
	},
}

var resendEmail string

var resendCmd = &cobra.Command{
	Use:   "resend",
	Short: "Re-send the verification email",
	RunE: func(cmd *cobra.Command, args []string) error {
		if resendEmail == "" {
			return fmt.Errorf("--email is required")
		}
		sess, err := openSession()
		if err != nil {
			return err
		}
		client := newClient(sess)
		if err := client.ResendVerification(cmd.Context(), resendEmail); err != nil {
			return err
		}
		fmt.Printf("✓ Verification email re-sent to %s\n", resendEmail)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(resendCmd)
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "account email")
	signupCmd.Flags().StringVarP(&signupPassword, "password", "p", "", "account password")
	resendCmd.Flags().StringVarP(&resendEmail, "email", "e", "", "account email")
}
