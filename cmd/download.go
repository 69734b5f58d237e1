package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var downloadOutput string

var downloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid document id %q", args[0])
		}
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := requireLogin(sess); err != nil {
			return err
		}
		client := newClient(sess)

		out := downloadOutput
		if out == "" {
			out = fmt.Sprintf("document-%d", id)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		if err := client.DownloadDocument(cmd.Context(), id, f); err != nil {
			_ = os.Remove(out)
			return err
		}
		fmt.Printf("✓ Saved document %d to %s\n", id, out)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid document id %q", args[0])
		}
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := requireLogin(sess); err != nil {
			return err
		}
		client := newClient(sess)
		if err := client.DeleteDocument(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("✓ Document %d deleted\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(rmCmd)
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output path (default document-<id>)")
}
