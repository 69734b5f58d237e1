package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hrnexus/hrnexus-cli/internal/api"
)

var (
	uploadCategory string
	uploadNoWatch  bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document and track its processing",
	Long: `Upload validates the file locally (extension allow-list and size
ceiling), posts it to the backend, and then polls the processing
status until it completes or fails. Use --no-watch to return as soon
as the upload is accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if uploadCategory != "" && !api.ValidPillar(uploadCategory) {
			return fmt.Errorf("unknown category %q (one of: %v)", uploadCategory, api.Pillars)
		}
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := requireLogin(sess); err != nil {
			return err
		}
		client := newClient(sess)
		doc, err := client.UploadDocument(cmd.Context(), path, uploadCategory, uploadPolicy())
		if err != nil {
			return err
		}
		fmt.Printf("✓ Uploaded %s (document %d), processing in background\n", filepath.Base(path), doc.ID)
		if uploadNoWatch {
			return nil
		}

		p := newPoller(client)
		p.Add(doc.ID, doc.OriginalFilename)
		return p.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVarP(&uploadCategory, "category", "c", "", "pillar category tag")
	uploadCmd.Flags().BoolVar(&uploadNoWatch, "no-watch", false, "do not wait for background processing")
}
