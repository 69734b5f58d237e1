package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	docsCategory string
	docsURLView  bool
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := requireLogin(sess); err != nil {
			return err
		}
		client := newClient(sess)
		docs, err := client.ListDocuments(cmd.Context(), docsCategory)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Println("(no documents)")
			return nil
		}
		for _, d := range docs {
			category := d.Category
			if category == "" {
				category = "-"
			}
			fmt.Printf("%4d  %-40s  %-6s  %8s  %s  %s\n",
				d.ID, d.OriginalFilename, d.FileType, formatSize(d.FileSize),
				d.UploadedAt.Format("2006-01-02 15:04"), category)
		}
		return nil
	},
}

var docsURLCmd = &cobra.Command{
	Use:   "url <id>",
	Short: "Print the browser URL for viewing or downloading a document",
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
		client := newClient(sess)
		if docsURLView {
			fmt.Println(client.ViewURL(id))
		} else {
			fmt.Println(client.DownloadURL(id))
		}
		return nil
	},
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.AddCommand(docsURLCmd)
	docsCmd.Flags().StringVarP(&docsCategory, "category", "c", "", "filter by pillar category")
	docsURLCmd.Flags().BoolVar(&docsURLView, "view", false, "print the inline-view URL instead of the download URL")
}
