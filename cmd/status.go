package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status [id...]",
	Short: "Show document processing status",
	Long: `With ids, prints the processing status of those documents once.
Without ids, checks every document and reports the ones still in
flight. With --watch, keeps polling in-flight documents until they
all reach a terminal state, picking up uploads from earlier runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := requireLogin(sess); err != nil {
			return err
		}
		client := newClient(sess)
		ctx := cmd.Context()

		if len(args) > 0 {
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid document id %q", arg)
				}
				st, err := client.DocumentStatus(ctx, id)
				if err != nil {
					return err
				}
				if st.Message != "" {
					fmt.Printf("%4d  %-10s  %3d%%  %s\n", id, st.Status, st.Progress, st.Message)
				} else {
					fmt.Printf("%4d  %-10s  %3d%%\n", id, st.Status, st.Progress)
				}
			}
			return nil
		}

		docs, err := client.ListDocuments(ctx, "")
		if err != nil {
			return err
		}
		p := newPoller(client)
		added, err := p.Resume(ctx, docs)
		if err != nil {
			return err
		}
		if added == 0 {
			fmt.Println("✓ No documents are processing")
			return nil
		}
		fmt.Printf("• %d document(s) still processing: %v\n", added, p.Pending())
		if !statusWatch {
			return nil
		}
		return p.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "poll until all in-flight documents finish")
}
