package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hrnexus/hrnexus-cli/internal/api"
	"github.com/hrnexus/hrnexus-cli/internal/history"
)

var (
	chatFile   string
	chatStream bool
	chatReset  bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask the HR document assistant",
	Long: `Ask a one-shot question, or start an interactive session when no
question is given. The conversation transcript is kept in
~/.hrnexus/chat_history.json and sent along with each question so the
assistant can answer follow-ups; --reset clears it first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := requireLogin(sess); err != nil {
			return err
		}
		transcript, err := history.LoadDefault(logger)
		if err != nil {
			return err
		}
		if chatReset {
			if err := transcript.Clear(); err != nil {
				return err
			}
			fmt.Println("✓ Chat history cleared")
			if len(args) == 0 && chatFile == "" {
				return nil
			}
		}
		client := newClient(sess)

		if len(args) == 1 {
			return askOnce(cmd, client, transcript, args[0])
		}
		return chatREPL(cmd, client, transcript)
	},
}

func askOnce(cmd *cobra.Command, client *api.Client, transcript *history.Transcript, question string) error {
	req := api.ChatRequest{
		Query:          question,
		History:        transcript.ChatHistory(),
		AttachmentPath: chatFile,
	}

	var answer, source string
	if chatStream {
		// Accumulate streamed chunks into one growing answer while
		// echoing them as they arrive.
		var sb strings.Builder
		err := client.ChatStream(cmd.Context(), req, func(chunk api.StreamChunk) {
			fmt.Print(chunk.Chunk)
			sb.WriteString(chunk.Chunk)
			if chunk.Source != "" {
				source = chunk.Source
			}
		})
		fmt.Println()
		if err != nil {
			return err
		}
		answer = sb.String()
	} else {
		resp, err := client.Chat(cmd.Context(), req)
		if err != nil {
			return err
		}
		answer = resp.Answer
		source = resp.Source
		fmt.Println(answer)
	}
	if debug && source != "" {
		fmt.Fprintf(os.Stderr, "(source: %s)\n", source)
	}

	transcript.Append(history.RoleUser, question)
	transcript.Append(history.RoleAssistant, answer)
	return transcript.Save()
}

func chatREPL(cmd *cobra.Command, client *api.Client, transcript *history.Transcript) error {
	fmt.Println("HR assistant. Type a question, or \"exit\" to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}
		if err := askOnce(cmd, client, transcript, question); err != nil {
			// Keep the session alive on a failed question.
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
		// An attachment only applies to the first question asked.
		chatFile = ""
	}
	return scanner.Err()
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatFile, "file", "f", "", "attach a document to ingest before answering")
	chatCmd.Flags().BoolVar(&chatStream, "stream", false, "stream the answer as it is generated")
	chatCmd.Flags().BoolVar(&chatReset, "reset", false, "clear the stored chat history first")
}
