package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mechina-chat-service/internal/infra/llm"
)

// NewBuildKBCmd uploads the knowledge directory into an OpenAI vector
// store and prints the id to put in the environment.
func NewBuildKBCmd() *cobra.Command {
	var dir, name string
	cmd := &cobra.Command{
		Use:   "build-kb",
		Short: "Upload knowledge files into an OpenAI vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := os.Getenv("OPENAI_API_KEY")
			if apiKey == "" {
				return fmt.Errorf("OPENAI_API_KEY is not set")
			}
			client := llm.NewClient(apiKey, "")
			id, err := client.BuildKnowledgeBase(cmd.Context(), dir, name)
			if err != nil {
				return err
			}
			fmt.Printf("VECTOR_STORE_ID=%s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "knowledge", "directory of knowledge files")
	cmd.Flags().StringVar(&name, "name", "mechina-volunteering-kb", "vector store name")
	return cmd
}
