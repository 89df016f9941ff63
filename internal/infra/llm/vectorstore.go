package llm

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var kbExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".pdf":  true,
	".html": true,
	".csv":  true,
	".json": true,
	".docx": true,
}

// BuildKnowledgeBase uploads every supported file under dir, creates a
// vector store named name, attaches the files as a batch and returns the
// vector store id.
func (c *Client) BuildKnowledgeBase(ctx context.Context, dir, name string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read knowledge dir: %w", err)
	}

	var fileIDs []string
	for _, entry := range entries {
		if entry.IsDir() || !kbExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		uploaded, err := c.api.CreateFile(ctx, openai.FileRequest{
			FileName: entry.Name(),
			FilePath: filepath.Join(dir, entry.Name()),
			Purpose:  "assistants",
		})
		if err != nil {
			return "", fmt.Errorf("upload %s: %w", entry.Name(), err)
		}
		log.Printf("uploaded %s -> %s", entry.Name(), uploaded.ID)
		fileIDs = append(fileIDs, uploaded.ID)
	}
	if len(fileIDs) == 0 {
		return "", fmt.Errorf("no knowledge files found in %s", dir)
	}

	store, err := c.api.CreateVectorStore(ctx, openai.VectorStoreRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("create vector store: %w", err)
	}
	if _, err := c.api.CreateVectorStoreFileBatch(ctx, store.ID, openai.VectorStoreFileBatchRequest{FileIDs: fileIDs}); err != nil {
		return "", fmt.Errorf("attach files: %w", err)
	}
	return store.ID, nil
}
