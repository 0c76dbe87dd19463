// Package feed loads post titles for batch processing.
package feed

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Post is one title to process, as stored in a JSONL batch file.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Channel     string    `json:"channel"`
	PublishedAt time.Time `json:"published_at"`
}

// LoadFromJSONL loads posts from a JSONL file, skipping malformed lines
// with a warning.
func LoadFromJSONL(path string) ([]Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var posts []Post
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var post Post
		if err := json.Unmarshal([]byte(line), &post); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		if post.Title == "" {
			log.Printf("Warning: skipping post without title at line %d in %s", i+1, path)
			continue
		}
		posts = append(posts, post)
	}

	if len(posts) == 0 {
		return nil, fmt.Errorf("no valid posts found in %s", path)
	}

	return posts, nil
}
