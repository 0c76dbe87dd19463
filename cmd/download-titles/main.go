package main

import (
	"encoding/json"
	"encoding/xml"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// rssFeed covers the RSS 2.0 shape most blog platforms emit.
type rssFeed struct {
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	GUID    string `xml:"guid"`
	PubDate string `xml:"pubDate"`
}

// feedPost is the JSONL format cmd/keytier-run consumes.
type feedPost struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Channel     string    `json:"channel"`
	PublishedAt time.Time `json:"published_at"`
}

func main() {
	var (
		feedURL = flag.String("feed", "", "RSS feed URL (required)")
		out     = flag.String("out", "testdata/posts.jsonl", "Output JSONL path")
		limit   = flag.Int("limit", 100, "Maximum posts to download")
	)
	flag.Parse()

	if *feedURL == "" {
		log.Fatal("--feed required")
	}

	feed, err := fetchFeed(*feedURL)
	if err != nil {
		log.Fatalf("fetch feed: %v", err)
	}

	outFile, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create output file: %v", err)
	}
	defer outFile.Close()

	encoder := json.NewEncoder(outFile)
	downloaded := 0

	for _, item := range feed.Channel.Items {
		if downloaded >= *limit {
			break
		}

		title := strings.TrimSpace(stripHTML(item.Title))
		if title == "" {
			continue
		}

		id := item.GUID
		if id == "" {
			id = item.Link
		}

		post := feedPost{
			ID:          id,
			Title:       title,
			Channel:     feed.Channel.Title,
			PublishedAt: parsePubDate(item.PubDate),
		}
		if err := encoder.Encode(post); err != nil {
			log.Printf("Failed to encode post: %v", err)
			continue
		}
		downloaded++
	}

	log.Printf("Downloaded %d post titles to %s", downloaded, *out)
}

func fetchFeed(url string) (*rssFeed, error) {
	client := &http.Client{Timeout: 20 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

func parsePubDate(s string) time.Time {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// stripHTML extracts the text content of a possibly-marked-up title.
func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to the raw string if parsing fails
		return s
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return sb.String()
}
