package config

import "strings"

// SourcePresets maps friendly names to section index URLs
var SourcePresets = map[string]string{
	"npr":      "https://www.npr.org/sections/news/",
	"npr-tech": "https://www.npr.org/sections/technology/",
	"npr-sci":  "https://www.npr.org/sections/science/",
}

// FeedPresets maps friendly names to RSS feeds
var FeedPresets = map[string]string{
	"npr-rss": "https://feeds.npr.org/1001/rss.xml",
	"hn":      "https://hnrss.org/newest",
}

// ResolveSourceURL resolves a preset name to a URL. Anything else is
// returned trimmed, assuming it is already a URL.
func ResolveSourceURL(input string) string {
	input = strings.TrimSpace(input)
	if url, ok := SourcePresets[input]; ok {
		return url
	}
	if url, ok := FeedPresets[input]; ok {
		return url
	}
	return input
}
