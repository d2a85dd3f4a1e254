package tagger

import (
	"context"
	"strings"
)

// Tagger suggests hashtags for an image caption.
type Tagger interface {
	SuggestHashtags(ctx context.Context, caption string) ([]string, error)
}

// ParseHashtags scans model output for hashtag tokens: whitespace-split,
// keep "#"-prefixed words, drop everything else. Order is preserved and
// duplicates are removed.
func ParseHashtags(s string) []string {
	var tags []string
	seen := make(map[string]struct{})

	for _, token := range strings.Fields(s) {
		if !strings.HasPrefix(token, "#") || len(token) < 2 {
			continue
		}

		if _, ok := seen[token]; ok {
			continue
		}

		seen[token] = struct{}{}
		tags = append(tags, token)
	}

	return tags
}
