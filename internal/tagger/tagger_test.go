package tagger_test

import (
	"slices"
	"testing"

	"wikipicbot/internal/tagger"
)

func TestParseHashtags(t *testing.T) {
	got := tagger.ParseHashtags("#squirrel #wildlife #nature")
	want := []string{"#squirrel", "#wildlife", "#nature"}
	if !slices.Equal(got, want) {
		t.Fatalf("parsed hashtags mismatch: got %v want %v", got, want)
	}
}

func TestParseHashtagsDropsNonConformingTokens(t *testing.T) {
	got := tagger.ParseHashtags("Hashtags: #sunset over the #sea #")
	want := []string{"#sunset", "#sea"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected only #-prefixed tokens, got %v", got)
	}
}

func TestParseHashtagsEmptyInput(t *testing.T) {
	if got := tagger.ParseHashtags("   \n\t "); got != nil {
		t.Fatalf("expected nil for blank input, got %v", got)
	}
}

func TestParseHashtagsNoValidTokens(t *testing.T) {
	if got := tagger.ParseHashtags("no hashtags here at all"); got != nil {
		t.Fatalf("expected nil when nothing conforms, got %v", got)
	}
}

func TestParseHashtagsDeduplicatesPreservingOrder(t *testing.T) {
	got := tagger.ParseHashtags("#alps #snow #alps #winter #snow")
	want := []string{"#alps", "#snow", "#winter"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected ordered deduplication, got %v", got)
	}
}

func TestParseHashtagsSplitsOnAnyWhitespace(t *testing.T) {
	got := tagger.ParseHashtags("#one\n#two\t#three")
	want := []string{"#one", "#two", "#three"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected whitespace-separated tokens, got %v", got)
	}
}
