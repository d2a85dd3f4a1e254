package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"wikipicbot/internal/publisher"
	"wikipicbot/internal/tagger"
	"wikipicbot/internal/wiki"
)

// Fetcher retrieves the picture of the day.
type Fetcher interface {
	FetchDailyImage(ctx context.Context) (*wiki.DailyImage, error)
}

// Publisher posts the image to the social account.
type Publisher interface {
	Publish(ctx context.Context, img *wiki.DailyImage, hashtags []string) (*publisher.Result, error)
}

// FetchError means the image or caption could not be retrieved. It aborts
// the run.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch daily image: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// PublishError means posting failed after a successful fetch. It aborts
// the run; there is no retry.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish daily image: %v", e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Pipeline runs one fetch → tag → publish pass per invocation.
type Pipeline struct {
	fetcher       Fetcher
	tagger        tagger.Tagger
	publisher     Publisher
	extraHashtags []string
	log           *slog.Logger
}

// New wires one pipeline. A nil tagger means runs post without
// model-suggested hashtags.
func New(
	f Fetcher,
	t tagger.Tagger,
	p Publisher,
	extraHashtags []string,
	log *slog.Logger,
) *Pipeline {
	return &Pipeline{
		fetcher:       f,
		tagger:        t,
		publisher:     p,
		extraHashtags: extraHashtags,
		log:           log,
	}
}

// Run executes the three stages in order. Fetch and publish failures are
// fatal; a tagging failure degrades to posting without hashtags.
func (p *Pipeline) Run(ctx context.Context) (*publisher.Result, error) {
	img, err := p.fetcher.FetchDailyImage(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	p.log.InfoContext(ctx, "Fetched daily image",
		"sourceURL", img.SourceURL,
		"caption", img.Caption,
		"mimeType", img.MIMEType,
		"imageBytes", len(img.Bytes))

	hashtags := p.suggestHashtags(ctx, img.Caption)

	result, err := p.publisher.Publish(ctx, img, hashtags)
	if err != nil {
		return nil, &PublishError{Err: err}
	}

	p.log.InfoContext(ctx, "Published daily image",
		"statusID", result.StatusID,
		"posted", result.Posted,
		"hashtagCount", len(hashtags))

	return result, nil
}

func (p *Pipeline) suggestHashtags(ctx context.Context, caption string) []string {
	var tags []string

	if p.tagger != nil {
		suggested, err := p.tagger.SuggestHashtags(ctx, caption)
		if err != nil {
			p.log.ErrorContext(ctx, "Failed to get hashtags from AI",
				"error", err,
				"fallback", true)
		} else {
			tags = suggested
		}
	}

	return appendUnique(tags, p.extraHashtags)
}

func appendUnique(tags []string, extra []string) []string {
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		seen[tag] = struct{}{}
	}

	for _, tag := range extra {
		if _, ok := seen[tag]; ok {
			continue
		}

		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}
