package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"wikipicbot/internal/config"
	"wikipicbot/internal/pipeline"
	"wikipicbot/internal/publisher"
	"wikipicbot/internal/tagger"
	"wikipicbot/internal/wiki"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	lambda.Start(handler)
}

// handler runs one pipeline pass per scheduled invocation. A returned
// error marks the invocation as failed; the schedule provides the next
// attempt.
func handler(ctx context.Context) error {
	log := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return fmt.Errorf("load config: %w", err)
	}

	pipe := buildPipeline(ctx, cfg, log)

	result, err := pipe.Run(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Run failed",
			"error", err)

		return err
	}

	log.InfoContext(ctx, "Run finished",
		"statusID", result.StatusID,
		"posted", result.Posted)

	return nil
}

func buildPipeline(ctx context.Context, cfg config.Config, log *slog.Logger) *pipeline.Pipeline {
	fetcher := wiki.NewFetcher(cfg.WikipediaURL, cfg.PotdHeading, log)
	pub := publisher.New(
		cfg.MastodonURL,
		cfg.MastodonToken,
		cfg.StatusPrefix,
		cfg.StatusLanguage,
		log,
	)

	return pipeline.New(fetcher, initOpenAITagger(ctx, cfg, log), pub, cfg.ExtraHashtags, log)
}

func initOpenAITagger(ctx context.Context, cfg config.Config, log *slog.Logger) tagger.Tagger {
	if cfg.OpenAIAPIKey == "" {
		log.WarnContext(ctx, "OPENAI_API_KEY is missing so hashtags will be skipped",
			"envVar", "OPENAI_API_KEY")

		return nil
	}

	t, err := tagger.NewOpenAITagger(cfg.OpenAIAPIKey)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create OpenAI tagger so hashtags will be skipped",
			"error", err)

		return nil
	}

	log.InfoContext(ctx, "OpenAI tagger is initialized",
		"provider", "openai")

	return t
}
