package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"wikipicbot/internal/config"
	"wikipicbot/internal/pipeline"
	"wikipicbot/internal/publisher"
	"wikipicbot/internal/scheduler"
	"wikipicbot/internal/tagger"
	"wikipicbot/internal/wiki"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	daemon := flag.Bool("daemon", false, "run the daily scheduler instead of a single post")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.ErrorContext(ctx, "Failed to load .env file",
				"error", err)

			return 1
		}
	} else {
		log.InfoContext(ctx, ".env file is loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return 1
	}

	pipe := buildPipeline(ctx, cfg, log)

	if *daemon {
		return runDaemon(ctx, pipe, log)
	}

	result, err := pipe.Run(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Run failed",
			"error", err)

		return 1
	}

	log.InfoContext(ctx, "Run finished",
		"statusID", result.StatusID,
		"posted", result.Posted)

	return 0
}

func runDaemon(ctx context.Context, pipe *pipeline.Pipeline, log *slog.Logger) int {
	sched := scheduler.New(ctx, pipe, log)

	if err := sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", scheduler.DailyPostSpec)

		return 1
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", scheduler.DailyPostSpec,
		"timezone", scheduler.Timezone)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c
	log.InfoContext(ctx, "Exiting...",
		"signal", sig.String())

	return 0
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
