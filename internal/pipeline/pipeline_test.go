package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"testing"

	"wikipicbot/internal/pipeline"
	"wikipicbot/internal/publisher"
	"wikipicbot/internal/tagger"
	"wikipicbot/internal/wiki"
)

type stubFetcher struct {
	img   *wiki.DailyImage
	err   error
	calls int
}

func (f *stubFetcher) FetchDailyImage(_ context.Context) (*wiki.DailyImage, error) {
	f.calls++

	return f.img, f.err
}

type stubTagger struct {
	response string
	err      error
	calls    int
}

func (t *stubTagger) SuggestHashtags(_ context.Context, _ string) ([]string, error) {
	t.calls++
	if t.err != nil {
		return nil, t.err
	}

	return tagger.ParseHashtags(t.response), nil
}

type stubPublisher struct {
	err      error
	calls    int
	captions []string
	hashtags [][]string
	bodies   []string
}

func (p *stubPublisher) Publish(
	_ context.Context,
	img *wiki.DailyImage,
	hashtags []string,
) (*publisher.Result, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}

	p.captions = append(p.captions, img.Caption)
	p.hashtags = append(p.hashtags, hashtags)
	p.bodies = append(p.bodies, publisher.ComposeStatus("", img.Caption, hashtags))

	return &publisher.Result{StatusID: "42", Posted: true}, nil
}

func squirrelImage() *wiki.DailyImage {
	return &wiki.DailyImage{
		Bytes:   []byte("fake image bytes"),
		Caption: "A red squirrel on a branch",
	}
}

func TestRunPostsCaptionWithSuggestedHashtags(t *testing.T) {
	fetcher := &stubFetcher{img: squirrelImage()}
	tag := &stubTagger{response: "#squirrel #wildlife #nature"}
	pub := &stubPublisher{}

	pipe := pipeline.New(fetcher, tag, pub, nil, slog.Default())

	result, err := pipe.Run(context.Background())
	if err != nil {
		t.Fatalf("expected run to succeed, got %v", err)
	}

	if result.StatusID != "42" || !result.Posted {
		t.Fatalf("unexpected result %+v", result)
	}

	wantTags := []string{"#squirrel", "#wildlife", "#nature"}
	if !slices.Equal(pub.hashtags[0], wantTags) {
		t.Fatalf("hashtags mismatch: got %v want %v", pub.hashtags[0], wantTags)
	}

	wantBody := "A red squirrel on a branch #squirrel #wildlife #nature"
	if pub.bodies[0] != wantBody {
		t.Fatalf("post body mismatch: got %q want %q", pub.bodies[0], wantBody)
	}
}

func TestRunFetchFailureShortCircuits(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("network down")}
	tag := &stubTagger{response: "#unused"}
	pub := &stubPublisher{}

	pipe := pipeline.New(fetcher, tag, pub, nil, slog.Default())

	_, err := pipe.Run(context.Background())
	if err == nil {
		t.Fatalf("expected run to fail")
	}

	var fetchErr *pipeline.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T (%v)", err, err)
	}

	if tag.calls != 0 {
		t.Fatalf("expected tagger to be skipped after fetch failure, got %d calls", tag.calls)
	}

	if pub.calls != 0 {
		t.Fatalf("expected publisher to be skipped after fetch failure, got %d calls", pub.calls)
	}
}

func TestRunPublishFailureNoRetry(t *testing.T) {
	fetcher := &stubFetcher{img: squirrelImage()}
	pub := &stubPublisher{err: errors.New("auth failure")}

	pipe := pipeline.New(fetcher, nil, pub, nil, slog.Default())

	_, err := pipe.Run(context.Background())
	if err == nil {
		t.Fatalf("expected run to fail")
	}

	var publishErr *pipeline.PublishError
	if !errors.As(err, &publishErr) {
		t.Fatalf("expected PublishError, got %T (%v)", err, err)
	}

	if pub.calls != 1 {
		t.Fatalf("expected exactly one publish attempt, got %d", pub.calls)
	}
}

func TestRunTaggerFailureDegradesToNoHashtags(t *testing.T) {
	fetcher := &stubFetcher{img: squirrelImage()}
	tag := &stubTagger{err: errors.New("model unavailable")}
	pub := &stubPublisher{}

	pipe := pipeline.New(fetcher, tag, pub, nil, slog.Default())

	if _, err := pipe.Run(context.Background()); err != nil {
		t.Fatalf("expected run to succeed despite tagger failure, got %v", err)
	}

	if len(pub.hashtags[0]) != 0 {
		t.Fatalf("expected no hashtags, got %v", pub.hashtags[0])
	}

	if pub.bodies[0] != "A red squirrel on a branch" {
		t.Fatalf("expected body to equal the caption alone, got %q", pub.bodies[0])
	}
}

func TestRunNilTaggerPostsWithoutHashtags(t *testing.T) {
	fetcher := &stubFetcher{img: squirrelImage()}
	pub := &stubPublisher{}

	pipe := pipeline.New(fetcher, nil, pub, nil, slog.Default())

	if _, err := pipe.Run(context.Background()); err != nil {
		t.Fatalf("expected run to succeed, got %v", err)
	}

	if pub.bodies[0] != "A red squirrel on a branch" {
		t.Fatalf("expected body to equal the caption alone, got %q", pub.bodies[0])
	}
}

func TestRunAppendsExtraHashtags(t *testing.T) {
	fetcher := &stubFetcher{img: squirrelImage()}
	tag := &stubTagger{response: "#squirrel #wikipedia"}
	pub := &stubPublisher{}

	pipe := pipeline.New(
		fetcher,
		tag,
		pub,
		[]string{"#wikipedia", "#photography"},
		slog.Default(),
	)

	if _, err := pipe.Run(context.Background()); err != nil {
		t.Fatalf("expected run to succeed, got %v", err)
	}

	want := []string{"#squirrel", "#wikipedia", "#photography"}
	if !slices.Equal(pub.hashtags[0], want) {
		t.Fatalf("hashtags mismatch: got %v want %v", pub.hashtags[0], want)
	}
}

func TestRunIsDeterministicAcrossRuns(t *testing.T) {
	fetcher := &stubFetcher{img: squirrelImage()}
	tag := &stubTagger{response: "#squirrel #wildlife #nature"}
	pub := &stubPublisher{}

	pipe := pipeline.New(fetcher, tag, pub, nil, slog.Default())

	for range 2 {
		if _, err := pipe.Run(context.Background()); err != nil {
			t.Fatalf("expected run to succeed, got %v", err)
		}
	}

	if pub.bodies[0] != pub.bodies[1] {
		t.Fatalf("expected identical bodies across runs, got %q vs %q", pub.bodies[0], pub.bodies[1])
	}

	if !slices.Equal(pub.hashtags[0], pub.hashtags[1]) {
		t.Fatalf("expected identical hashtags across runs, got %v vs %v", pub.hashtags[0], pub.hashtags[1])
	}
}
