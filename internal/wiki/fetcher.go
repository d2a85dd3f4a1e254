package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	wikipediaClientTimeout = 10 * time.Second

	// Offset of the publication timezone, matching the daily schedule.
	timezoneOffsetSeconds = 3 * 60 * 60
)

var location = time.FixedZone("UTC+3", timezoneOffsetSeconds)

// Fetcher scrapes the picture of the day from a Wikipedia main page.
type Fetcher struct {
	pageURL string
	heading string
	client  *http.Client
	log     *slog.Logger
}

func NewFetcher(pageURL string, heading string, log *slog.Logger) *Fetcher {
	return &Fetcher{
		pageURL: pageURL,
		heading: heading,
		client:  &http.Client{Timeout: wikipediaClientTimeout},
		log:     log,
	}
}

// FetchDailyImage scrapes the main page for today's featured image and
// downloads its binary. Any failure, including a missing section or an
// empty caption, means there is nothing to post for this run.
func (f *Fetcher) FetchDailyImage(ctx context.Context) (*DailyImage, error) {
	doc, err := f.fetchDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch main page: %w", err)
	}

	imageURL, caption, err := extractDailyImage(doc, f.heading)
	if err != nil {
		return nil, fmt.Errorf("extract daily image: %w", err)
	}
	if caption == "" {
		return nil, errors.New("caption is empty")
	}

	imageURL = upscaleThumbURL(imageURL)

	data, err := f.downloadImage(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("download image (URL = %s): %w", imageURL, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image is empty (URL = %s)", imageURL)
	}

	return &DailyImage{
		Date:      time.Now().In(location),
		Bytes:     data,
		Caption:   caption,
		SourceURL: imageURL,
		MIMEType:  guessMIMEType(imageURL),
	}, nil
}

func (f *Fetcher) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			f.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"pageURL", f.pageURL,
				"operation", "fetchDocument")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}

	return doc, nil
}

func (f *Fetcher) downloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			f.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"imageURL", imageURL,
				"operation", "downloadImage")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return data, nil
}
