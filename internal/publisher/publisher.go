package publisher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mattn/go-mastodon"

	"wikipicbot/internal/wiki"
)

// statusClient is the slice of the Mastodon API the publisher needs.
type statusClient interface {
	UploadMediaFromMedia(ctx context.Context, media *mastodon.Media) (*mastodon.Attachment, error)
	PostStatus(ctx context.Context, toot *mastodon.Toot) (*mastodon.Status, error)
	GetAccountCurrentUser(ctx context.Context) (*mastodon.Account, error)
	GetAccountStatuses(ctx context.Context, id mastodon.ID, pg *mastodon.Pagination) ([]*mastodon.Status, error)
}

// Result reports what one run published.
type Result struct {
	// StatusID is empty when Posted is false.
	StatusID string
	// Posted is false when the image was skipped as a repeat of the
	// previous post.
	Posted bool
}

// Publisher uploads the image and posts the status to one Mastodon
// account.
type Publisher struct {
	client   statusClient
	prefix   string
	language string
	log      *slog.Logger
}

func New(
	serverURL string,
	accessToken string,
	prefix string,
	language string,
	log *slog.Logger,
) *Publisher {
	client := mastodon.NewClient(&mastodon.Config{
		Server:      serverURL,
		AccessToken: accessToken,
	})

	return &Publisher{
		client:   client,
		prefix:   prefix,
		language: language,
		log:      log,
	}
}

// Publish uploads the image as a media attachment with the caption as its
// description, then posts a status referencing it. When the account's
// newest status already carries an attachment with the same blurhash the
// image is treated as a repeat and nothing is posted.
func (p *Publisher) Publish(
	ctx context.Context,
	img *wiki.DailyImage,
	hashtags []string,
) (*Result, error) {
	attachment, err := p.client.UploadMediaFromMedia(ctx, &mastodon.Media{
		File:        bytes.NewReader(img.Bytes),
		Description: img.Caption,
	})
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}

	repeat, err := p.alreadyPosted(ctx, attachment)
	if err != nil {
		return nil, fmt.Errorf("check last posted image: %w", err)
	}
	if repeat {
		p.log.WarnContext(ctx, "Image was already posted last time",
			"sourceURL", img.SourceURL,
			"blurhash", attachment.BlurHash)

		return &Result{}, nil
	}

	status, err := p.client.PostStatus(ctx, &mastodon.Toot{
		Status:   ComposeStatus(p.prefix, img.Caption, hashtags),
		Language: p.language,
		MediaIDs: []mastodon.ID{attachment.ID},
	})
	if err != nil {
		return nil, fmt.Errorf("post status: %w", err)
	}

	return &Result{StatusID: string(status.ID), Posted: true}, nil
}

// alreadyPosted compares the fresh upload's blurhash with the attachment
// of the account's newest status.
func (p *Publisher) alreadyPosted(
	ctx context.Context,
	uploaded *mastodon.Attachment,
) (bool, error) {
	if uploaded.BlurHash == "" {
		return false, nil
	}

	account, err := p.client.GetAccountCurrentUser(ctx)
	if err != nil {
		return false, fmt.Errorf("get current account: %w", err)
	}

	statuses, err := p.client.GetAccountStatuses(
		ctx,
		account.ID,
		&mastodon.Pagination{Limit: 1},
	)
	if err != nil {
		return false, fmt.Errorf("get account statuses: %w", err)
	}

	if len(statuses) == 0 || len(statuses[0].MediaAttachments) == 0 {
		return false, nil
	}

	return statuses[0].MediaAttachments[0].BlurHash == uploaded.BlurHash, nil
}

// ComposeStatus builds the post body: prefix + caption, then the hashtags
// joined by single spaces. With no hashtags the body is exactly
// prefix + caption.
func ComposeStatus(prefix string, caption string, hashtags []string) string {
	status := prefix + caption
	if len(hashtags) == 0 {
		return status
	}

	return status + " " + strings.Join(hashtags, " ")
}
