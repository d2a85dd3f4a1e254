package tagger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const (
	maxOutputTokens int64 = 128

	systemPrompt = `Generate 4 relevant English hashtags for a social media post.

Rules:
- Each hashtag is one "#"-prefixed word without spaces.
- Prefer common words.
- If a hashtag is related to a geographical name, such as a country or city, just use that name.
- Base the hashtags on the image caption given as input.
- Output only the hashtags, separated by spaces, on one line.`
)

// OpenAITagger calls OpenAI's Responses API to suggest hashtags.
type OpenAITagger struct {
	client openai.Client
}

// NewOpenAITagger builds a new tagger instance.
func NewOpenAITagger(apiKey string) (*OpenAITagger, error) {
	return &OpenAITagger{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}, nil
}

// SuggestHashtags asks the model for hashtags describing the caption.
// Tokens that do not look like hashtags are discarded; the result may be
// empty.
func (t *OpenAITagger) SuggestHashtags(
	ctx context.Context,
	caption string,
) ([]string, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return nil, errors.New("caption is empty")
	}

	resp, err := t.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           openai.ChatModelGPT5Mini2025_08_07,
		ServiceTier:     responses.ResponseNewParamsServiceTierFlex,
		MaxOutputTokens: openai.Int(maxOutputTokens),
		Reasoning: responses.ReasoningParam{
			Effort: openai.ReasoningEffortLow,
		},
		Instructions: openai.String(systemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(caption),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.Status == "incomplete" {
		return nil, fmt.Errorf(
			"response is incomplete (reason = %s)",
			resp.IncompleteDetails.Reason,
		)
	}

	return ParseHashtags(resp.OutputText()), nil
}
