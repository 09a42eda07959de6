package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/harperchat/backend/internal/config"
)

// Conversation is one externally-stateful exchange. The remote side keeps
// the accumulated history; callers only send the next turn.
type Conversation interface {
	Send(ctx context.Context, text string) (string, error)
	SendStream(ctx context.Context, text string, onChunk func(string)) (string, error)
}

// Opener creates conversations seeded with a persona preamble. The service
// receives an already-authenticated Opener; credentials never reach it.
type Opener interface {
	Open(ctx context.Context, preamble string) (Conversation, error)
}

// Generation defaults mirroring the product's tuned values.
const (
	defaultTemperature     = 0.9
	defaultTopP            = 0.8
	defaultTopK            = 16
	defaultMaxOutputTokens = 1000
)

// GeminiOpener opens chat sessions against the Gemini API.
type GeminiOpener struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiOpener builds the authenticated Gemini client and the shared
// generation settings applied to every conversation.
func NewGeminiOpener(ctx context.Context, cfg config.AIConfig) (*GeminiOpener, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	return &GeminiOpener{
		client: client,
		model:  cfg.Model,
		config: generationConfig(cfg),
	}, nil
}

func generationConfig(cfg config.AIConfig) *genai.GenerateContentConfig {
	temperature := float32(defaultTemperature)
	if cfg.Temperature != nil {
		temperature = float32(*cfg.Temperature)
	}
	topP := float32(defaultTopP)
	if cfg.TopP != nil {
		topP = float32(*cfg.TopP)
	}
	topK := float32(defaultTopK)
	if cfg.TopK != nil {
		topK = float32(*cfg.TopK)
	}
	maxTokens := int32(defaultMaxOutputTokens)
	if cfg.MaxTokens != nil {
		maxTokens = int32(*cfg.MaxTokens)
	}

	// Safety filtering is fully relaxed: the persona is flirty by design and
	// the stock thresholds reject harmless in-character replies.
	safety := []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
	}

	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		TopP:            genai.Ptr(topP),
		TopK:            genai.Ptr(topK),
		MaxOutputTokens: maxTokens,
		SafetySettings:  safety,
	}
}

// Open creates a chat session whose history starts with the preamble as the
// first user turn. Construction is local: the SDK sends the accumulated
// history with each SendMessage call, so Open performs no network I/O.
func (o *GeminiOpener) Open(ctx context.Context, preamble string) (Conversation, error) {
	history := []*genai.Content{
		genai.NewContentFromText(preamble, genai.RoleUser),
	}

	chat, err := o.client.Chats.Create(ctx, o.model, o.config, history)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	return &geminiConversation{chat: chat}, nil
}

type geminiConversation struct {
	chat *genai.Chat
}

func (c *geminiConversation) Send(ctx context.Context, text string) (string, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", err
	}

	out := resp.Text()
	if out == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return out, nil
}

func (c *geminiConversation) SendStream(ctx context.Context, text string, onChunk func(string)) (string, error) {
	var full strings.Builder

	for resp, err := range c.chat.SendMessageStream(ctx, genai.Part{Text: text}) {
		if err != nil {
			return "", err
		}
		if chunk := resp.Text(); chunk != "" {
			full.WriteString(chunk)
			onChunk(chunk)
		}
	}

	if full.Len() == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return full.String(), nil
}

var _ Opener = (*GeminiOpener)(nil)
