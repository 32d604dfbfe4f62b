package variant

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
)

// ChatClient is the part of *openai.Client the generator uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIConfig configures an OpenAI-compatible chat endpoint.
type OpenAIConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	MaxRetries   int
	RetryBackoff time.Duration // first retry wait, doubled per attempt
	RatePerSec   float64       // 0 disables client-side rate limiting
	Kinds        []models.VariantKind
}

func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		BaseURL:      "https://api.openai.com/v1",
		Model:        "gpt-4o-mini",
		MaxRetries:   3,
		RetryBackoff: time.Second,
		RatePerSec:   5,
		Kinds:        []models.VariantKind{models.VariantMCQ, models.VariantCloze, models.VariantTrueFalse},
	}
}

// OpenAIGenerator asks a chat model for an MCQ, cloze or true/false
// rendition of a card, picking uniformly among the enabled kinds.
type OpenAIGenerator struct {
	client  ChatClient
	cfg     OpenAIConfig
	limiter *rate.Limiter
	pick    func(n int) int
}

// NewOpenAIGenerator builds a generator backed by the go-openai client.
func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return NewOpenAIGeneratorWithClient(openai.NewClientWithConfig(clientConfig), cfg)
}

// NewOpenAIGeneratorWithClient builds a generator around an existing client.
func NewOpenAIGeneratorWithClient(client ChatClient, cfg OpenAIConfig) *OpenAIGenerator {
	def := DefaultOpenAIConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if len(cfg.Kinds) == 0 {
		cfg.Kinds = def.Kinds
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	return &OpenAIGenerator{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, max(1, int(math.Ceil(cfg.RatePerSec)))),
		pick:    rand.IntN,
	}
}

// WithPicker replaces the random kind selection, for tests.
func (g *OpenAIGenerator) WithPicker(pick func(n int) int) *OpenAIGenerator {
	g.pick = pick
	return g
}

func (g *OpenAIGenerator) Generate(ctx context.Context, card models.Card) (*models.Variant, error) {
	log := logger.FromContext(ctx).WithPrefix("variant").WithField("card_id", card.ID)

	kind := g.cfg.Kinds[g.pick(len(g.cfg.Kinds))]
	prompt, err := promptFor(kind, card)
	if err != nil {
		return nil, err
	}
	log.Debug("generating %s variant", kind)

	var v *models.Variant
	err = g.doWithRetry(ctx, func() error {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: g.cfg.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}
		v, err = ParseVariant(resp.Choices[0].Message.Content, kind)
		return err
	})
	if err != nil {
		log.Warn("variant generation failed: %v", err)
		return nil, fmt.Errorf("generate %s variant for card %s: %w", kind, card.ID, err)
	}
	return v, nil
}

func (g *OpenAIGenerator) doWithRetry(ctx context.Context, fn func() error) error {
	log := logger.FromContext(ctx).WithPrefix("variant")
	var lastErr error
	for attempt := 0; attempt < g.cfg.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt < g.cfg.MaxRetries-1 {
			wait := g.cfg.RetryBackoff * time.Duration(math.Pow(2, float64(attempt)))
			log.Debug("request failed, retrying: attempt=%d wait=%v err=%v", attempt+1, wait, err)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}

// ParseVariant decodes a model reply into a variant of the expected kind.
// Markdown code fences around the JSON are tolerated.
func ParseVariant(raw string, want models.VariantKind) (*models.Variant, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyVariant
	}

	var v models.Variant
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("parse variant: %w", err)
	}
	if v.Kind != want {
		return nil, fmt.Errorf("expected %s variant, got %q", want, v.Kind)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}
