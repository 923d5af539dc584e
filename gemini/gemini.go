// Package gemini is the text-in/text-out model call behind the chat assistant.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"procurement/cache"
	"procurement/config"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-1.5-flash"

// ErrEmptyResponse means the model answered without any text.
var ErrEmptyResponse = errors.New("no text content received from AI")

// Generator turns a complete prompt into the model's reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client calls the Gemini API. One client is shared by all requests.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient connects to Gemini with apiKey. An empty model selects DefaultModel.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", c.model, err)
	}
	return responseText(resp)
}

func (c *Client) Close() error {
	return c.client.Close()
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

// CachedGenerator memoizes another Generator by the fingerprint of the exact prompt.
type CachedGenerator struct {
	next  Generator
	cache *cache.QueryCache
	log   *logrus.Logger
}

// Cached wraps gen so identical prompts reach the model once while c is warm.
// Failed calls are not stored.
func Cached(gen Generator, c *cache.QueryCache) *CachedGenerator {
	return &CachedGenerator{next: gen, cache: c, log: config.GetLogger()}
}

func (g *CachedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	fp := cache.Fingerprint(prompt)
	return cache.Fetch(g.cache, "llm:"+fp, func() (string, error) {
		g.log.WithField("prompt_hash", fp[:10]).Info("[GEMINI] cache miss, calling model")
		return g.next.Generate(ctx, prompt)
	})
}

// unavailable fails every call, standing in when no client could be created.
type unavailable struct{ err error }

// Unavailable returns a Generator whose calls all fail with err.
func Unavailable(err error) Generator { return unavailable{err: err} }

func (u unavailable) Generate(context.Context, string) (string, error) { return "", u.err }
