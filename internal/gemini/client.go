// Package gemini wraps the external generation service behind narrow,
// studio-shaped calls: script writing, concept brainstorming, image and video
// rendering, and speech synthesis. Every call is retried a bounded number of
// times with linear backoff; callers only ever see the eventual success or
// the terminal failure.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/artiestudio/artie/internal/config"
	"github.com/artiestudio/artie/internal/retry"
	"github.com/artiestudio/artie/internal/scene"
)

// Client talks to the Gemini API. Text generation goes through the official
// SDK; image, video and speech use the REST surface directly (see imagen.go,
// veo.go, tts.go for why).
type Client struct {
	genai  *genai.Client
	apiKey string
	models config.Models
	http   *http.Client
}

// NewClient builds a client for the given API key and model assignments.
func NewClient(ctx context.Context, apiKey string, models config.Models) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &Client{
		genai:  gc,
		apiKey: apiKey,
		models: models,
		// Image and speech calls regularly take tens of seconds.
		http: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Concept is one brainstormed ad concept.
type Concept struct {
	Headline   string `json:"headline"`
	Tagline    string `json:"tagline"`
	Tone       string `json:"tone"`
	VisualIdea string `json:"visualIdea"`
}

// Idea is a random product seed for the draft form.
type Idea struct {
	Product    string `json:"product"`
	VisualIdea string `json:"visualIdea"`
}

// GenerateScript asks for a short ad script, one line per entry. When prior
// lines are given the model is told to continue the story seamlessly.
func (c *Client) GenerateScript(ctx context.Context, brief scene.Brief, prior []string) ([]string, error) {
	prompt := scriptPrompt(brief, prior)
	schema := &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}

	return retry.Do(ctx, retry.DefaultAttempts, retry.DefaultBackoff, "script", func(ctx context.Context) ([]string, error) {
		raw, err := c.generateText(ctx, c.models.Script, prompt, schema)
		if err != nil {
			return nil, err
		}
		script, err := parseJSON[[]string](raw)
		if err != nil {
			return nil, fmt.Errorf("script response: %w", err)
		}
		log.Debug().Int("lines", len(script)).Msg("Script generated")
		return script, nil
	})
}

// Brainstorm returns three distinct ad concepts for a product.
func (c *Client) Brainstorm(ctx context.Context, product, notes string) ([]Concept, error) {
	prompt := brainstormPrompt(product, notes)
	schema := &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"headline":   {Type: genai.TypeString},
				"tagline":    {Type: genai.TypeString},
				"tone":       {Type: genai.TypeString},
				"visualIdea": {Type: genai.TypeString},
			},
			Required: []string{"headline", "tagline", "tone", "visualIdea"},
		},
	}

	return retry.Do(ctx, retry.DefaultAttempts, retry.DefaultBackoff, "brainstorm", func(ctx context.Context) ([]Concept, error) {
		raw, err := c.generateText(ctx, c.models.Concepts, prompt, schema)
		if err != nil {
			return nil, err
		}
		concepts, err := parseJSON[[]Concept](raw)
		if err != nil {
			return nil, fmt.Errorf("brainstorm response: %w", err)
		}
		return concepts, nil
	})
}

// RandomIdea returns a fictional product and a one-line visual idea.
func (c *Client) RandomIdea(ctx context.Context) (Idea, error) {
	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"product":    {Type: genai.TypeString},
			"visualIdea": {Type: genai.TypeString},
		},
		Required: []string{"product", "visualIdea"},
	}

	return retry.Do(ctx, retry.DefaultAttempts, retry.DefaultBackoff, "idea", func(ctx context.Context) (Idea, error) {
		raw, err := c.generateText(ctx, c.models.Idea, ideaPrompt, schema)
		if err != nil {
			return Idea{}, err
		}
		idea, err := parseJSON[Idea](raw)
		if err != nil {
			return Idea{}, fmt.Errorf("idea response: %w", err)
		}
		return idea, nil
	})
}

// generateText runs one structured-output text generation call.
func (c *Client) generateText(ctx context.Context, model, prompt string, schema *genai.Schema) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	resp, err := c.genai.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("received empty response from Gemini API")
	}
	return text, nil
}

// responseText collects the text parts of all candidates.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.Text != "" {
				b.WriteString(part.Text)
			}
		}
	}
	return b.String()
}
