// Package ai wraps the external text-generation service used to analyze
// theme groups. The service's output is treated as an opaque string;
// there is no parsing contract beyond presence or absence.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/novai/newswire/internal/config"
)

// Article holds the minimal item fields serialized into the prompt.
type Article struct {
	Title   string
	Source  string
	Summary string
}

// Summarizer turns one theme group into free-text analysis.
type Summarizer interface {
	SynthesizeTheme(ctx context.Context, themeName string, articles []Article) (string, error)
}

// New creates a Summarizer from the given AI config.
func New(cfg *config.AIConfig, apiKey string) (Summarizer, error) {
	if cfg == nil || apiKey == "" {
		return nil, fmt.Errorf("AI not configured")
	}

	client := &http.Client{Timeout: 30 * time.Second}

	switch cfg.Provider {
	case "claude":
		model := cfg.Model
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		return &claudeProvider{apiKey: apiKey, model: model, client: client}, nil
	case "openai":
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return &openaiProvider{apiKey: apiKey, model: model, client: client}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q (valid: claude, openai)", cfg.Provider)
	}
}

const synthesizePrompt = `You are an intelligence analyst. Analyze these %d news articles about "%s" and write a concise synthesis (2-3 sentences) explaining the overall pattern or story. Be measured and analytical. No hype or exclamation marks.

Articles:
%s

Respond with ONLY the synthesis text, nothing else.`

func formatArticles(articles []Article) string {
	var sb strings.Builder
	for i, a := range articles {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, a.Title, a.Source)
		if a.Summary != "" {
			sb.WriteString("   ")
			sb.WriteString(a.Summary)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func synthesisPromptFor(themeName string, articles []Article) string {
	return fmt.Sprintf(synthesizePrompt, len(articles), themeName, formatArticles(articles))
}

// --- Claude provider ---

type claudeProvider struct {
	apiKey string
	model  string
	client *http.Client
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *claudeProvider) SynthesizeTheme(ctx context.Context, themeName string, articles []Article) (string, error) {
	text, err := c.call(ctx, synthesisPromptFor(themeName, articles))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *claudeProvider) call(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(claudeRequest{
		Model:     c.model,
		MaxTokens: 512,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.anthropic.com/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("claude API %d: %s", resp.StatusCode, string(b))
	}

	var cr claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Content) == 0 {
		return "", fmt.Errorf("empty claude response")
	}
	return cr.Content[0].Text, nil
}

// --- OpenAI provider ---

type openaiProvider struct {
	apiKey string
	model  string
	client *http.Client
}

type openaiRequest struct {
	Model    string          `json:"model"`
	Messages []openaiMessage `json:"messages"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *openaiProvider) SynthesizeTheme(ctx context.Context, themeName string, articles []Article) (string, error) {
	text, err := o.call(ctx, synthesisPromptFor(themeName, articles))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (o *openaiProvider) call(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(openaiRequest{
		Model:    o.model,
		Messages: []openaiMessage{{Role: "user", Content: prompt}},
	})

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("openai API %d: %s", resp.StatusCode, string(b))
	}

	var or openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return "", err
	}
	if len(or.Choices) == 0 {
		return "", fmt.Errorf("empty openai response")
	}
	return or.Choices[0].Message.Content, nil
}
