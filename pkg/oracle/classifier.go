package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	classifierURL   = "https://api.openai.com/v1/chat/completions"
	classifierModel = "gpt-3.5-turbo"

	classifierSystemPrompt = "You are a content moderation system. Classify each input into one of the following hate speech subcategories: racism, sexism, homophobia, transphobia, xenophobia, or other."
)

// ChatClassifier asks a chat-completions style LLM endpoint for the abuse
// subcategory of a flagged message.
type ChatClassifier struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

func NewChatClassifier(apiKey string) *ChatClassifier {
	return &ChatClassifier{
		apiKey:  apiKey,
		baseURL: classifierURL,
		model:   classifierModel,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *ChatClassifier) WithBaseURL(url string) *ChatClassifier {
	c.baseURL = url
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *ChatClassifier) Classify(ctx context.Context, text string) (string, error) {
	reqBody := completionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: classifierSystemPrompt},
			{Role: "user", Content: text},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("classification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("classifier returned %d: %s", resp.StatusCode, string(raw))
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode classifier response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("classifier returned no choices")
	}

	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}
