package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"chat-moderation-be/pkg/transport"
)

// Client talks to the chat platform's gateway REST API. The gateway handles
// delivery, embed rendering and permissions; we only exchange JSON envelopes.
type Client struct {
	baseURL string
	token   string
	bot     transport.User
	http    *http.Client
}

func NewClient(baseURL, token string, bot transport.User) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		bot:     bot,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type sendRequest struct {
	Content string           `json:"content,omitempty"`
	Embed   *transport.Embed `json:"embed,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return transport.ErrNotFound
	case http.StatusForbidden:
		return transport.ErrForbidden
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode gateway response: %w", err)
		}
	}
	return nil
}

func (c *Client) Send(ctx context.Context, channelID, content string) (*transport.Message, error) {
	var msg transport.Message
	path := fmt.Sprintf("/channels/%s/messages", url.PathEscape(channelID))
	if err := c.do(ctx, http.MethodPost, path, sendRequest{Content: content}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) SendEmbed(ctx context.Context, channelID string, embed *transport.Embed) (*transport.Message, error) {
	var msg transport.Message
	path := fmt.Sprintf("/channels/%s/messages", url.PathEscape(channelID))
	if err := c.do(ctx, http.MethodPost, path, sendRequest{Embed: embed}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	path := fmt.Sprintf("/channels/%s/messages/%s/reactions/%s",
		url.PathEscape(channelID), url.PathEscape(messageID), url.PathEscape(emoji))
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

func (c *Client) FetchMessage(ctx context.Context, channelID, messageID string) (*transport.Message, error) {
	var msg transport.Message
	path := fmt.Sprintf("/channels/%s/messages/%s", url.PathEscape(channelID), url.PathEscape(messageID))
	if err := c.do(ctx, http.MethodGet, path, nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) ResolveChannel(ctx context.Context, guildID, name string) (string, error) {
	var channels []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	path := fmt.Sprintf("/guilds/%s/channels", url.PathEscape(guildID))
	if err := c.do(ctx, http.MethodGet, path, nil, &channels); err != nil {
		return "", err
	}
	for _, ch := range channels {
		if ch.Name == name {
			return ch.ID, nil
		}
	}
	return "", transport.ErrNotFound
}

func (c *Client) BotUser() transport.User {
	return c.bot
}
