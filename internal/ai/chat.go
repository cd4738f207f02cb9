package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	groqURL       = "https://api.groq.com/openai/v1/chat/completions"
	groqModel     = "llama3-8b-8192"
	openRouterURL = "https://openrouter.ai/api/v1/chat/completions"
	openRouterMdl = "mistralai/mistral-7b-instruct:free"
)

// ChatProvider talks to an OpenAI compatible chat completions endpoint.
type ChatProvider struct {
	name   string
	url    string
	model  string
	apiKey string
	client *http.Client
}

func NewGroq(apiKey string, client *http.Client) *ChatProvider {
	return newChatProvider("groq", groqURL, groqModel, apiKey, client)
}

func NewOpenRouter(apiKey string, client *http.Client) *ChatProvider {
	return newChatProvider("openrouter", openRouterURL, openRouterMdl, apiKey, client)
}

func newChatProvider(name, url, model, apiKey string, client *http.Client) *ChatProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &ChatProvider{name: name, url: url, model: model, apiKey: apiKey, client: client}
}

func (p *ChatProvider) Name() string { return p.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *ChatProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    p.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	res, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", fmt.Errorf("%s: status %d: %s", p.name, res.StatusCode, snippet)
	}

	var out chatResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", p.name, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices in response", p.name)
	}
	return out.Choices[0].Message.Content, nil
}
