// Package ai produces short purchase advice from a chain of LLM providers.
// Providers are tried in order; the first non-empty answer wins.
package ai

import (
	"context"
	"log"
	"strings"
	"time"
)

// FallbackAdvice is returned when every provider fails.
const FallbackAdvice = "Try searching for similar engineering tools!"

// Provider is one LLM backend.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Advisor walks its providers in order, giving each its own timeout.
type Advisor struct {
	providers []Provider
	timeout   time.Duration
}

func NewAdvisor(timeout time.Duration, providers ...Provider) *Advisor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Advisor{providers: providers, timeout: timeout}
}

// Advise returns the first usable answer, or FallbackAdvice with ok=false.
func (a *Advisor) Advise(ctx context.Context, prompt string) (string, bool) {
	for _, p := range a.providers {
		text, err := a.try(ctx, p, prompt)
		if err != nil {
			log.Printf("ai: %s failed: %v", p.Name(), err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text, true
		}
		log.Printf("ai: %s returned an empty answer", p.Name())
	}
	return FallbackAdvice, false
}

func (a *Advisor) try(ctx context.Context, p Provider, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return p.Generate(ctx, prompt)
}

// Keys holds the provider API keys. An empty key disables that provider.
type Keys struct {
	Groq       string
	OpenRouter string
	Gemini     string
}

// ProvidersFromKeys builds the failover chain Groq, OpenRouter, Gemini.
// The returned func releases the Gemini client.
func ProvidersFromKeys(ctx context.Context, keys Keys) ([]Provider, func()) {
	var out []Provider
	closeFn := func() {}

	if keys.Groq != "" {
		out = append(out, NewGroq(keys.Groq, nil))
	}
	if keys.OpenRouter != "" {
		out = append(out, NewOpenRouter(keys.OpenRouter, nil))
	}
	if keys.Gemini != "" {
		g, err := NewGemini(ctx, keys.Gemini)
		if err != nil {
			log.Printf("ai: gemini disabled: %v", err)
		} else {
			out = append(out, g)
			closeFn = func() { g.Close() }
		}
	}
	if len(out) == 0 {
		log.Println("ai: no LLM keys configured, advice will use the fallback text")
	}
	return out, closeFn
}
