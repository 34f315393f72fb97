// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/ticketrouter/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// suggestionPrompt constrains the model to the supplied passage only.
const suggestionPrompt = `You are a support engineer.

Using ONLY the documentation below, suggest what the user could try next.

Rules:
- Be concise (3-5 sentences max)
- Use technical language
- Do not invent steps
- Do not reference external knowledge
- Phrase it as a suggestion, not a final answer

Ticket:
%s

Documentation:
%s
`

// Suggester implements ai.SuggestionGenerator using OpenAI-compatible chat
// APIs.
type Suggester struct {
	client llms.Model
	logger *slog.Logger
}

// newSuggester is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSuggester(config *ai.Config) (*Suggester, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.SuggestionHost),
		openai.WithToken("none"),
		openai.WithModel(config.SuggestionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Suggester{
		client: client,
		logger: slog.Default().With("component", "openai-suggester"),
	}, nil
}

// NewSuggester creates a suggestion generator using the provided
// configuration.
//
// Returns ai.SuggestionGenerator interface to enforce abstraction.
func NewSuggester(config *ai.Config) (ai.SuggestionGenerator, error) {
	return newSuggester(config)
}

// Suggest produces a short next-step suggestion grounded in the passage.
func (s *Suggester) Suggest(ctx context.Context, ticketSubject, passage string) (string, error) {
	prompt := fmt.Sprintf(suggestionPrompt, ticketSubject, passage)

	out, err := llms.GenerateFromSinglePrompt(ctx, s.client, prompt,
		llms.WithMaxTokens(120),
		llms.WithTemperature(0.3),
	)
	if err != nil {
		s.logger.Error("failed to generate suggestion", "err", err)
		return "", err
	}

	return strings.TrimSpace(out), nil
}
