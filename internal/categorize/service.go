// Package categorize assigns chart-of-accounts categories to imported bank
// transactions using ChatGPT. Every suggestion is re-resolved against the
// registry before it is returned; raw model output is never stored.
package categorize

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"ctfiler/internal/coa"
	"ctfiler/internal/logger"
	"ctfiler/pkg/models"
	"ctfiler/pkg/services"
)

// ChatGPTCategoryResponse is one categorized transaction in the model's
// JSON array reply.
type ChatGPTCategoryResponse struct {
	Index    int    `json:"index"`
	Category string `json:"category"`
}

// Service implements services.CategorizationService with ChatGPT.
type Service struct {
	client           *openai.Client
	customCategories []string
	log              zerolog.Logger
}

// NewService creates a categorization service with the OpenAI key from the
// environment. Custom categories extend the prompt's allowed list.
func NewService(customCategories []string) (services.CategorizationService, error) {
	const op = "NewService"

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%s: OPENAI_API_KEY environment variable is required", op)
	}

	return &Service{
		client:           openai.NewClient(apiKey),
		customCategories: customCategories,
		log:              logger.WithComponent("categorize"),
	}, nil
}

// Categorize asks ChatGPT for a category per transaction and resolves every
// answer against the registry. On any failure the input slice is returned
// unchanged so the caller's state is never corrupted.
func (s *Service) Categorize(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error) {
	const op = "Categorize"

	if len(transactions) == 0 {
		return transactions, nil
	}

	s.log.Info().
		Int("transactions", len(transactions)).
		Int("custom_categories", len(s.customCategories)).
		Msg("Requesting transaction categorization from ChatGPT")

	prompt, err := s.buildPrompt(transactions)
	if err != nil {
		return transactions, fmt.Errorf("%s: failed to build prompt: %w", op, err)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       openai.GPT4o,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.systemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: 4000,
	})
	if err != nil {
		return transactions, fmt.Errorf("%s: ChatGPT request failed: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return transactions, fmt.Errorf("%s: no response choices from ChatGPT", op)
	}

	content := stripMarkdownFences(resp.Choices[0].Message.Content)

	var answers []ChatGPTCategoryResponse
	if err := json.Unmarshal([]byte(content), &answers); err != nil {
		s.log.Error().
			Err(err).
			Str("response", content).
			Msg("Failed to parse ChatGPT JSON response")
		return transactions, fmt.Errorf("%s: failed to parse ChatGPT JSON response: %w", op, err)
	}

	out := make([]models.Transaction, len(transactions))
	copy(out, transactions)
	resolved := 0
	for _, a := range answers {
		if a.Index < 0 || a.Index >= len(out) {
			continue
		}
		category := coa.Resolve(a.Category, s.customCategories)
		out[a.Index].Category = category
		if category != models.Uncategorized {
			resolved++
		}
	}

	s.log.Info().
		Int("resolved", resolved).
		Int("total", len(out)).
		Msg("Categorization finished")

	return out, nil
}

func (s *Service) systemPrompt() string {
	var b strings.Builder
	b.WriteString(`You are an expert UAE accountant. You categorize bank statement transactions onto a fixed chart of accounts for corporate tax filing.

RULES:
- Use ONLY category paths from the ALLOWED CATEGORIES list, exactly as written.
- A money-out transaction is usually an expense or asset purchase; money-in is usually revenue.
- If no category fits, use "UNCATEGORIZED".

ALLOWED CATEGORIES:
`)
	coa.ForEachLeaf(func(main, sub, leaf string) bool {
		b.WriteString(coa.Path(main, sub, leaf))
		b.WriteString("\n")
		return true
	})
	for _, c := range s.customCategories {
		b.WriteString(c)
		b.WriteString("\n")
	}
	b.WriteString(`
CRITICAL: Respond ONLY with a valid JSON array. No text before or after the JSON.
- One object per transaction: {"index": <input index>, "category": "<path>"}
- No explanations outside the JSON
- No markdown formatting
- No trailing commas`)
	return b.String()
}

func (s *Service) buildPrompt(transactions []models.Transaction) (string, error) {
	type row struct {
		Index       int     `json:"index"`
		Date        string  `json:"date"`
		Description string  `json:"description"`
		Debit       float64 `json:"debit"`
		Credit      float64 `json:"credit"`
	}
	rows := make([]row, len(transactions))
	for i, t := range transactions {
		rows[i] = row{
			Index:       i,
			Date:        t.Date.Format("2006-01-02"),
			Description: t.Description,
			Debit:       t.Debit,
			Credit:      t.Credit,
		}
	}
	payload, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}
	return "Categorize these transactions:\n\n" + string(payload), nil
}

// stripMarkdownFences removes a ```json ... ``` wrapper the model sometimes
// adds despite instructions.
func stripMarkdownFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if i := strings.LastIndex(content, "```"); i >= 0 {
			content = content[:i]
		}
	}
	return strings.TrimSpace(content)
}
