package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const generatorPrompt = `You are a flashcard generator. When given a topic, respond ONLY with a raw JSON object like this:

{
  "title": "Swift Basics",
  "flashcards": [
    { "term": "Variable", "definition": "A named value..." },
    { "term": "Constant", "definition": "A fixed value..." }
  ]
}

Do NOT include explanations, markdown, or backticks.`

// GeneratedSet is the model's response: a suggested title plus terms.
type GeneratedSet struct {
	Title      string                 `json:"title"`
	Flashcards []models.FlashcardTerm `json:"flashcards"`
}

// Generator builds flashcard sets from a topic prompt via the OpenAI chat
// completion API.
type Generator struct {
	client *openai.Client
}

// NewGenerator creates a Generator. Returns nil when no API key is
// configured; callers treat that as the feature being disabled.
func NewGenerator(apiKey string) *Generator {
	if apiKey == "" {
		return nil
	}
	return &Generator{client: openai.NewClient(apiKey)}
}

// GenerateSet asks the model for a flashcard set on the given topic.
func (g *Generator) GenerateSet(ctx context.Context, topic string) (*GeneratedSet, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       openai.GPT3Dot5Turbo,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: generatorPrompt},
			{Role: openai.ChatMessageRoleUser, Content: topic},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call completion API: %v", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("completion API returned no choices")
	}

	// Models occasionally wrap the JSON in markdown fences despite the prompt.
	content := resp.Choices[0].Message.Content
	content = strings.TrimSpace(content)
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	content = strings.TrimSpace(content)

	var set GeneratedSet
	if err := json.Unmarshal([]byte(content), &set); err != nil {
		logrus.WithError(err).Debug("Failed to decode generated flashcards")
		return nil, fmt.Errorf("failed to parse generated flashcards: %v", err)
	}
	return &set, nil
}
