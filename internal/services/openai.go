package services

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/tonymach/neuro-narrator/pkg/chat"
)

const (
	DefaultOpenAITemperature = 0.7
	DefaultOpenAIMaxTokens   = 1024
)

// OpenAIService implements LLMService for the OpenAI chat completions API.
type OpenAIService struct {
	client    openai.Client
	modelName string
}

func NewOpenAIService(apiKey string, modelName string) *OpenAIService {
	return &OpenAIService{
		client:    openai.NewClient(option.WithAPIKey(apiKey)),
		modelName: modelName,
	}
}

// InitModel initializes the model (OpenAI needs no explicit initialization)
func (o *OpenAIService) InitModel(ctx context.Context, modelName string) error {
	return nil
}

// Chat generates a completion using the OpenAI API.
func (o *OpenAIService) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.modelName),
		Temperature: openai.Float(DefaultOpenAITemperature),
		MaxTokens:   openai.Int(DefaultOpenAIMaxTokens),
		Messages:    toOpenAIMessages(messages),
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return &chat.ChatResponse{Message: msgNoResponse}, nil
	}

	return &chat.ChatResponse{
		Message: resp.Choices[0].Message.Content,
	}, nil
}

func toOpenAIMessages(messages []chat.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case chat.ChatRoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case chat.ChatRoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
