package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"podcastcrm/internal/apperror"
	"podcastcrm/internal/brand"
	"podcastcrm/internal/pkg/logger"
)

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIStarter opens chat-completion sessions. The API is stateless, so
// each session keeps its own message history.
type OpenAIStarter struct {
	cfg        OpenAIConfig
	brand      *brand.Brand
	episodes   EpisodeSource
	classifier *apperror.Classifier
	log        *zap.Logger
	client     *openai.Client
}

func NewOpenAIStarter(cfg OpenAIConfig, b *brand.Brand, episodes EpisodeSource, classifier *apperror.Classifier, log *zap.Logger) *OpenAIStarter {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAIStarter{
		cfg:        cfg,
		brand:      b,
		episodes:   episodes,
		classifier: classifier,
		log:        logger.OrNop(log).Named("openai"),
		client:     openai.NewClientWithConfig(oc),
	}
}

func (s *OpenAIStarter) Start(_ context.Context, language string) (Session, error) {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return nil, s.classifier.Classify(
			apperror.New(apperror.KindAuth, "openai api key is not configured", "assistant.start"),
			apperror.KindAuth, "assistant.start")
	}
	return &openAISession{
		client:     s.client,
		model:      s.cfg.Model,
		tools:      openAITools(),
		classifier: s.classifier,
		log:        s.log,
		history: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleSystem,
			Content: SystemPrompt(s.brand, s.episodes.Episodes(), language),
		}},
	}, nil
}

type openAISession struct {
	client     *openai.Client
	model      string
	tools      []openai.Tool
	classifier *apperror.Classifier
	log        *zap.Logger

	mu      sync.Mutex
	history []openai.ChatCompletionMessage
}

func (s *openAISession) Send(ctx context.Context, text string) (*Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := append(s.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: msgs,
		Tools:    s.tools,
	})
	if err != nil {
		return nil, s.classifier.Classify(openAIError(err), apperror.KindLLM, "assistant.send")
	}
	if len(resp.Choices) == 0 {
		s.history = msgs
		return &Reply{}, nil
	}

	answer := resp.Choices[0].Message
	msgs = append(msgs, answer)
	// Every tool call needs a tool message before the next user turn.
	for _, tc := range answer.ToolCalls {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    "shown to the visitor",
			ToolCallID: tc.ID,
		})
	}
	s.history = msgs

	return s.replyFrom(answer), nil
}

func (s *openAISession) replyFrom(m openai.ChatCompletionMessage) *Reply {
	var c Candidate
	if m.Content != "" {
		c.Parts = append(c.Parts, Part{Text: m.Content})
	}
	for _, tc := range m.ToolCalls {
		var args map[string]any
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				s.log.Warn("tool call arguments are not JSON",
					zap.String("name", tc.Function.Name), zap.Error(err))
			}
		}
		c.Parts = append(c.Parts, Part{FunctionCall: &FunctionCall{Name: tc.Function.Name, Args: args}})
	}
	return &Reply{Candidates: []Candidate{c}}
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &apperror.AppError{
			Kind:    apperror.KindForStatus(apiErr.HTTPStatusCode, apperror.KindLLM),
			Message: err.Error(),
			Context: "assistant.send",
			Err:     err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &apperror.AppError{
			Kind:    apperror.KindForStatus(reqErr.HTTPStatusCode, apperror.KindLLM),
			Message: err.Error(),
			Context: "assistant.send",
			Err:     err,
		}
	}
	return err
}

func openAITools() []openai.Tool {
	tools := make([]openai.Tool, 0, len(toolSpecs))
	for _, t := range toolSpecs {
		props := map[string]any{}
		required := []string{}
		for _, p := range t.Params {
			props[p.Name] = map[string]any{"type": "string", "description": p.Description}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": props,
					"required":   required,
				},
			},
		})
	}
	return tools
}
