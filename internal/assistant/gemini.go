package assistant

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"podcastcrm/internal/apperror"
	"podcastcrm/internal/brand"
	"podcastcrm/internal/pkg/logger"
)

type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint; empty uses the default.
	BaseURL string
}

// GeminiStarter opens Gemini chats. The SDK chat keeps the history.
type GeminiStarter struct {
	cfg        GeminiConfig
	brand      *brand.Brand
	episodes   EpisodeSource
	classifier *apperror.Classifier
	log        *zap.Logger

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiStarter(cfg GeminiConfig, b *brand.Brand, episodes EpisodeSource, classifier *apperror.Classifier, log *zap.Logger) *GeminiStarter {
	return &GeminiStarter{
		cfg:        cfg,
		brand:      b,
		episodes:   episodes,
		classifier: classifier,
		log:        logger.OrNop(log).Named("gemini"),
	}
}

func (s *GeminiStarter) getClient(ctx context.Context) (*genai.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	cc := &genai.ClientConfig{
		APIKey:  s.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if s.cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: s.cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	s.client = client
	return client, nil
}

func (s *GeminiStarter) Start(ctx context.Context, language string) (Session, error) {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return nil, s.classifier.Classify(
			apperror.New(apperror.KindAuth, "gemini api key is not configured", "assistant.start"),
			apperror.KindAuth, "assistant.start")
	}
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, s.classifier.Classify(err, apperror.KindLLM, "assistant.start")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			SystemPrompt(s.brand, s.episodes.Episodes(), language), genai.RoleUser),
		Tools: geminiTools(),
	}
	chat, err := client.Chats.Create(ctx, s.cfg.Model, config, nil)
	if err != nil {
		return nil, s.classifier.Classify(err, apperror.KindLLM, "assistant.start")
	}
	s.log.Debug("chat started", zap.String("model", s.cfg.Model), zap.String("language", language))
	return &geminiSession{chat: chat, classifier: s.classifier}, nil
}

type geminiSession struct {
	chat       *genai.Chat
	classifier *apperror.Classifier
	mu         sync.Mutex
}

func (s *geminiSession) Send(ctx context.Context, text string) (*Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return nil, s.classifier.Classify(err, apperror.KindLLM, "assistant.send")
	}
	return replyFromGemini(resp), nil
}

func replyFromGemini(resp *genai.GenerateContentResponse) *Reply {
	reply := &Reply{}
	if resp == nil {
		return reply
	}
	for _, cand := range resp.Candidates {
		var c Candidate
		if cand != nil && cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if part == nil || part.Thought {
					continue
				}
				p := Part{Text: part.Text}
				if part.FunctionCall != nil {
					p.FunctionCall = &FunctionCall{Name: part.FunctionCall.Name, Args: part.FunctionCall.Args}
				}
				if p.Text == "" && p.FunctionCall == nil {
					continue
				}
				c.Parts = append(c.Parts, p)
			}
		}
		reply.Candidates = append(reply.Candidates, c)
	}
	return reply
}

func geminiTools() []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(toolSpecs))
	for _, t := range toolSpecs {
		decl := &genai.FunctionDeclaration{Name: t.Name, Description: t.Description}
		if len(t.Params) > 0 {
			schema := &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}}
			for _, p := range t.Params {
				schema.Properties[p.Name] = &genai.Schema{Type: genai.TypeString, Description: p.Description}
				if p.Required {
					schema.Required = append(schema.Required, p.Name)
				}
			}
			decl.Parameters = schema
		}
		decls = append(decls, decl)
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}
