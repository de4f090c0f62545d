package assistant

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"podcastcrm/internal/brand"
	"podcastcrm/internal/pkg/i18n"
	"podcastcrm/internal/pkg/logger"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// MessageType tells the renderer which fragment a turn shows.
type MessageType string

const (
	TypeText         MessageType = "text"
	TypeForm         MessageType = "ui-form"
	TypePricing      MessageType = "ui-pricing"
	TypeCard         MessageType = "ui-card"
	TypeNotification MessageType = "ui-notification"
)

// Message is one transcript turn.
type Message struct {
	ID   string         `json:"id"`
	Role Role           `json:"role"`
	Text string         `json:"text"`
	Type MessageType    `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// NewMessage builds a turn with a fresh id.
func NewMessage(role Role, text string, typ MessageType, data map[string]any) Message {
	return Message{ID: uuid.NewString(), Role: role, Text: text, Type: typ, Data: data}
}

// Parsed is a reply reduced to its text and known tool calls.
type Parsed struct {
	Text  string
	Calls []ToolCall
}

// Dispatcher turns parsed replies into transcript turns.
type Dispatcher struct {
	brand *brand.Brand
	log   *zap.Logger
}

func NewDispatcher(b *brand.Brand, log *zap.Logger) *Dispatcher {
	return &Dispatcher{brand: b, log: logger.OrNop(log).Named("dispatcher")}
}

// Parse concatenates the text parts of the first candidate and collects
// its function calls in order. Unknown or malformed calls are logged and
// skipped.
func (d *Dispatcher) Parse(reply *Reply) Parsed {
	var p Parsed
	if reply == nil || len(reply.Candidates) == 0 {
		return p
	}
	var text strings.Builder
	for _, part := range reply.Candidates[0].Parts {
		text.WriteString(part.Text)
		if part.FunctionCall == nil {
			continue
		}
		call, ok := toolCallFrom(*part.FunctionCall)
		if !ok {
			d.log.Warn("dropping tool call",
				zap.String("name", part.FunctionCall.Name),
				zap.Any("args", part.FunctionCall.Args))
			continue
		}
		p.Calls = append(p.Calls, call)
	}
	p.Text = strings.TrimSpace(text.String())
	return p
}

// Dispatch emits the text turn first, then one directive turn per call in
// call order. An empty reply becomes a short acknowledgment.
func (d *Dispatcher) Dispatch(p Parsed, language string) []Message {
	if p.Text == "" && len(p.Calls) == 0 {
		return []Message{NewMessage(RoleModel, i18n.Text(language, i18n.KeyAcknowledge), TypeText, nil)}
	}
	b := &directiveBuilder{language: language, tiers: d.tiers()}
	if p.Text != "" {
		b.out = append(b.out, NewMessage(RoleModel, p.Text, TypeText, nil))
	}
	for _, call := range p.Calls {
		call.Accept(b)
	}
	return b.out
}

// Reply parses and dispatches in one step.
func (d *Dispatcher) Reply(reply *Reply, language string) []Message {
	return d.Dispatch(d.Parse(reply), language)
}

func (d *Dispatcher) tiers() []brand.Tier {
	if d.brand == nil {
		return []brand.Tier{}
	}
	return d.brand.Tiers()
}

type directiveBuilder struct {
	language string
	tiers    []brand.Tier
	out      []Message
}

func (b *directiveBuilder) VisitShowLeadForm(ShowLeadForm) {
	b.out = append(b.out, NewMessage(RoleModel, i18n.Text(b.language, i18n.KeyLeadFormPrompt), TypeForm, nil))
}

func (b *directiveBuilder) VisitShowPricing(ShowPricing) {
	b.out = append(b.out, NewMessage(RoleModel, i18n.Text(b.language, i18n.KeyPricingIntro), TypePricing,
		map[string]any{"tiers": b.tiers}))
}

func (b *directiveBuilder) VisitRecommendPodcast(c RecommendPodcast) {
	text := c.Reason
	if text == "" {
		text = i18n.Text(b.language, i18n.KeyRecommendDefault)
	}
	b.out = append(b.out, NewMessage(RoleModel, text, TypeCard, map[string]any{"episodeId": c.EpisodeID}))
}
