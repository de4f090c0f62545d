package assistant

import "strings"

const (
	ToolShowLeadForm     = "show_lead_form"
	ToolShowPricing      = "show_pricing"
	ToolRecommendPodcast = "recommend_podcast"
)

// ToolCall is one of the tools the model may call. The set is closed:
// every implementation lives in this file and ToolVisitor has one method
// per tool.
type ToolCall interface {
	ToolName() string
	Accept(v ToolVisitor)
}

// ToolVisitor handles each tool call variant.
type ToolVisitor interface {
	VisitShowLeadForm(ShowLeadForm)
	VisitShowPricing(ShowPricing)
	VisitRecommendPodcast(RecommendPodcast)
}

type ShowLeadForm struct{}

func (ShowLeadForm) ToolName() string { return ToolShowLeadForm }
func (c ShowLeadForm) Accept(v ToolVisitor) { v.VisitShowLeadForm(c) }

type ShowPricing struct{}

func (ShowPricing) ToolName() string { return ToolShowPricing }
func (c ShowPricing) Accept(v ToolVisitor) { v.VisitShowPricing(c) }

type RecommendPodcast struct {
	EpisodeID string
	Reason    string
}

func (RecommendPodcast) ToolName() string { return ToolRecommendPodcast }
func (c RecommendPodcast) Accept(v ToolVisitor) { v.VisitRecommendPodcast(c) }

// toolCallFrom converts a raw function call. It reports false for unknown
// names and for calls missing required arguments.
func toolCallFrom(fc FunctionCall) (ToolCall, bool) {
	switch fc.Name {
	case ToolShowLeadForm:
		return ShowLeadForm{}, true
	case ToolShowPricing:
		return ShowPricing{}, true
	case ToolRecommendPodcast:
		id := strings.TrimSpace(stringArg(fc.Args, "episodeId"))
		if id == "" {
			return nil, false
		}
		return RecommendPodcast{EpisodeID: id, Reason: strings.TrimSpace(stringArg(fc.Args, "reason"))}, true
	}
	return nil, false
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

type paramSpec struct {
	Name        string
	Description string
	Required    bool
}

type toolSpec struct {
	Name        string
	Description string
	Params      []paramSpec
}

// toolSpecs are the declarations sent to every provider.
var toolSpecs = []toolSpec{
	{
		Name:        ToolShowLeadForm,
		Description: "Show a contact form so the visitor can leave their name, email and phone. Use when the visitor wants mentoring, collaboration or to be contacted.",
	},
	{
		Name:        ToolShowPricing,
		Description: "Show the pricing tiers for consultations, mentoring and partnerships.",
	},
	{
		Name:        ToolRecommendPodcast,
		Description: "Recommend one podcast episode from the provided list.",
		Params: []paramSpec{
			{Name: "episodeId", Description: "Exact ID of the episode from the list.", Required: true},
			{Name: "reason", Description: "One sentence on why the episode fits the visitor."},
		},
	},
}
