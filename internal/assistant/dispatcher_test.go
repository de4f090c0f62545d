package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"podcastcrm/internal/brand"
	"podcastcrm/internal/domain/catalog"
	"podcastcrm/internal/pkg/i18n"
)

func testBrand(t *testing.T) *brand.Brand {
	t.Helper()
	b, err := brand.Default()
	require.NoError(t, err)
	return b
}

func textReply(text string, calls ...FunctionCall) *Reply {
	var parts []Part
	if text != "" {
		parts = append(parts, Part{Text: text})
	}
	for i := range calls {
		parts = append(parts, Part{FunctionCall: &calls[i]})
	}
	return &Reply{Candidates: []Candidate{{Parts: parts}}}
}

func TestParse_ConcatenatesFirstCandidateText(t *testing.T) {
	d := NewDispatcher(testBrand(t), nil)
	reply := &Reply{Candidates: []Candidate{
		{Parts: []Part{{Text: "Ahoj, "}, {Text: "jak ti můžu pomoct?"}}},
		{Parts: []Part{{Text: "ignored"}}},
	}}

	p := d.Parse(reply)

	assert.Equal(t, "Ahoj, jak ti můžu pomoct?", p.Text)
	assert.Empty(t, p.Calls)
}

func TestParse_DropsUnknownAndMalformedCalls(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewDispatcher(testBrand(t), zap.New(core))

	p := d.Parse(textReply("",
		FunctionCall{Name: "book_meeting"},
		FunctionCall{Name: ToolRecommendPodcast, Args: map[string]any{"reason": "no id"}},
		FunctionCall{Name: ToolShowPricing},
	))

	require.Len(t, p.Calls, 1)
	assert.Equal(t, ShowPricing{}, p.Calls[0])
	assert.Equal(t, 2, logs.FilterMessage("dropping tool call").Len())
}

func TestDispatch_TextThenDirectivesInCallOrder(t *testing.T) {
	b := testBrand(t)
	d := NewDispatcher(b, nil)

	msgs := d.Reply(textReply("Tady je pár tipů.",
		FunctionCall{Name: ToolRecommendPodcast, Args: map[string]any{"episodeId": "youtube-od-nuly", "reason": "Začínáš s videem."}},
		FunctionCall{Name: ToolShowPricing},
		FunctionCall{Name: ToolShowLeadForm},
		FunctionCall{Name: ToolRecommendPodcast, Args: map[string]any{"episodeId": "osobni-znacka-na-instagramu"}},
	), i18n.Czech)

	require.Len(t, msgs, 5)
	for _, m := range msgs {
		assert.Equal(t, RoleModel, m.Role)
		assert.NotEmpty(t, m.ID)
	}

	assert.Equal(t, TypeText, msgs[0].Type)
	assert.Equal(t, "Tady je pár tipů.", msgs[0].Text)

	assert.Equal(t, TypeCard, msgs[1].Type)
	assert.Equal(t, "Začínáš s videem.", msgs[1].Text)
	assert.Equal(t, "youtube-od-nuly", msgs[1].Data["episodeId"])

	assert.Equal(t, TypePricing, msgs[2].Type)
	assert.Equal(t, b.Tiers(), msgs[2].Data["tiers"])

	assert.Equal(t, TypeForm, msgs[3].Type)
	assert.Equal(t, i18n.Text(i18n.Czech, i18n.KeyLeadFormPrompt), msgs[3].Text)

	assert.Equal(t, TypeCard, msgs[4].Type)
	assert.Equal(t, i18n.Text(i18n.Czech, i18n.KeyRecommendDefault), msgs[4].Text)
}

func TestDispatch_EmptyReplyAcknowledges(t *testing.T) {
	d := NewDispatcher(testBrand(t), nil)

	for _, reply := range []*Reply{nil, {}, textReply("   ")} {
		msgs := d.Reply(reply, i18n.English)
		require.Len(t, msgs, 1)
		assert.Equal(t, TypeText, msgs[0].Type)
		assert.Equal(t, i18n.Text(i18n.English, i18n.KeyAcknowledge), msgs[0].Text)
	}
}

func TestRender_UnknownEpisodeYieldsNoCard(t *testing.T) {
	svc, err := catalog.NewService(context.Background(), nil, nil)
	require.NoError(t, err)
	d := NewDispatcher(testBrand(t), nil)

	msgs := d.Reply(textReply("",
		FunctionCall{Name: ToolRecommendPodcast, Args: map[string]any{"episodeId": "does-not-exist"}},
		FunctionCall{Name: ToolRecommendPodcast, Args: map[string]any{"episodeId": "youtube-od-nuly"}},
	), i18n.English)
	require.Len(t, msgs, 2)
	assert.Equal(t, TypeCard, msgs[0].Type)

	var rendered []RenderedMessage
	require.NotPanics(t, func() { rendered = Render(msgs, svc) })
	require.Len(t, rendered, 2)
	assert.Nil(t, rendered[0].Episode)
	require.NotNil(t, rendered[1].Episode)
	assert.Equal(t, "YouTube od nuly", rendered[1].Episode.Title)
}
