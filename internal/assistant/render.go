package assistant

import "podcastcrm/internal/domain/catalog"

// EpisodeFinder resolves episode ids for ui-card turns.
type EpisodeFinder interface {
	Find(id string) (catalog.Episode, bool)
}

// RenderedMessage is a turn with its card episode resolved.
type RenderedMessage struct {
	Message
	Episode *catalog.Episode `json:"episode,omitempty"`
}

// Render resolves card turns against finder. An id with no match renders
// without an episode.
func Render(msgs []Message, finder EpisodeFinder) []RenderedMessage {
	out := make([]RenderedMessage, 0, len(msgs))
	for _, m := range msgs {
		r := RenderedMessage{Message: m}
		if m.Type == TypeCard && finder != nil {
			if id, ok := m.Data["episodeId"].(string); ok {
				if ep, found := finder.Find(id); found {
					r.Episode = &ep
				}
			}
		}
		out = append(out, r)
	}
	return out
}
