package assistant

import (
	"fmt"
	"strings"

	"podcastcrm/internal/brand"
	"podcastcrm/internal/domain/catalog"
	"podcastcrm/internal/pkg/i18n"
)

// EpisodeSource supplies the episodes listed in the system prompt.
type EpisodeSource interface {
	Episodes() []catalog.Episode
}

var languageNames = map[string]string{
	i18n.English: "English",
	i18n.Czech:   "Czech",
}

// SystemPrompt builds the instruction a session is seeded with.
func SystemPrompt(b *brand.Brand, episodes []catalog.Episode, language string) string {
	var sb strings.Builder

	sb.WriteString(b.Persona)
	sb.WriteString("\n\n")
	if b.Host != "" {
		fmt.Fprintf(&sb, "Podcast: %s, hosted by %s.\n\n", b.Name, b.Host)
	} else {
		fmt.Fprintf(&sb, "Podcast: %s.\n\n", b.Name)
	}

	sb.WriteString("Rules:\n")
	for i, rule := range b.Rules {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, rule)
	}
	fmt.Fprintf(&sb, "Always answer in %s.\n", languageNames[i18n.Normalize(language)])

	if len(b.Links) > 0 {
		sb.WriteString("\nWhere to listen and follow:\n")
		for _, l := range b.Links {
			fmt.Fprintf(&sb, "- %s: %s\n", l.Platform, l.URL)
		}
	}

	if b.Contact.Email != "" || b.Contact.Phone != "" {
		sb.WriteString("\nContact:\n")
		if b.Contact.Email != "" {
			fmt.Fprintf(&sb, "- Email: %s\n", b.Contact.Email)
		}
		if b.Contact.Phone != "" {
			fmt.Fprintf(&sb, "- Phone: %s\n", b.Contact.Phone)
		}
	}

	sb.WriteString("\nEpisodes:\n")
	for _, e := range episodes {
		fmt.Fprintf(&sb, "- ID: %s, Title: %q, Topic: %s\n", e.ID, e.Title, oneLine(e.Description))
	}

	return sb.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
