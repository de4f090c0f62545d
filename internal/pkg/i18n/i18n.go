package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

const (
	English = "en-US"
	Czech   = "cs-CZ"
)

// Default is used whenever a requested language is unknown.
const Default = English

var (
	supported = []string{English, Czech}
	// The first tag is the matcher's fallback.
	matcher = language.NewMatcher([]language.Tag{
		language.AmericanEnglish,
		language.MustParse(Czech),
	})
)

// Supported lists the languages with full copy tables.
func Supported() []string {
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}

// Normalize resolves a free-form language tag ("cs", "cs_CZ", "en-GB")
// to one of the supported languages, falling back to Default.
func Normalize(lang string) string {
	lang = strings.TrimSpace(strings.ReplaceAll(lang, "_", "-"))
	if lang == "" {
		return Default
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return Default
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

// FromAcceptLanguage picks the best supported language from an
// Accept-Language header value, or fallback when nothing matches.
func FromAcceptLanguage(header, fallback string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Normalize(fallback)
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Normalize(fallback)
	}
	return supported[idx]
}

// Key names a piece of localized widget copy.
type Key string

const (
	KeyWelcome          Key = "welcome"
	KeyLeadFormPrompt   Key = "lead_form_prompt"
	KeyPricingIntro     Key = "pricing_intro"
	KeyRecommendDefault Key = "recommend_default"
	KeyAcknowledge      Key = "acknowledge"
	KeyLeadThanks       Key = "lead_thanks"
	KeyLeadSaved        Key = "lead_saved"
	KeyLeadFailed       Key = "lead_failed"
)

var copyTable = map[string]map[Key]string{
	English: {
		KeyWelcome:          "Hi! I'm the podcast's assistant. Ask me about episodes, mentoring or working together.",
		KeyLeadFormPrompt:   "Leave us your contact details and we will get back to you shortly.",
		KeyPricingIntro:     "Here is an overview of our collaboration packages:",
		KeyRecommendDefault: "I think you will enjoy this episode:",
		KeyAcknowledge:      "Got it. Is there anything else I can help you with?",
		KeyLeadThanks:       "Thank you, %s! We have your details and will be in touch soon.",
		KeyLeadSaved:        "Your contact details were sent successfully.",
		KeyLeadFailed:       "We could not send your contact details. Please try again.",
	},
	Czech: {
		KeyWelcome:          "Ahoj! Jsem asistent podcastu. Zeptej se mě na epizody, mentoring nebo spolupráci.",
		KeyLeadFormPrompt:   "Zanech nám kontakt a brzy se ti ozveme.",
		KeyPricingIntro:     "Tady je přehled našich balíčků spolupráce:",
		KeyRecommendDefault: "Myslím, že by tě mohla zaujmout tahle epizoda:",
		KeyAcknowledge:      "Rozumím. Můžu ti ještě s něčím pomoct?",
		KeyLeadThanks:       "Děkujeme, %s! Máme tvé údaje a brzy se ozveme.",
		KeyLeadSaved:        "Kontakt byl úspěšně odeslán.",
		KeyLeadFailed:       "Kontakt se nepodařilo odeslat. Zkus to prosím znovu.",
	},
}

// Text returns the copy for key in lang, falling back to English.
func Text(lang string, key Key) string {
	if table, ok := copyTable[Normalize(lang)]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	return copyTable[Default][key]
}

// Textf formats the copy for key in lang with args.
func Textf(lang string, key Key, args ...any) string {
	return fmt.Sprintf(Text(lang, key), args...)
}
