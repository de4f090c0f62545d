package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Czech, Normalize("cs"))
	assert.Equal(t, Czech, Normalize("cs_CZ"))
	assert.Equal(t, Czech, Normalize("cs-CZ"))
	assert.Equal(t, English, Normalize("en"))
	assert.Equal(t, English, Normalize(""))
	assert.Equal(t, English, Normalize("not a tag!"))
}

func TestFromAcceptLanguage(t *testing.T) {
	assert.Equal(t, Czech, FromAcceptLanguage("cs-CZ,cs;q=0.9,en;q=0.8", English))
	assert.Equal(t, English, FromAcceptLanguage("en-US,en;q=0.9", Czech))
	assert.Equal(t, Czech, FromAcceptLanguage("", Czech))
}

func TestTextFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, copyTable[English][KeyWelcome], Text("xx", KeyWelcome))
	assert.Equal(t, "Děkujeme, Petr! Máme tvé údaje a brzy se ozveme.", Textf(Czech, KeyLeadThanks, "Petr"))
}

func TestEveryKeyTranslated(t *testing.T) {
	for key := range copyTable[English] {
		for _, lang := range Supported() {
			assert.NotEmpty(t, copyTable[lang][key], "%s missing %s", lang, key)
		}
	}
}
