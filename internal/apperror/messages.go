package apperror

import (
	"net/http"

	"podcastcrm/internal/pkg/i18n"
)

var messages = map[string]map[Kind]string{
	i18n.English: {
		KindNetwork:          "We could not reach the server. Please check your connection and try again.",
		KindAuth:             "You are not signed in or your session has expired.",
		KindRateLimit:        "Too many requests right now. Please wait a moment and try again.",
		KindValidation:       "Some of the information you entered is not valid.",
		KindNotFound:         "The requested item could not be found.",
		KindPermissionDenied: "You do not have permission to do that.",
		KindStore:            "We could not save or load your data. Please try again later.",
		KindLLM:              "The assistant is unavailable at the moment. Please try again shortly.",
		KindUnknown:          "Something went wrong. Please try again.",
	},
	i18n.Czech: {
		KindNetwork:          "Nepodařilo se spojit se serverem. Zkontroluj připojení a zkus to znovu.",
		KindAuth:             "Nejsi přihlášen nebo vypršela platnost přihlášení.",
		KindRateLimit:        "Právě je příliš mnoho požadavků. Chvíli počkej a zkus to znovu.",
		KindValidation:       "Některé zadané údaje nejsou platné.",
		KindNotFound:         "Požadovanou položku se nepodařilo najít.",
		KindPermissionDenied: "K této akci nemáš oprávnění.",
		KindStore:            "Data se nepodařilo uložit ani načíst. Zkus to prosím později.",
		KindLLM:              "Asistent teď není k dispozici. Zkus to prosím za chvíli.",
		KindUnknown:          "Něco se pokazilo. Zkus to prosím znovu.",
	},
}

// MessageFor returns a user-safe sentence for kind in language.
// Unsupported languages get the English copy; unknown kinds get the
// UNKNOWN_ERROR copy.
func MessageFor(kind Kind, language string) string {
	table := messages[i18n.Normalize(language)]
	if table == nil {
		table = messages[i18n.Default]
	}
	if msg, ok := table[kind]; ok {
		return msg
	}
	return table[KindUnknown]
}

// HTTPStatus maps a kind to the status code handlers respond with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNetwork:
		return http.StatusServiceUnavailable
	case KindAuth:
		return http.StatusUnauthorized
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindLLM:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// KindForStatus maps an upstream HTTP status onto the taxonomy, using def
// for statuses with no specific kind.
func KindForStatus(status int, def Kind) Kind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		return KindNetwork
	}
	return def
}
