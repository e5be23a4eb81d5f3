package util

import (
	"golang.org/x/text/language"
)

var localeTags = []language.Tag{
	language.MustParse("en-US"),
	language.MustParse("ru-RU"),
	language.MustParse("uk-UA"),
	language.MustParse("de-DE"),
	language.MustParse("es-ES"),
	language.MustParse("fr-FR"),
	language.MustParse("it-IT"),
	language.MustParse("pt-BR"),
	language.MustParse("pl-PL"),
}

var isoCodes = []string{
	"en_US",
	"ru_RU",
	"uk_UA",
	"de_DE",
	"es_ES",
	"fr_FR",
	"it_IT",
	"pt_BR",
	"pl_PL",
}

var localeMatcher = language.NewMatcher(localeTags)

// IetfToIsoLangCode maps an IETF language tag to the closest supported lctime locale.
func IetfToIsoLangCode(lang string) string {
	_, idx := language.MatchStrings(localeMatcher, lang)
	return isoCodes[idx]
}
