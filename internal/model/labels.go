package model

import (
	"strings"
	"unicode"
)

// acronyms render upper-case wherever they appear in a label.
var acronyms = map[string]string{
	"id":   "ID",
	"ids":  "IDs",
	"urls": "URLs",
	"url":  "URL",
	"uri":  "URI",
	"api":  "API",
	"ip":   "IP",
	"html": "HTML",
	"json": "JSON",
	"sku":  "SKU",
	"uuid": "UUID",
}

// compounds splits run-together argument names common in GraphQL inputs.
var compounds = map[string][]string{
	"firstname": {"first", "name"},
	"lastname":  {"last", "name"},
	"fullname":  {"full", "name"},
	"nickname":  {"nick", "name"},
	"username":  {"user", "name"},
	"birthdate": {"birth", "date"},
	"zipcode":   {"zip", "code"},
	"postcode":  {"post", "code"},
}

// DefaultLabeler turns a GraphQL argument or input field name into a
// sentence-case label: "firstName", "first_name" and "firstname" all become
// "First name", and "ownerID" becomes "Owner ID".
func DefaultLabeler(name string) string {
	words := labelWords(name)
	if len(words) == 0 {
		return ""
	}
	for i, word := range words {
		if acronym, ok := acronyms[word]; ok {
			words[i] = acronym
			continue
		}
		if i == 0 {
			runes := []rune(word)
			runes[0] = unicode.ToUpper(runes[0])
			words[i] = string(runes)
		}
	}
	return strings.Join(words, " ")
}

// labelWords splits name on separators, case changes and letter/digit
// boundaries, returning lower-case words.
func labelWords(name string) []string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) == 0 {
			return
		}
		word := strings.ToLower(string(current))
		if parts, ok := compounds[word]; ok {
			words = append(words, parts...)
		} else {
			words = append(words, word)
		}
		current = current[:0]
	}

	runes := []rune(name)
	for i, r := range runes {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if i > 0 && len(current) > 0 && wordBoundary(runes, i) {
			flush()
		}
		current = append(current, r)
	}
	flush()
	return words
}

func wordBoundary(runes []rune, i int) bool {
	prev, r := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(r):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(r), unicode.IsDigit(prev) && unicode.IsLetter(r):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(r):
		// "HTMLParser": the last capital of a run starts the next word.
		return i+1 < len(runes) && unicode.IsLower(runes[i+1]) && !pluralAcronym(runes, i)
	}
	return false
}

// pluralAcronym keeps a trailing "s" with its acronym, as in "userIDs".
func pluralAcronym(runes []rune, i int) bool {
	return runes[i+1] == 's' && (i+2 == len(runes) || !unicode.IsLower(runes[i+2]))
}
