package domain

import (
	"regexp"
	"strings"
)

// punctuationRe matches anything that is not a letter, digit, underscore, or
// whitespace.
var punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

const countyWord = "County"

// StripPunctuation removes punctuation, keeping letters, digits, underscores
// and whitespace.
func StripPunctuation(s string) string {
	return punctuationRe.ReplaceAllString(s, "")
}

// CleanCounty strips punctuation and the word "County" from a raw county name,
// e.g. "St. Lawrence County" -> "St Lawrence". Removal repeats until no
// "County" substring is left, so the result never contains it.
func CleanCounty(raw string) string {
	s := StripPunctuation(raw)
	for strings.Contains(s, countyWord) {
		s = strings.ReplaceAll(s, countyWord, "")
	}
	return strings.Join(strings.Fields(s), " ")
}

// ExpandState maps a two-letter code to the full state name. Values that are
// not a known code are returned unchanged.
func ExpandState(s string) string {
	if name, ok := stateNames[strings.TrimSpace(s)]; ok {
		return name
	}
	return s
}

// AbbreviateState maps a full state name back to its two-letter code.
func AbbreviateState(name string) (string, bool) {
	code, ok := stateCodes[name]
	return code, ok
}

// IsStateName reports whether name is a canonical state or territory name:
// one of the full names behind a two-letter code, or a spaced name produced
// by AddStateSpace such as "Puerto Rico".
func IsStateName(name string) bool {
	if _, ok := stateCodes[name]; ok {
		return true
	}
	for _, spaced := range doubleStates {
		if spaced == name {
			return true
		}
	}
	return false
}

// AddStateSpace restores the space in a camel-joined multi-word state name,
// e.g. "NewYork" -> "New York". Single-word states are returned unchanged.
func AddStateSpace(s string) string {
	if name, ok := doubleStates[s]; ok {
		return name
	}
	return s
}

// NormalizeState converts either an abbreviation or a camel-joined name to
// the canonical full state name.
func NormalizeState(s string) string {
	s = strings.TrimSpace(s)
	return AddStateSpace(ExpandState(s))
}

// ParseAmenityCounty splits a packed amenity County cell into a county and a
// state, e.g. "County(01001 AutaugaCounty NewYork US)" -> ("Autauga", "New York").
// ok is false when the cell does not carry both tokens.
func ParseAmenityCounty(cell string) (county, state string, ok bool) {
	runes := []rune(cell)
	if len(runes) < 8 {
		return "", "", false
	}
	inner := StripPunctuation(string(runes[7 : len(runes)-1]))
	tokens := strings.Split(inner, " ")
	if len(tokens) < 4 {
		return "", "", false
	}
	tokens = tokens[1 : len(tokens)-1]

	county = CleanCounty(tokens[0])
	state = AddStateSpace(tokens[1])
	if county == "" || state == "" {
		return "", "", false
	}
	return county, state, true
}
