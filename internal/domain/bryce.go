package domain

import "strings"

const townshipWord = "Township"

// CountyFromEntity returns every token before the literal token "County",
// e.g. "Lewis County Board of Legislators" -> "Lewis". Returns "" when the
// entity names no county. If "County" appears more than once the last
// occurrence wins.
func CountyFromEntity(entity string) string {
	return countyBefore(entity, func(tokens []string, i int) string {
		return strings.Join(tokens[:i], " ")
	})
}

// CountyFromGovernment returns the single token immediately preceding
// "County", e.g. "Town of Hounsfield, Jefferson County" -> "Jefferson".
func CountyFromGovernment(government string) string {
	return countyBefore(government, func(tokens []string, i int) string {
		return tokens[i-1]
	})
}

func countyBefore(text string, pick func(tokens []string, i int) string) string {
	if !strings.Contains(text, countyWord) {
		return ""
	}
	tokens := strings.Split(text, " ")
	name := ""
	for i, tok := range tokens {
		if tok == countyWord && i >= 1 {
			name = pick(tokens, i)
		}
	}
	return name
}

// OpposedCounty infers the county an opposed project sits in. Townships name
// their county in the Government field; everything else in the Entity field.
// A township whose Government field has no county falls back to the Entity
// rule. The heuristic is not validated against a gazetteer.
func OpposedCounty(entity, government string) string {
	if strings.Contains(entity, townshipWord) {
		if county := CountyFromGovernment(government); county != "" {
			return county
		}
	}
	return CountyFromEntity(entity)
}
