package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCounty(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"St. Lawrence County", "St Lawrence"},
		{"Lewis", "Lewis"},
		{"Jefferson County ", "Jefferson"},
		{"AutaugaCounty", "Autauga"},
		{"CountCountyy", ""},
		{"", ""},
		{"Prince George's County", "Prince Georges"},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanCounty(tc.raw))
		})
	}
}

func TestCleanCounty_NeverContainsCounty(t *testing.T) {
	inputs := []string{
		"County", "CountyCounty", "CCountyounty", "Lewis County County",
		"countyCounty", "Co.unty", "Cou-nty Line", "The County of Kings",
	}
	for _, in := range inputs {
		assert.NotContains(t, CleanCounty(in), "County", "input %q", in)
	}
}

func TestExpandState(t *testing.T) {
	assert.Equal(t, "New York", ExpandState("NY"))
	assert.Equal(t, "Texas", ExpandState(" TX "))
	assert.Equal(t, "District of Columbia", ExpandState("DC"))
	assert.Equal(t, "Ontario", ExpandState("Ontario"), "unknown values pass through")
	assert.Equal(t, "", ExpandState(""))
}

func TestExpandState_RoundTrips(t *testing.T) {
	for _, code := range StateCodes() {
		name := ExpandState(code)
		assert.NotEqual(t, code, name)
		assert.Equal(t, name, ExpandState(code), "expansion is stable")

		back, ok := AbbreviateState(name)
		assert.True(t, ok, "no abbreviation for %q", name)
		assert.Equal(t, code, back)
	}
}

func TestAbbreviateState_Unknown(t *testing.T) {
	_, ok := AbbreviateState("Atlantis")
	assert.False(t, ok)
}

func TestAddStateSpace(t *testing.T) {
	for _, joined := range JoinedStates() {
		spaced := AddStateSpace(joined)
		assert.Contains(t, spaced, " ", "state %q", joined)
		assert.True(t, strings.EqualFold(joined, strings.ReplaceAll(spaced, " ", "")), "state %q -> %q", joined, spaced)
	}
	assert.Equal(t, "New York", AddStateSpace("NewYork"))
	assert.Equal(t, "Texas", AddStateSpace("Texas"))
	assert.Equal(t, "New York", AddStateSpace("New York"))
}

func TestNormalizeState(t *testing.T) {
	assert.Equal(t, "New York", NormalizeState("NY"))
	assert.Equal(t, "New York", NormalizeState("NewYork"))
	assert.Equal(t, "New York", NormalizeState("New York"))
	assert.Equal(t, "Ohio", NormalizeState(" OH"))
}

func TestParseAmenityCounty(t *testing.T) {
	tests := []struct {
		name       string
		cell       string
		wantCounty string
		wantState  string
		wantOK     bool
	}{
		{"single word state", "County(01001 AutaugaCounty Alabama US)", "Autauga", "Alabama", true},
		{"joined state", "County(36049 LewisCounty NewYork US)", "Lewis", "New York", true},
		{"punctuation", "County(36089 St.LawrenceCounty NewYork US)", "StLawrence", "New York", true},
		{"too short", "County()", "", "", false},
		{"empty", "", "", "", false},
		{"missing tokens", "County(01001 Alabama)", "", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			county, state, ok := ParseAmenityCounty(tc.cell)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantCounty, county)
			assert.Equal(t, tc.wantState, state)
		})
	}
}

func TestIsStateName(t *testing.T) {
	for _, name := range []string{"New York", "Texas", "Puerto Rico", "Virgin Islands", AddStateSpace("VirginIslands")} {
		assert.True(t, IsStateName(name), name)
	}
	for _, name := range []string{"NY", "NewYork", "Atlantis", ""} {
		assert.False(t, IsStateName(name), name)
	}
}
