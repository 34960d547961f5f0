package domain

// stateNames maps USPS two-letter codes to full state names.
var stateNames = map[string]string{
	"AK": "Alaska",
	"AL": "Alabama",
	"AR": "Arkansas",
	"AZ": "Arizona",
	"CA": "California",
	"CO": "Colorado",
	"CT": "Connecticut",
	"DC": "District of Columbia",
	"DE": "Delaware",
	"FL": "Florida",
	"GA": "Georgia",
	"HI": "Hawaii",
	"IA": "Iowa",
	"ID": "Idaho",
	"IL": "Illinois",
	"IN": "Indiana",
	"KS": "Kansas",
	"KY": "Kentucky",
	"LA": "Louisiana",
	"MA": "Massachusetts",
	"MD": "Maryland",
	"ME": "Maine",
	"MI": "Michigan",
	"MN": "Minnesota",
	"MO": "Missouri",
	"MS": "Mississippi",
	"MT": "Montana",
	"NC": "North Carolina",
	"ND": "North Dakota",
	"NE": "Nebraska",
	"NH": "New Hampshire",
	"NJ": "New Jersey",
	"NM": "New Mexico",
	"NV": "Nevada",
	"NY": "New York",
	"OH": "Ohio",
	"OK": "Oklahoma",
	"OR": "Oregon",
	"PA": "Pennsylvania",
	"RI": "Rhode Island",
	"SC": "South Carolina",
	"SD": "South Dakota",
	"TN": "Tennessee",
	"TX": "Texas",
	"UT": "Utah",
	"VA": "Virginia",
	"VT": "Vermont",
	"WA": "Washington",
	"WI": "Wisconsin",
	"WV": "West Virginia",
	"WY": "Wyoming",
}

// doubleStates maps camel-joined multi-word state names to their spaced form.
var doubleStates = map[string]string{
	"DistrictOfColumbia": "District of Columbia",
	"NorthCarolina":      "North Carolina",
	"NorthDakota":        "North Dakota",
	"NewHampshire":       "New Hampshire",
	"NewJersey":          "New Jersey",
	"NewMexico":          "New Mexico",
	"NewYork":            "New York",
	"PuertoRico":         "Puerto Rico",
	"RhodeIsland":        "Rhode Island",
	"SouthCarolina":      "South Carolina",
	"SouthDakota":        "South Dakota",
	"VirginIslands":      "Virgin Islands",
	"WestVirginia":       "West Virginia",
}

// stateCodes is the inverse of stateNames, built once at init.
var stateCodes = func() map[string]string {
	m := make(map[string]string, len(stateNames))
	for code, name := range stateNames {
		m[name] = code
	}
	return m
}()

// StateCodes returns a copy of the two-letter codes known to the lookup table.
func StateCodes() []string {
	codes := make([]string, 0, len(stateNames))
	for code := range stateNames {
		codes = append(codes, code)
	}
	return codes
}

// JoinedStates returns a copy of the camel-joined names known to AddStateSpace.
func JoinedStates() []string {
	names := make([]string, 0, len(doubleStates))
	for name := range doubleStates {
		names = append(names, name)
	}
	return names
}
