// Package domain models interconnection-queue, county amenity, and opposed
// wind project data.
//
// # Data Sources
//
// Interconnection queues are published by each grid operator (NYISO, ISO-NE,
// MISO, PJM) as Excel workbooks, one per outcome:
//
//	<OPERATOR>-Interconnection-Queue-active.xlsx
//	<OPERATOR>-Interconnection-Queue-inservice.xlsx
//	<OPERATOR>-Interconnection-Queue-withdrawn.xlsx
//
// The outcome is not a column in the workbook; it is inferred from the file
// name by [StatusFromName]. Cleaned queues are written as
// "<OPERATOR>_<outcome>.csv" (see [QueueSaveName]).
//
// The natural amenity reference ranks every U.S. county on a 1 to 7 ordinal
// scale. Its County column packs county and state into one cell:
//
//	"County(01001 AutaugaCounty Alabama US)"
//
// The first seven characters and the closing character are wrapping, the
// first and last tokens are identifiers, and multi-word states are
// camel-joined ("NewYork"). Parsed by [ParseAmenityCounty].
//
// The opposed project database (Robert Bryce) names the opposing body in free
// text. Counties are recovered heuristically from the "Entity" and
// "Government" columns; see [OpposedCounty].
//
// # Normalization Conventions
//
// County names drop the word "County" and all punctuation:
//
//	"St. Lawrence County" → "St Lawrence"
//
// State names are always the full name with its canonical spacing:
//
//	"NY" → "New York", "NewYork" → "New York"
//
// These two forms are the join key between queues and the amenity reference.
//
// # Status Indicator
//
//	withdrawn   0
//	in service  1
//	active      2
package domain
