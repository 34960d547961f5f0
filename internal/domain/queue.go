package domain

import (
	"path/filepath"
	"strings"
)

// QueueSaveName derives the cleaned CSV name from a queue workbook name,
// e.g. "NYISO-Interconnection-Queue-inservice.xlsx" -> "NYISO_inservice.csv".
func QueueSaveName(fileName string) string {
	base := filepath.Base(fileName)
	parts := strings.Split(base, "-")
	region := parts[0]
	projectType := strings.SplitN(parts[len(parts)-1], ".", 2)[0]
	return region + "_" + projectType + ".csv"
}

// NormalizeQueueRecord fills the normalized county and state from the raw
// values.
func NormalizeQueueRecord(rec QueueRecord) QueueRecord {
	rec.County = CleanCounty(rec.CountyRaw)
	rec.State = NormalizeState(rec.StateRaw)
	return rec
}

// Key returns the record's (County, State) join key.
func (r QueueRecord) Key() Key {
	return Key{County: r.County, State: r.State}
}

// Key returns the record's (County, State) join key.
func (r AmenityRecord) Key() Key {
	return Key{County: r.County, State: r.State}
}

// NormalizeOpposedProject resolves the county from the free-text fields and
// expands the state abbreviation. The county is cleaned the same way queue
// counties are so the two can be joined.
func NormalizeOpposedProject(p OpposedProject) OpposedProject {
	p.County = CleanCounty(OpposedCounty(p.Entity, p.Government))
	p.State = NormalizeState(p.State)
	return p
}
