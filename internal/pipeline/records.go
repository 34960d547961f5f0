package pipeline

import (
	"strconv"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/table"
)

// Column names shared between stage outputs and inputs.
const (
	ColPosition  = "Position"
	ColType      = "Type"
	ColCounty    = "County"
	ColState     = "State"
	ColCountyRaw = "County_raw"
	ColStateRaw  = "State_raw"
	ColIndicator = "Indicator"
	ColDeveloper = "Developer Name"

	ColTier    = "NaturalAmenityTier"
	ColRank    = "NaturalAmenityRank"
	ColOpposed = "Opposed"

	ColEntity     = "Entity"
	ColGovernment = "Government"

	ColMerged        = "Merged"
	ColLocations     = "Locations"
	ColProjectName   = "Project Name"
	ColInterconnects = "Points of Interconnection"
)

func queueColumns(withDeveloper bool) []string {
	cols := []string{ColPosition, ColType, ColCountyRaw, ColStateRaw, ColCounty, ColState, ColIndicator}
	if withDeveloper {
		cols = append(cols, ColDeveloper)
	}
	return cols
}

func queueRow(r domain.QueueRecord, withDeveloper bool) []string {
	row := []string{r.Position, r.Type, r.CountyRaw, r.StateRaw, r.County, r.State, strconv.Itoa(int(r.Status))}
	if withDeveloper {
		row = append(row, r.DeveloperName)
	}
	return row
}

// readQueue converts a cleaned queue table into records. The status comes
// from the Indicator column, falling back to fallback when it is blank.
func readQueue(t *table.Table, fallback domain.Status) []domain.QueueRecord {
	out := make([]domain.QueueRecord, 0, t.Len())
	for i := range t.Rows {
		status := fallback
		if v, ok := t.Float(i, ColIndicator); ok {
			status = domain.Status(int(v))
		}
		out = append(out, domain.QueueRecord{
			Position:      t.Get(i, ColPosition),
			Type:          t.Get(i, ColType),
			CountyRaw:     t.Get(i, ColCountyRaw),
			StateRaw:      t.Get(i, ColStateRaw),
			County:        t.Get(i, ColCounty),
			State:         t.Get(i, ColState),
			Status:        status,
			DeveloperName: t.Get(i, ColDeveloper),
		})
	}
	return out
}

func amenityColumns() []string {
	return []string{ColCountyRaw, ColStateRaw, ColCounty, ColState, ColTier, ColRank}
}

func amenityRow(a domain.AmenityRecord) []string {
	return []string{a.CountyRaw, a.StateRaw, a.County, a.State, table.FormatFloat(a.Tier), table.FormatFloat(a.Rank)}
}

// readAmenities converts the cleaned amenity table into records, skipping
// rows without a tier.
func readAmenities(t *table.Table) []domain.AmenityRecord {
	out := make([]domain.AmenityRecord, 0, t.Len())
	for i := range t.Rows {
		tier, ok := t.Float(i, ColTier)
		if !ok {
			continue
		}
		rank, _ := t.Float(i, ColRank)
		out = append(out, domain.AmenityRecord{
			CountyRaw: t.Get(i, ColCountyRaw),
			StateRaw:  t.Get(i, ColStateRaw),
			County:    t.Get(i, ColCounty),
			State:     t.Get(i, ColState),
			Tier:      tier,
			Rank:      rank,
		})
	}
	return out
}

func mergedColumns(withDeveloper, withOpposed bool) []string {
	cols := append(queueColumns(withDeveloper), ColTier, ColRank)
	if withOpposed {
		cols = append(cols, ColOpposed)
	}
	return cols
}

func mergedRow(r domain.MergedRecord, withDeveloper, withOpposed bool) []string {
	row := queueRow(r.QueueRecord, withDeveloper)
	if r.HasTier {
		row = append(row, table.FormatFloat(r.Tier), table.FormatFloat(r.Rank))
	} else {
		row = append(row, "", "")
	}
	if withOpposed {
		opposed := "0"
		if r.Opposed {
			opposed = "1"
		}
		row = append(row, opposed)
	}
	return row
}

// readOpposed collects the (County, State) keys named in the opposed
// projects table.
func readOpposed(t *table.Table) map[domain.Key]bool {
	projects := make([]domain.OpposedProject, 0, t.Len())
	for i := range t.Rows {
		projects = append(projects, domain.OpposedProject{
			Entity:     t.Get(i, ColEntity),
			Government: t.Get(i, ColGovernment),
			County:     t.Get(i, ColCounty),
			State:      t.Get(i, ColState),
		})
	}
	return domain.OpposedKeys(projects)
}
