package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountyFromEntity(t *testing.T) {
	assert.Equal(t, "Lewis", CountyFromEntity("Lewis County Board of Legislators"))
	assert.Equal(t, "St. Lawrence", CountyFromEntity("St. Lawrence County"))
	assert.Equal(t, "", CountyFromEntity("Town of Hounsfield"))
	assert.Equal(t, "", CountyFromEntity("County Board"), "nothing precedes County")
	assert.Equal(t, "", CountyFromEntity(""))
}

func TestCountyFromGovernment(t *testing.T) {
	assert.Equal(t, "Jefferson", CountyFromGovernment("Town of Hounsfield, Jefferson County"))
	assert.Equal(t, "Lawrence", CountyFromGovernment("St. Lawrence County"))
	assert.Equal(t, "", CountyFromGovernment("Town Board"))
}

func TestOpposedCounty(t *testing.T) {
	tests := []struct {
		name       string
		entity     string
		government string
		want       string
	}{
		{"county entity", "Lewis County Board of Legislators", "", "Lewis"},
		{"township uses government", "Hounsfield Township", "Town of Hounsfield, Jefferson County", "Jefferson"},
		{"township falls back to entity", "Cape Vincent Township, Jefferson County", "Town Board", "Cape Vincent Township, Jefferson"},
		{"township without any county", "Hounsfield Township", "Town Board", ""},
		{"no county at all", "Citizens for a Better Shore", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, OpposedCounty(tc.entity, tc.government))
		})
	}
}

func TestNormalizeOpposedProject(t *testing.T) {
	p := NormalizeOpposedProject(OpposedProject{
		Entity:     "Lewis County Board of Legislators",
		Government: "Lewis County",
		State:      "NY",
	})
	assert.Equal(t, "Lewis", p.County)
	assert.Equal(t, "New York", p.State)
}

func TestNormalizeOpposedProject_MatchesQueueCounty(t *testing.T) {
	p := NormalizeOpposedProject(OpposedProject{
		Entity: "St. Lawrence County Board of Legislators",
		State:  "NY",
	})
	q := NormalizeQueueRecord(QueueRecord{CountyRaw: "St. Lawrence County", StateRaw: "NY"})

	assert.Equal(t, "St Lawrence", p.County)
	assert.Equal(t, q.Key(), Key{County: p.County, State: p.State})
}
