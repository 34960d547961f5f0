package domain

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queueRec(county, state string) QueueRecord {
	return QueueRecord{County: county, State: state}
}

func TestJoinAmenities(t *testing.T) {
	queue := []QueueRecord{
		queueRec("Lewis", "New York"),
		queueRec("Atlantis", "New York"),
		queueRec("Jefferson", "New York"),
	}
	amenities := []AmenityRecord{
		{County: "Lewis", State: "New York", Tier: 4, Rank: 2100},
		{County: "Jefferson", State: "New York", Tier: 3, Rank: 1800},
		{County: "Jefferson", State: "New York", Tier: 5, Rank: 900},
		{County: "Lewis", State: "Kentucky", Tier: 2, Rank: 700},
	}

	got := JoinAmenities(queue, amenities)

	want := []MergedRecord{
		{QueueRecord: queue[0], Tier: 4, Rank: 2100, HasTier: true},
		{QueueRecord: queue[1]},
		{QueueRecord: queue[2], Tier: 3, Rank: 1800, HasTier: true},
		{QueueRecord: queue[2], Tier: 5, Rank: 900, HasTier: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JoinAmenities mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildMatrix_OnlyMatchedRows(t *testing.T) {
	queue := []QueueRecord{queueRec("Lewis", "New York"), queueRec("Atlantis", "New York")}
	amenities := []AmenityRecord{{County: "Lewis", State: "New York", Tier: 4}}

	files := []LabelledFile{
		{Name: "merged_NYISO_withdrawn.csv", Status: StatusWithdrawn, Records: JoinAmenities(queue, amenities)},
		{Name: "merged_NYISO_inservice.csv", Status: StatusInService, Records: JoinAmenities(queue, amenities)},
	}

	m := BuildMatrix(files)

	require.Len(t, m, 2)
	assert.Equal(t, MatrixRow{Tier: 4, Indicator: StatusWithdrawn}, m[0])
	assert.Equal(t, MatrixRow{Tier: 4, Indicator: StatusInService}, m[1])
}

func TestBuildMatrix_OpposedFlag(t *testing.T) {
	queue := []QueueRecord{queueRec("Lewis", "New York"), queueRec("Jefferson", "New York")}
	amenities := []AmenityRecord{
		{County: "Lewis", State: "New York", Tier: 4},
		{County: "Jefferson", State: "New York", Tier: 3},
	}
	opposed := OpposedKeys([]OpposedProject{
		{County: "Lewis", State: "New York"},
		{County: "", State: "New York"},
	})
	merged := MarkOpposed(JoinAmenities(queue, amenities), opposed)

	m := BuildMatrix([]LabelledFile{{Status: StatusActive, Records: merged}})

	require.Len(t, m, 2)
	assert.Equal(t, 1.0, m[0].Opposed)
	assert.Equal(t, 0.0, m[1].Opposed)
	assert.Len(t, opposed, 1)
}

func TestEqualize(t *testing.T) {
	m := Matrix{
		{Tier: 1, Indicator: StatusWithdrawn},
		{Tier: 2, Indicator: StatusInService},
		{Tier: 3, Indicator: StatusWithdrawn},
		{Tier: 4, Indicator: StatusActive},
		{Tier: 5, Indicator: StatusWithdrawn},
		{Tier: 6, Indicator: StatusInService},
	}

	got := Equalize(m)

	want := Matrix{
		{Tier: 1, Indicator: StatusWithdrawn},
		{Tier: 3, Indicator: StatusWithdrawn},
		{Tier: 2, Indicator: StatusInService},
		{Tier: 6, Indicator: StatusInService},
	}
	assert.Equal(t, want, got)
}

func TestEqualize_Sizes(t *testing.T) {
	for _, tc := range []struct{ withdrawn, inService int }{{0, 5}, {5, 0}, {3, 3}, {10, 4}, {1, 7}} {
		var m Matrix
		for range tc.withdrawn {
			m = append(m, MatrixRow{Indicator: StatusWithdrawn})
		}
		for range tc.inService {
			m = append(m, MatrixRow{Indicator: StatusInService})
		}

		got := Equalize(m)

		n := min(tc.withdrawn, tc.inService)
		assert.Len(t, got, 2*n)
		counts := got.Counts()
		assert.Equal(t, n, counts[StatusWithdrawn])
		assert.Equal(t, n, counts[StatusInService])
	}
}

func TestShuffle_KeepsRows(t *testing.T) {
	m := Matrix{{Tier: 1}, {Tier: 2}, {Tier: 3}, {Tier: 4}, {Tier: 5}}

	got := Shuffle(m, rand.New(rand.NewPCG(1, 2)))

	assert.ElementsMatch(t, m, got)
	assert.Equal(t, Matrix{{Tier: 1}, {Tier: 2}, {Tier: 3}, {Tier: 4}, {Tier: 5}}, m, "input untouched")
}

func TestSplit(t *testing.T) {
	assert.Equal(t, 8, SplitIndex(10))
	assert.Equal(t, 5, SplitIndex(7))
	assert.Equal(t, 0, SplitIndex(1))

	m := make(Matrix, 10)
	train, test := Split(m)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)
}
