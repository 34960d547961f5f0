package domain

import "math/rand/v2"

// JoinAmenities left-joins queue records with the amenity reference on
// (County, State). Unmatched queue rows are kept with HasTier=false; a key
// with several amenity rows yields one merged row per match.
func JoinAmenities(queue []QueueRecord, amenities []AmenityRecord) []MergedRecord {
	index := make(map[Key][]AmenityRecord, len(amenities))
	for _, a := range amenities {
		index[a.Key()] = append(index[a.Key()], a)
	}

	merged := make([]MergedRecord, 0, len(queue))
	for _, q := range queue {
		matches := index[q.Key()]
		if len(matches) == 0 {
			merged = append(merged, MergedRecord{QueueRecord: q})
			continue
		}
		for _, a := range matches {
			merged = append(merged, MergedRecord{
				QueueRecord: q,
				Tier:        a.Tier,
				Rank:        a.Rank,
				HasTier:     true,
			})
		}
	}
	return merged
}

// MarkOpposed flags merged rows whose county appears in the opposed set.
func MarkOpposed(records []MergedRecord, opposed map[Key]bool) []MergedRecord {
	out := make([]MergedRecord, len(records))
	for i, r := range records {
		r.Opposed = opposed[r.Key()]
		out[i] = r
	}
	return out
}

// OpposedKeys collects the counties named by opposed projects. Projects with
// no resolved county are skipped.
func OpposedKeys(projects []OpposedProject) map[Key]bool {
	keys := make(map[Key]bool, len(projects))
	for _, p := range projects {
		if p.County == "" {
			continue
		}
		keys[Key{County: p.County, State: p.State}] = true
	}
	return keys
}

// MatrixRow is one labelled observation: amenity features and the outcome.
type MatrixRow struct {
	Tier      float64
	Opposed   float64
	Indicator Status
}

// Matrix is the ordered set of observations handed to the models.
type Matrix []MatrixRow

// LabelledFile is one merged file's rows with the status its name implies.
type LabelledFile struct {
	Name    string
	Status  Status
	Records []MergedRecord
}

// BuildMatrix concatenates the labelled files into a matrix. Rows without an
// amenity tier are dropped; duplicates across operators are kept.
func BuildMatrix(files []LabelledFile) Matrix {
	var m Matrix
	for _, f := range files {
		for _, r := range f.Records {
			if !r.HasTier {
				continue
			}
			row := MatrixRow{Tier: r.Tier, Indicator: f.Status}
			if r.Opposed {
				row.Opposed = 1
			}
			m = append(m, row)
		}
	}
	return m
}

// Counts returns the number of rows per status.
func (m Matrix) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, r := range m {
		counts[r.Indicator]++
	}
	return counts
}

// Equalize keeps the first min(N, M) withdrawn rows followed by the first
// min(N, M) in-service rows. Active rows are discarded.
func Equalize(m Matrix) Matrix {
	var withdrawn, inService Matrix
	for _, r := range m {
		switch r.Indicator {
		case StatusWithdrawn:
			withdrawn = append(withdrawn, r)
		case StatusInService:
			inService = append(inService, r)
		}
	}
	n := min(len(withdrawn), len(inService))
	out := make(Matrix, 0, 2*n)
	out = append(out, withdrawn[:n]...)
	out = append(out, inService[:n]...)
	return out
}

// Shuffle returns a permuted copy of m.
func Shuffle(m Matrix, rng *rand.Rand) Matrix {
	out := make(Matrix, len(m))
	copy(out, m)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SplitIndex is the 80/20 train/test boundary for n rows.
func SplitIndex(n int) int {
	return int(float64(n) / 5 * 4)
}

// Split divides m sequentially into an 80% training and 20% test set.
func Split(m Matrix) (train, test Matrix) {
	i := SplitIndex(len(m))
	return m[:i], m[i:]
}
