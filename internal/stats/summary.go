package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
)

// Column names used in the matrix frame.
const (
	ColTier      = "NaturalAmenityTier"
	ColOpposed   = "Opposed"
	ColIndicator = "indicator"
)

// Frame converts the matrix into a dataframe with the tier, opposed flag and
// indicator columns.
func Frame(m domain.Matrix) dataframe.DataFrame {
	tiers := make([]float64, len(m))
	opposed := make([]float64, len(m))
	indicators := make([]int, len(m))
	for i, r := range m {
		tiers[i] = r.Tier
		opposed[i] = r.Opposed
		indicators[i] = int(r.Indicator)
	}
	return dataframe.New(
		series.New(tiers, series.Float, ColTier),
		series.New(opposed, series.Float, ColOpposed),
		series.New(indicators, series.Int, ColIndicator),
	)
}

// TierCount is the number of rows at one tier.
type TierCount struct {
	Tier  float64
	Count int
}

// Summary is the descriptive report printed before any model runs.
type Summary struct {
	Rows      int
	TierMean  float64
	Tiers     []TierCount
	Withdrawn int
	InService int
	Active    int
	Describe  dataframe.DataFrame
}

// Summarize describes the matrix. Tier counts are ordered by descending
// count, then tier.
func Summarize(m domain.Matrix) (Summary, error) {
	if len(m) == 0 {
		return Summary{}, domain.ErrEmptyMatrix
	}
	df := Frame(m)
	if err := df.Error(); err != nil {
		return Summary{}, fmt.Errorf("build matrix frame: %w", err)
	}

	byTier := make(map[float64]int)
	for _, r := range m {
		byTier[r.Tier]++
	}
	tiers := make([]TierCount, 0, len(byTier))
	for t, c := range byTier {
		tiers = append(tiers, TierCount{Tier: t, Count: c})
	}
	sort.Slice(tiers, func(i, j int) bool {
		if tiers[i].Count != tiers[j].Count {
			return tiers[i].Count > tiers[j].Count
		}
		return tiers[i].Tier < tiers[j].Tier
	})

	counts := m.Counts()
	return Summary{
		Rows:      len(m),
		TierMean:  df.Col(ColTier).Mean(),
		Tiers:     tiers,
		Withdrawn: counts[domain.StatusWithdrawn],
		InService: counts[domain.StatusInService],
		Active:    counts[domain.StatusActive],
		Describe:  df.Describe(),
	}, nil
}

// Write prints the summary.
func (s Summary) Write(w io.Writer) {
	fmt.Fprintln(w, "merged_data:", s.Rows, "rows")
	fmt.Fprintln(w, s.Describe.String())
	fmt.Fprintln(w, "Mean", s.TierMean)
	fmt.Fprintln(w, ColTier, "counts")
	for _, tc := range s.Tiers {
		fmt.Fprintf(w, "%g    %d\n", tc.Tier, tc.Count)
	}
	fmt.Fprintln(w, "withdrawn count:", s.Withdrawn)
	fmt.Fprintln(w, "in service count:", s.InService)
	if s.Active > 0 {
		fmt.Fprintln(w, "active count:", s.Active)
	}
}
