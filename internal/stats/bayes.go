package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
)

// TierProbability is P(in service | tier) derived with Bayes' rule from the
// observed counts.
type TierProbability struct {
	Tier        float64
	Count       int
	Successes   int
	Probability float64
}

// BayesTable computes, for each observed tier a, P(s|a) = P(a|s)P(s)/P(a)
// where s is "in service". With plain counts this reduces to
// successes(a)/count(a). Rows are ordered by tier.
func BayesTable(m domain.Matrix) []TierProbability {
	counts := make(map[float64]*TierProbability)
	for _, r := range m {
		tp, ok := counts[r.Tier]
		if !ok {
			tp = &TierProbability{Tier: r.Tier}
			counts[r.Tier] = tp
		}
		tp.Count++
		if r.Indicator == domain.StatusInService {
			tp.Successes++
		}
	}

	table := make([]TierProbability, 0, len(counts))
	for _, tp := range counts {
		if tp.Count > 0 {
			tp.Probability = float64(tp.Successes) / float64(tp.Count)
		}
		table = append(table, *tp)
	}
	sort.Slice(table, func(i, j int) bool { return table[i].Tier < table[j].Tier })
	return table
}

func writeBayes(w io.Writer, table []TierProbability) {
	fmt.Fprintln(w, "NaturalAmenityTier  count  in_service  P(in_service|tier)")
	for _, tp := range table {
		fmt.Fprintf(w, "%18g  %5d  %10d  %.6f\n", tp.Tier, tp.Count, tp.Successes, tp.Probability)
	}
}
