package stats

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
)

// TierLevels is the number of ordinal amenity tiers.
const TierLevels = 7

// smoothing is the additive (Laplace) smoothing used by both naive Bayes
// variants.
const smoothing = 1.0

// DataVersion selects how the tier is presented to naive Bayes.
type DataVersion string

// NBModel selects the naive Bayes event model.
type NBModel string

const (
	// Numerical feeds the tier as a single categorical value.
	Numerical DataVersion = "numerical"
	// Vectorized one-hot encodes the tier into TierLevels indicators.
	Vectorized DataVersion = "vectorized"

	Categorical NBModel = "categ"
	Multinomial NBModel = "multi"
)

// NBParams configures one naive Bayes run.
type NBParams struct {
	DataVersion DataVersion
	Model       NBModel
	Printing    bool
}

// NBParamSet returns one of the six predefined parameter sets. Set 1 is the
// quiet numerical/categorical default.
func NBParamSet(choice int) (NBParams, error) {
	switch choice {
	case 1:
		return NBParams{DataVersion: Numerical, Model: Categorical}, nil
	case 2, 4:
		return NBParams{DataVersion: Vectorized, Model: Categorical, Printing: true}, nil
	case 3, 6:
		return NBParams{DataVersion: Vectorized, Model: Multinomial, Printing: true}, nil
	case 5:
		return NBParams{DataVersion: Numerical, Model: Categorical, Printing: true}, nil
	default:
		return NBParams{}, fmt.Errorf("naive bayes parameter set must be in [1,6], got %d", choice)
	}
}

// NBResult holds the test-set output of a naive Bayes fit.
type NBResult struct {
	Params        NBParams
	Classes       []float64
	Probabilities [][]float64
	Predicted     []float64
	Truth         []float64
	TestFeatures  [][]float64
	Accuracy      float64
}

type nbClassifier interface {
	fit(x [][]float64, y []float64, classes []float64)
	jointLogLikelihood(x []float64) []float64
}

// NaiveBayes fits the selected naive Bayes variant on the training split and
// predicts the test split.
func NaiveBayes(m domain.Matrix, params NBParams) (NBResult, error) {
	d, err := newDataset(m, 1)
	if err != nil {
		return NBResult{}, err
	}
	trainX, err := encode(d.trainX, params.DataVersion)
	if err != nil {
		return NBResult{}, err
	}
	testX, err := encode(d.testX, params.DataVersion)
	if err != nil {
		return NBResult{}, err
	}

	var clf nbClassifier
	switch params.Model {
	case Categorical:
		clf = &categoricalNB{}
	case Multinomial:
		clf = &multinomialNB{}
	default:
		return NBResult{}, fmt.Errorf("unknown naive bayes model %q", params.Model)
	}

	classes := uniqueSorted(d.trainY)
	clf.fit(trainX, d.trainY, classes)

	res := NBResult{
		Params:        params,
		Classes:       classes,
		Probabilities: make([][]float64, len(testX)),
		Predicted:     make([]float64, len(testX)),
		Truth:         d.testY,
		TestFeatures:  testX,
	}
	for i, x := range testX {
		jll := clf.jointLogLikelihood(x)
		res.Probabilities[i] = softmax(jll)
		res.Predicted[i] = classes[argmax(jll)]
	}
	res.Accuracy = accuracy(res.Truth, res.Predicted)
	return res, nil
}

func encode(tiers []float64, version DataVersion) ([][]float64, error) {
	out := make([][]float64, len(tiers))
	for i, t := range tiers {
		switch version {
		case Numerical:
			if t < 0 {
				return nil, fmt.Errorf("tier %v is negative", t)
			}
			out[i] = []float64{t}
		case Vectorized:
			level := int(t)
			if level < 1 || level > TierLevels {
				return nil, fmt.Errorf("tier %v outside [1,%d]", t, TierLevels)
			}
			vec := make([]float64, TierLevels)
			vec[level-1] = 1
			out[i] = vec
		default:
			return nil, fmt.Errorf("unknown data version %q", version)
		}
	}
	return out, nil
}

// categoricalNB treats each feature as a category index in [0, max].
type categoricalNB struct {
	logPrior []float64
	// logProb[feature][class][category]
	logProb [][][]float64
}

func (c *categoricalNB) fit(x [][]float64, y []float64, classes []float64) {
	c.logPrior = classLogPrior(y, classes)
	if len(x) == 0 {
		return
	}
	nFeatures := len(x[0])
	c.logProb = make([][][]float64, nFeatures)
	for f := 0; f < nFeatures; f++ {
		nCat := 0
		for _, row := range x {
			nCat = max(nCat, int(row[f])+1)
		}
		counts := make([][]float64, len(classes))
		totals := make([]float64, len(classes))
		for k := range classes {
			counts[k] = make([]float64, nCat)
		}
		for i, row := range x {
			k := classIndex(classes, y[i])
			counts[k][int(row[f])]++
			totals[k]++
		}
		c.logProb[f] = make([][]float64, len(classes))
		for k := range classes {
			c.logProb[f][k] = make([]float64, nCat)
			denom := totals[k] + smoothing*float64(nCat)
			for cat := range nCat {
				c.logProb[f][k][cat] = math.Log((counts[k][cat] + smoothing) / denom)
			}
		}
	}
}

func (c *categoricalNB) jointLogLikelihood(x []float64) []float64 {
	jll := append([]float64(nil), c.logPrior...)
	for f, v := range x {
		if f >= len(c.logProb) {
			break
		}
		cat := int(v)
		for k := range jll {
			probs := c.logProb[f][k]
			// Categories never seen in training add nothing.
			if cat < len(probs) {
				jll[k] += probs[cat]
			}
		}
	}
	return jll
}

// multinomialNB treats features as event counts.
type multinomialNB struct {
	logPrior []float64
	// logProb[class][feature]
	logProb [][]float64
}

func (m *multinomialNB) fit(x [][]float64, y []float64, classes []float64) {
	m.logPrior = classLogPrior(y, classes)
	if len(x) == 0 {
		return
	}
	nFeatures := len(x[0])
	m.logProb = make([][]float64, len(classes))
	for k := range classes {
		counts := make([]float64, nFeatures)
		for i, row := range x {
			if y[i] != classes[k] {
				continue
			}
			for f, v := range row {
				counts[f] += v
			}
		}
		total := 0.0
		for _, v := range counts {
			total += v + smoothing
		}
		m.logProb[k] = make([]float64, nFeatures)
		for f, v := range counts {
			m.logProb[k][f] = math.Log((v + smoothing) / total)
		}
	}
}

func (m *multinomialNB) jointLogLikelihood(x []float64) []float64 {
	jll := append([]float64(nil), m.logPrior...)
	for k := range jll {
		for f, v := range x {
			if f < len(m.logProb[k]) {
				jll[k] += v * m.logProb[k][f]
			}
		}
	}
	return jll
}

func classLogPrior(y, classes []float64) []float64 {
	prior := make([]float64, len(classes))
	for _, v := range y {
		prior[classIndex(classes, v)]++
	}
	for k := range prior {
		prior[k] = math.Log(prior[k] / float64(len(y)))
	}
	return prior
}

func uniqueSorted(values []float64) []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

func classIndex(classes []float64, v float64) int {
	return sort.SearchFloat64s(classes, v)
}

func softmax(logits []float64) []float64 {
	hi := math.Inf(-1)
	for _, v := range logits {
		hi = math.Max(hi, v)
	}
	out := make([]float64, len(logits))
	sum := 0.0
	for i, v := range logits {
		out[i] = math.Exp(v - hi)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func writeNaiveBayes(w io.Writer, res NBResult) {
	if res.Params.Printing {
		fmt.Fprintln(w, "Sample", res.TestFeatures, res.Truth)
		fmt.Fprintln(w, "Predicted Probabilities: ", res.Probabilities)
		fmt.Fprintln(w, "Predicted Class: ", res.Predicted)
		fmt.Fprintln(w, "True Class: ", res.Truth)
		fmt.Fprintf(w, "PARAMS data_version=%s model_type=%s alpha=%g\n\n",
			res.Params.DataVersion, res.Params.Model, smoothing)
	}
	fmt.Fprintf(w, "Test accuracy= %v\n", res.Accuracy)
}
