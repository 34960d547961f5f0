// Package stats fits the small set of models run against the merged matrix:
// a Bayes-rule success table, naive Bayes, linear regression, probit, logit,
// and regularized logistic regression. Every model uses the amenity tier as
// its sole feature and the status indicator as the label, with a sequential
// 80/20 train/test split.
package stats

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
)

var (
	// ErrModelChoice is returned for a menu choice outside the known models.
	ErrModelChoice = errors.New("model choice must be in [0,5]")
	// ErrNonBinaryLabel is returned when a binary model sees a label other
	// than withdrawn or in-service.
	ErrNonBinaryLabel = errors.New("binary model requires labels in {0,1}")
	// ErrTooFewRows is returned when a split leaves a side too small to fit
	// or evaluate.
	ErrTooFewRows = errors.New("too few rows for train/test split")
)

// dataset is the matrix split into feature and label columns.
type dataset struct {
	trainX, trainY []float64
	testX, testY   []float64
}

func newDataset(m domain.Matrix, minTrain int) (dataset, error) {
	train, test := domain.Split(m)
	if len(train) < minTrain || len(test) == 0 {
		return dataset{}, fmt.Errorf("%w: %d train, %d test", ErrTooFewRows, len(train), len(test))
	}
	var d dataset
	d.trainX, d.trainY = columns(train)
	d.testX, d.testY = columns(test)
	return d, nil
}

func columns(m domain.Matrix) (x, y []float64) {
	x = make([]float64, len(m))
	y = make([]float64, len(m))
	for i, r := range m {
		x[i] = r.Tier
		y[i] = float64(r.Indicator)
	}
	return x, y
}

func requireBinary(labels ...[]float64) error {
	for _, ys := range labels {
		for _, y := range ys {
			if y != 0 && y != 1 {
				return fmt.Errorf("%w: got %v", ErrNonBinaryLabel, y)
			}
		}
	}
	return nil
}

func accuracy(truth, predicted []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	hits := 0
	for i := range truth {
		if truth[i] == predicted[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(truth))
}

// Confusion is a 2x2 confusion matrix indexed [true][predicted].
type Confusion [2][2]int

func confusion(truth, predicted []float64) Confusion {
	var c Confusion
	for i := range truth {
		t, p := int(truth[i]), int(predicted[i])
		if t < 0 || t > 1 || p < 0 || p > 1 {
			continue
		}
		c[t][p]++
	}
	return c
}
