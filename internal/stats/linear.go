package stats

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
)

// LinearResult is an ordinary least squares fit of indicator on tier,
// evaluated on the test split.
type LinearResult struct {
	Slope     float64
	Intercept float64
	RSquared  float64
	TestX     []float64
	Residuals []float64
}

// FitLinear regresses the indicator on the tier with an intercept.
func FitLinear(m domain.Matrix) (LinearResult, error) {
	d, err := newDataset(m, 2)
	if err != nil {
		return LinearResult{}, err
	}
	alpha, beta := stat.LinearRegression(d.trainX, d.trainY, nil, false)

	pred := make([]float64, len(d.testX))
	residuals := make([]float64, len(d.testX))
	for i, x := range d.testX {
		pred[i] = alpha + beta*x
		residuals[i] = d.testY[i] - pred[i]
	}
	return LinearResult{
		Slope:     beta,
		Intercept: alpha,
		RSquared:  stat.RSquaredFrom(pred, d.testY, nil),
		TestX:     d.testX,
		Residuals: residuals,
	}, nil
}

func writeLinear(w io.Writer, r LinearResult) {
	fmt.Fprintln(w, "\nTesting")
	fmt.Fprintf(w, "coefficient of determination: %v\n", r.RSquared)
	fmt.Fprintf(w, "slope: [%v]\n", r.Slope)
	fmt.Fprintf(w, "intercept: %v\n", r.Intercept)
}
