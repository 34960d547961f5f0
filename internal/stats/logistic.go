package stats

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
)

// inverseRegularization is C in C·Σloss + ½‖w‖². The intercept is not
// penalized.
const inverseRegularization = 1.0

// LogisticResult is an L2-regularized logistic regression with intercept.
type LogisticResult struct {
	Coef      float64
	Intercept float64
	Accuracy  float64
	Predicted []float64
	Truth     []float64
	Confusion Confusion
}

// FitLogistic fits the regularized logistic regression on the training
// split. A test row is predicted in service when its decision value is
// strictly positive.
func FitLogistic(m domain.Matrix) (LogisticResult, error) {
	d, err := newDataset(m, 1)
	if err != nil {
		return LogisticResult{}, err
	}
	if err := requireBinary(d.trainY, d.testY); err != nil {
		return LogisticResult{}, err
	}

	x, y := d.trainX, d.trainY
	// params[0] is the intercept, params[1] the tier coefficient.
	objective := func(p []float64) float64 {
		loss := 0.0
		for i := range x {
			z := p[0] + p[1]*x[i]
			loss += softplus(z) - y[i]*z
		}
		return inverseRegularization*loss + 0.5*p[1]*p[1]
	}
	grad := func(g, p []float64) {
		g[0], g[1] = 0, 0
		for i := range x {
			r := sigmoid(p[0]+p[1]*x[i]) - y[i]
			g[0] += inverseRegularization * r
			g[1] += inverseRegularization * r * x[i]
		}
		g[1] += p[1]
	}

	res, err := optimize.Minimize(optimize.Problem{Func: objective, Grad: grad}, []float64{0, 0}, nil, &optimize.BFGS{})
	if err != nil && (res == nil || math.IsNaN(res.F)) {
		return LogisticResult{}, fmt.Errorf("fit logistic regression: %w", err)
	}

	out := LogisticResult{Intercept: res.X[0], Coef: res.X[1], Truth: d.testY}
	for _, xv := range d.testX {
		pred := 0.0
		if out.Intercept+out.Coef*xv > 0 {
			pred = 1
		}
		out.Predicted = append(out.Predicted, pred)
	}
	out.Accuracy = accuracy(out.Truth, out.Predicted)
	out.Confusion = confusion(out.Truth, out.Predicted)
	return out, nil
}

func writeLogistic(w io.Writer, r LogisticResult) {
	fmt.Fprintln(w, "\nTesting")
	fmt.Fprintf(w, "Test accuracy= %v\n", r.Accuracy)
	fmt.Fprintf(w, "slope: [[%v]]\n", r.Coef)
	fmt.Fprintf(w, "intercept: [%v]\n", r.Intercept)
	writeConfusion(w, r.Confusion)
}
