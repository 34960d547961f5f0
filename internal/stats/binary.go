package stats

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
)

// z value for a two-sided 95% confidence interval.
const z975 = 1.959963984540054

// Link is the inverse link of a binary-response model.
type Link int

const (
	Probit Link = iota
	Logit
)

func (l Link) String() string {
	if l == Probit {
		return "Probit"
	}
	return "Logit"
}

func (l Link) cdf(z float64) float64 {
	if l == Probit {
		return distuv.UnitNormal.CDF(z)
	}
	return sigmoid(z)
}

// logLik is the log-likelihood contribution of one observation at linear
// predictor z.
func (l Link) logLik(y, z float64) float64 {
	if l == Probit {
		q := 2*y - 1
		return math.Log(math.Max(distuv.UnitNormal.CDF(q*z), math.SmallestNonzeroFloat64))
	}
	return y*z - softplus(z)
}

// score is d logLik / dz.
func (l Link) score(y, z float64) float64 {
	if l == Probit {
		q := 2*y - 1
		cdf := math.Max(distuv.UnitNormal.CDF(q*z), math.SmallestNonzeroFloat64)
		return q * distuv.UnitNormal.Prob(q*z) / cdf
	}
	return y - sigmoid(z)
}

// BinaryResult is the fit summary and test-set evaluation of a probit or
// logit model without a constant.
type BinaryResult struct {
	Link      Link
	NObs      int
	Coef      []float64
	StdErr    []float64
	Z         []float64
	P         []float64
	ConfLow   []float64
	ConfHigh  []float64
	LogLik    float64
	LLNull    float64
	PseudoR2  float64
	Converged bool

	TestX     []float64
	Truth     []float64
	Predicted []float64
	Residuals []float64
	Accuracy  float64
	Confusion Confusion
}

// FitBinary fits a maximum-likelihood probit or logit on the training split
// with the tier as the only regressor and no constant, then predicts the
// test split by rounding the fitted probability half to even.
func FitBinary(m domain.Matrix, link Link) (BinaryResult, error) {
	d, err := newDataset(m, 1)
	if err != nil {
		return BinaryResult{}, err
	}
	if err := requireBinary(d.trainY, d.testY); err != nil {
		return BinaryResult{}, err
	}

	x, y := d.trainX, d.trainY
	negLL := func(beta []float64) float64 {
		ll := 0.0
		for i := range x {
			ll += link.logLik(y[i], beta[0]*x[i])
		}
		return -ll
	}
	grad := func(g, beta []float64) {
		g[0] = 0
		for i := range x {
			g[0] -= link.score(y[i], beta[0]*x[i]) * x[i]
		}
	}

	res, err := optimize.Minimize(optimize.Problem{Func: negLL, Grad: grad}, []float64{0}, nil, &optimize.BFGS{})
	converged := err == nil
	if err != nil && (res == nil || math.IsNaN(res.F)) {
		return BinaryResult{}, fmt.Errorf("fit %s: %w", link, err)
	}
	beta := res.X

	out := BinaryResult{
		Link:      link,
		NObs:      len(x),
		Coef:      beta,
		LogLik:    -res.F,
		LLNull:    nullLogLik(y),
		Converged: converged,
	}
	out.PseudoR2 = 1 - out.LogLik/out.LLNull
	out.StdErr = standardErrors(negLL, beta)
	for i, b := range beta {
		se := out.StdErr[i]
		zv := b / se
		out.Z = append(out.Z, zv)
		out.P = append(out.P, 2*(1-distuv.UnitNormal.CDF(math.Abs(zv))))
		out.ConfLow = append(out.ConfLow, b-z975*se)
		out.ConfHigh = append(out.ConfHigh, b+z975*se)
	}

	out.TestX = d.testX
	out.Truth = d.testY
	for i, xv := range d.testX {
		pred := math.RoundToEven(link.cdf(beta[0] * xv))
		out.Predicted = append(out.Predicted, pred)
		out.Residuals = append(out.Residuals, d.testY[i]-pred)
	}
	out.Accuracy = accuracy(out.Truth, out.Predicted)
	out.Confusion = confusion(out.Truth, out.Predicted)
	return out, nil
}

// standardErrors inverts the numerical Hessian of the negative
// log-likelihood at beta. Entries are NaN when the Hessian is singular.
func standardErrors(negLL func([]float64) float64, beta []float64) []float64 {
	se := make([]float64, len(beta))
	var hess mat.SymDense
	fd.Hessian(&hess, negLL, beta, &fd.Settings{Formula: fd.Central})

	var chol mat.Cholesky
	if !chol.Factorize(&hess) {
		for i := range se {
			se[i] = math.NaN()
		}
		return se
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			for i := range se {
				se[i] = math.NaN()
			}
			return se
		}
	}
	for i := range se {
		se[i] = math.Sqrt(cov.At(i, i))
	}
	return se
}

// nullLogLik is the Bernoulli log-likelihood at the sample mean.
func nullLogLik(y []float64) float64 {
	if len(y) == 0 {
		return math.NaN()
	}
	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))
	ll := 0.0
	if mean > 0 {
		ll += mean * math.Log(mean)
	}
	if mean < 1 {
		ll += (1 - mean) * math.Log(1-mean)
	}
	return float64(len(y)) * ll
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

func writeBinary(w io.Writer, r BinaryResult) {
	fmt.Fprintf(w, "%30s Regression Results\n", r.Link)
	fmt.Fprintln(w, "==============================================================================")
	fmt.Fprintf(w, "Dep. Variable: %-14s No. Observations: %d\n", "indicator", r.NObs)
	fmt.Fprintf(w, "Method: %-21s Df Residuals: %d\n", "MLE", r.NObs-len(r.Coef))
	fmt.Fprintf(w, "converged: %-18t Pseudo R-squ.: %.4f\n", r.Converged, r.PseudoR2)
	fmt.Fprintf(w, "Log-Likelihood: %-13.3f LL-Null: %.3f\n", r.LogLik, r.LLNull)
	fmt.Fprintln(w, "==============================================================================")
	fmt.Fprintln(w, "                 coef    std err          z      P>|z|     [0.025     0.975]")
	fmt.Fprintln(w, "------------------------------------------------------------------------------")
	for i := range r.Coef {
		fmt.Fprintf(w, "x%-8d %10.4f %10.3f %10.3f %10.3f %10.3f %10.3f\n",
			i+1, r.Coef[i], r.StdErr[i], r.Z[i], r.P[i], r.ConfLow[i], r.ConfHigh[i])
	}
	fmt.Fprintln(w, "==============================================================================")
	fmt.Fprintln(w, "Test accuracy=", r.Accuracy)
	writeConfusion(w, r.Confusion)
}

func writeConfusion(w io.Writer, c Confusion) {
	fmt.Fprintln(w, "Confusion Matrix")
	fmt.Fprintln(w, "true\\pred     0     1")
	for t := range 2 {
		fmt.Fprintf(w, "%-9d %5d %5d\n", t, c[t][0], c[t][1])
	}
}
