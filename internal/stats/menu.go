package stats

import (
	"fmt"
	"io"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
)

// Model menu choices.
const (
	ModelBayes = iota
	ModelNaiveBayes
	ModelLinear
	ModelProbit
	ModelLogit
	ModelLogistic
)

// Options tunes a menu run.
type Options struct {
	// NBParams selects the naive Bayes parameter set (1-6). Zero means 1.
	NBParams int
	// PlotPath is where the probit residual plot is written. Empty skips it.
	PlotPath string
}

// Run fits the chosen model on m and writes its report to w.
func Run(choice int, m domain.Matrix, opts Options, w io.Writer) error {
	if choice < ModelBayes || choice > ModelLogistic {
		return fmt.Errorf("%w: got %d", ErrModelChoice, choice)
	}
	if len(m) == 0 {
		return domain.ErrEmptyMatrix
	}

	switch choice {
	case ModelBayes:
		writeBayes(w, BayesTable(m))

	case ModelNaiveBayes:
		set := opts.NBParams
		if set == 0 {
			set = 1
		}
		params, err := NBParamSet(set)
		if err != nil {
			return err
		}
		res, err := NaiveBayes(m, params)
		if err != nil {
			return fmt.Errorf("naive bayes: %w", err)
		}
		writeNaiveBayes(w, res)

	case ModelLinear:
		res, err := FitLinear(m)
		if err != nil {
			return fmt.Errorf("linear regression: %w", err)
		}
		writeLinear(w, res)

	case ModelProbit, ModelLogit:
		link := Probit
		if choice == ModelLogit {
			link = Logit
		}
		res, err := FitBinary(m, link)
		if err != nil {
			return fmt.Errorf("%s: %w", link, err)
		}
		writeBinary(w, res)
		if link == Probit && opts.PlotPath != "" {
			if err := SaveResidualPlot(opts.PlotPath, "Probit residuals", res.TestX, res.Residuals); err != nil {
				return err
			}
			fmt.Fprintln(w, "residual plot written to", opts.PlotPath)
		}

	case ModelLogistic:
		res, err := FitLogistic(m)
		if err != nil {
			return fmt.Errorf("logistic regression: %w", err)
		}
		writeLogistic(w, res)
	}
	return nil
}
