package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/stats"
)

// ModelsStage merges the training files, assembles the labelled matrix,
// and runs one model from the menu, printing its report to Out.
type ModelsStage struct {
	Merge    *MergeStage
	Choice   int
	NBParams int
	PlotPath string
	Equalize bool
	// Seed drives the row shuffle; zero seeds from the clock.
	Seed   uint64
	Out    io.Writer
	Logger *slog.Logger
}

func (s *ModelsStage) Name() string { return "models" }

func (s *ModelsStage) Run(ctx context.Context) (Result, error) {
	if s.Choice < stats.ModelBayes || s.Choice > stats.ModelLogistic {
		return Result{}, fmt.Errorf("%w: got %d", stats.ErrModelChoice, s.Choice)
	}

	files, merged, err := s.Merge.Merge(ctx)
	if err != nil {
		return Result{}, err
	}
	res := Result{RowsRead: merged.RowsWritten, Outputs: merged.Outputs}

	m := domain.BuildMatrix(files)
	for _, f := range files {
		for _, r := range f.Records {
			if !r.HasTier {
				res.drop("missing_tier")
			}
		}
	}
	if s.Equalize {
		before := len(m)
		m = domain.Equalize(m)
		s.Logger.Info("equalized withdrawn and in-service rows", "before", before, "after", len(m))
	}
	m = domain.Shuffle(m, s.rng())
	res.RowsWritten = len(m)

	summary, err := stats.Summarize(m)
	if err != nil {
		return res, err
	}
	summary.Write(s.Out)

	opts := stats.Options{NBParams: s.NBParams, PlotPath: s.PlotPath}
	if err := stats.Run(s.Choice, m, opts, s.Out); err != nil {
		return res, err
	}
	if s.Choice == stats.ModelProbit && s.PlotPath != "" {
		res.Outputs = append(res.Outputs, s.PlotPath)
	}
	return res, nil
}

func (s *ModelsStage) rng() *rand.Rand {
	seed := s.Seed
	if seed == 0 {
		seed = uint64(domain.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>32))
}
