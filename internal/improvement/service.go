package improvement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nba-improvement-service/internal/dataset"
	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
	"github.com/preston-bernstein/nba-improvement-service/internal/logging"
	"github.com/preston-bernstein/nba-improvement-service/internal/metrics"
	"github.com/preston-bernstein/nba-improvement-service/internal/predictor"
	"github.com/preston-bernstein/nba-improvement-service/internal/providers"
)

// Error classes reported to metrics.
const (
	ClassUpstreamUnauthorized = "upstream_unauthorized"
	ClassUpstreamUnavailable  = "upstream_unavailable"
	ClassDataUnavailable      = "data_unavailable"
	ClassEmptyJoin            = "empty_join"
	ClassInsufficientData     = "insufficient_data"
	ClassCanceled             = "canceled"
	ClassInternal             = "internal"
)

// Request selects the season to train on and the ranking size.
type Request struct {
	Season      int
	PlayerCount int
	TopN        int
}

// DatasetBuilder produces the training table for a season.
type DatasetBuilder interface {
	Build(ctx context.Context, playerCount, season int) (stats.TrainingTable, error)
}

// Service runs the build then train-and-rank pipeline for one request.
type Service struct {
	builder  DatasetBuilder
	logger   *slog.Logger
	recorder *metrics.Recorder
	now      func() time.Time
}

func NewService(builder DatasetBuilder, logger *slog.Logger, recorder *metrics.Recorder) *Service {
	return &Service{
		builder:  builder,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
	}
}

// Predict builds the dataset for req.Season and ranks the top improvers. Errors from either
// stage are returned unchanged.
func (s *Service) Predict(ctx context.Context, req Request) (stats.ModelResult, error) {
	logger := logging.FromContext(ctx, s.logger)
	start := s.now()

	table, err := s.builder.Build(ctx, req.PlayerCount, req.Season)
	buildDone := s.now()
	if err != nil {
		s.fail(logger, req, start, "build", err)
		return stats.ModelResult{}, err
	}

	result, err := predictor.TrainAndRank(table, req.Season, req.TopN)
	done := s.now()
	if err != nil {
		s.fail(logger, req, start, "train", err)
		return stats.ModelResult{}, err
	}

	s.recorder.RecordPipelineRun(done.Sub(start), result.Samples, result.R2, "")
	logging.Info(logger, "prediction complete",
		logging.FieldSeason, req.Season,
		logging.FieldPlayerCount, req.PlayerCount,
		logging.FieldTopN, req.TopN,
		logging.FieldSamples, result.Samples,
		"r2", result.R2,
		"mse", result.MSE,
		"build_ms", buildDone.Sub(start).Milliseconds(),
		"train_ms", done.Sub(buildDone).Milliseconds(),
	)
	return result, nil
}

func (s *Service) fail(logger *slog.Logger, req Request, start time.Time, stage string, err error) {
	class := ErrorClass(err)
	s.recorder.RecordPipelineRun(s.now().Sub(start), 0, 0, class)
	logging.Warn(logger, "prediction failed",
		logging.FieldSeason, req.Season,
		logging.FieldPlayerCount, req.PlayerCount,
		logging.FieldStage, stage,
		"class", class,
		"err", err,
	)
}

// ErrorClass maps a pipeline error to a low-cardinality label.
func ErrorClass(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ClassCanceled
	case errors.Is(err, providers.ErrUnauthorized):
		return ClassUpstreamUnauthorized
	case errors.Is(err, providers.ErrUpstreamUnavailable):
		return ClassUpstreamUnavailable
	case errors.Is(err, dataset.ErrEmptyJoinResult):
		return ClassEmptyJoin
	case errors.Is(err, dataset.ErrDataUnavailable):
		return ClassDataUnavailable
	case errors.Is(err, predictor.ErrInsufficientData):
		return ClassInsufficientData
	default:
		return ClassInternal
	}
}
