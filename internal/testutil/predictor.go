package testutil

import (
	"context"
	"sync/atomic"

	"github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"
	"github.com/preston-bernstein/nba-improvement-service/internal/improvement"
)

// SampleResult returns a small model result for handler tests.
func SampleResult(season int) stats.ModelResult {
	return stats.ModelResult{
		Season:  season,
		R2:      0.81,
		MSE:     2.5,
		Samples: 180,
		TopImprovers: []stats.RankedPlayer{
			{PlayerName: "Ada Guard", Pts: 12.5, PredictedNextPts: 16.1, PredictedImprovement: 3.6},
			{PlayerName: "Bo Center", Pts: 8.0, PredictedNextPts: 10.2, PredictedImprovement: 2.2},
		},
	}
}

// StubPredictor records requests and returns a canned result or error.
type StubPredictor struct {
	Result stats.ModelResult
	Err    error
	// Block, when set, waits for ctx to finish and returns its error.
	Block bool

	Calls atomic.Int32
	last  atomic.Pointer[improvement.Request]
}

func (p *StubPredictor) Predict(ctx context.Context, req improvement.Request) (stats.ModelResult, error) {
	p.Calls.Add(1)
	p.last.Store(&req)
	if p.Block {
		<-ctx.Done()
		return stats.ModelResult{}, ctx.Err()
	}
	if p.Err != nil {
		return stats.ModelResult{}, p.Err
	}
	return p.Result, nil
}

// LastRequest returns the most recent request, or the zero value when none was made.
func (p *StubPredictor) LastRequest() improvement.Request {
	if req := p.last.Load(); req != nil {
		return *req
	}
	return improvement.Request{}
}
