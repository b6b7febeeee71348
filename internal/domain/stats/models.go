package stats

import "math"

// SeasonAverage is one player's per-game averages for a season as reported upstream.
// Nil stat pointers mean the upstream omitted or nulled the value.
type SeasonAverage struct {
	PlayerID    int      `json:"player_id"`
	Season      int      `json:"season"`
	GamesPlayed int      `json:"games_played"`
	Pts         *float64 `json:"pts"`
	Ast         *float64 `json:"ast"`
	Reb         *float64 `json:"reb"`
	Min         Minutes  `json:"min"`
}

// SeasonStatRow is a normalized season average. Missing values are NaN.
type SeasonStatRow struct {
	PlayerID   int
	PlayerName string
	Season     int
	Pts        float64
	Ast        float64
	Reb        float64
	Min        float64
}

// TrainingRow pairs one season's features with the following season's points.
type TrainingRow struct {
	PlayerID   int
	PlayerName string
	Pts        float64
	Ast        float64
	Reb        float64
	Min        float64
	NextPts    float64
}

// FeatureCount is the number of regression features per row.
const FeatureCount = 4

// Features returns the regression inputs in fixed order: pts, ast, reb, min.
func (r TrainingRow) Features() [FeatureCount]float64 {
	return [FeatureCount]float64{r.Pts, r.Ast, r.Reb, r.Min}
}

// HasMissing reports whether any feature or the target is NaN or infinite.
func (r TrainingRow) HasMissing() bool {
	for _, v := range r.Features() {
		if missing(v) {
			return true
		}
	}
	return missing(r.NextPts)
}

func missing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// TrainingTable is the ordered joined dataset fed to the predictor.
type TrainingTable []TrainingRow

// RankedPlayer is one entry of the improvement ranking.
type RankedPlayer struct {
	PlayerName           string  `json:"player"`
	Pts                  float64 `json:"pts"`
	PredictedNextPts     float64 `json:"predicted_next_pts"`
	PredictedImprovement float64 `json:"predicted_improvement"`
}

// ModelResult carries fit quality and the top predicted improvers.
type ModelResult struct {
	Season       int
	R2           float64
	MSE          float64
	Samples      int
	TopImprovers []RankedPlayer
}
