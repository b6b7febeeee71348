package stats

// Metrics reports model accuracy on the held-out split.
type Metrics struct {
	R2  float64 `json:"r2"`
	MSE float64 `json:"mse"`
}

// ImprovementResponse is the payload returned by /predict-improvement.
type ImprovementResponse struct {
	Season       int            `json:"season"`
	Samples      int            `json:"samples"`
	Metrics      Metrics        `json:"metrics"`
	TopImprovers []RankedPlayer `json:"top_improvers"`
}

// NewImprovementResponse builds the wire payload and keeps top_improvers a JSON array.
func NewImprovementResponse(result ModelResult) ImprovementResponse {
	top := result.TopImprovers
	if top == nil {
		top = []RankedPlayer{}
	}
	return ImprovementResponse{
		Season:       result.Season,
		Samples:      result.Samples,
		Metrics:      Metrics{R2: result.R2, MSE: result.MSE},
		TopImprovers: top,
	}
}
