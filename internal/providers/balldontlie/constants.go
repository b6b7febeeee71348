package balldontlie

import "time"

const (
	defaultBaseURL     = "https://api.balldontlie.io/v1"
	defaultPerPage     = 100
	defaultHTTPTimeout = 15 * time.Second
	defaultMaxPages    = 5
	errorBodyLimit     = 512

	playersPath        = "/players"
	seasonAveragesPath = "/season_averages"
)
