package balldontlie

import "github.com/preston-bernstein/nba-improvement-service/internal/domain/stats"

const providerName = "balldontlie"

type playersResponse struct {
	Data []playerResponse `json:"data"`
	Meta metaResponse     `json:"meta"`
}

type playerResponse struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type metaResponse struct {
	NextCursor *int `json:"next_cursor"`
	PerPage    int  `json:"per_page"`
}

type seasonAveragesResponse struct {
	Data []seasonAverageResponse `json:"data"`
}

type seasonAverageResponse struct {
	PlayerID    int           `json:"player_id"`
	Season      int           `json:"season"`
	GamesPlayed int           `json:"games_played"`
	Pts         *float64      `json:"pts"`
	Ast         *float64      `json:"ast"`
	Reb         *float64      `json:"reb"`
	Min         stats.Minutes `json:"min"`
}
