package models

// Requests for screening HTTP endpoints. Defined in domain for consistency and reuse.

type RunScreeningRequest struct {
	Coins      []string `json:"coins" validate:"required,min=1,dive,required"`
	Anchor     string   `json:"anchor"`
	Direction  string   `json:"direction" default:"backward" validate:"oneof=backward forward"`
	Timeframes []int    `json:"timeframes" validate:"required,min=1,dive,gt=0"`
	OrderBy    string   `json:"order_by" default:"total_score" validate:"oneof=total_score average_return best_rank"`
	Async      bool     `json:"async"`
}

type LeaderboardRequest struct {
	Anchor    string `query:"anchor" json:"anchor"`
	Direction string `query:"direction" json:"direction" default:"backward" validate:"oneof=backward forward"`
	Limit     int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type StatisticsRequest struct {
	Anchor    string `query:"anchor" json:"anchor"`
	Direction string `query:"direction" json:"direction" default:"backward" validate:"oneof=backward forward"`
}
