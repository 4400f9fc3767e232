package scoredto

// ScoreRecord mirrors a game_history row using its column names.
type ScoreRecord struct {
	GameDate    string   `json:"game_date"`
	GameName    string   `json:"game_name"`
	GameScore   string   `json:"game_score"`
	AddedTS     string   `json:"added_ts"`
	SubmitterID string   `json:"submitter_id"`
	GameDetail  *string  `json:"game_dtl"`
	Metric01    *float64 `json:"metric_01"`
	Metric02    *int     `json:"metric_02"`
	Metric03    *int     `json:"metric_03"`
}

type SubmitResponse struct {
	Record  *ScoreRecord `json:"record,omitempty"`
	Message string       `json:"message"`
}
