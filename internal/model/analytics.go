package model

// MoodHistoryRow aggregates one mood on one calendar day (UTC, YYYY-MM-DD).
type MoodHistoryRow struct {
	Date                 string   `json:"date"`
	MoodType             MoodType `json:"moodType"`
	SessionCount         int      `json:"sessionCount"`
	TotalDurationSeconds int      `json:"totalDurationSeconds"`
	AverageRating        float64  `json:"averageRating"`
}

type MoodSummary struct {
	MoodType             MoodType `json:"moodType"`
	SessionCount         int      `json:"sessionCount"`
	TotalDurationSeconds int      `json:"totalDurationSeconds"`
	AverageRating        float64  `json:"averageRating"`
}
