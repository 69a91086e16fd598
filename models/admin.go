package models

// AdminStats are the dashboard headline numbers, recomputed on every poll.
type AdminStats struct {
	TotalUsers       int `json:"totalUsers"`
	ActiveUsers      int `json:"activeUsers"`
	CompletedQuizzes int `json:"completedQuizzes"`
	AverageScore     int `json:"averageScore"`
}

// UserSummary is the per-user dashboard read model.
type UserSummary struct {
	User
	IsActive          bool   `json:"isActive"`
	TotalAttempts     int    `json:"totalAttempts"`
	CompletedAttempts int    `json:"completedAttempts"`
	BestScore         int    `json:"bestScore"`
	AverageScore      int    `json:"averageScore"`
	HasInProgressQuiz bool   `json:"hasInProgressQuiz"`
	LastSeen          string `json:"lastSeen"`
}
