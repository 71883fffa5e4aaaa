package leaderboardservice

// RefreshResult reports the rows touched by one refresh.
type RefreshResult struct {
	Updated  int
	Inserted int
	Ranked   int
}

// ListRequest selects a page of the leaderboard. A nil Page means "the page of
// PublicKey"; an explicit page below 1 is page 1.
type ListRequest struct {
	Page      *int
	Limit     int
	PublicKey string
}

// PageEntry is a leaderboard row as shown publicly.
type PageEntry struct {
	PublicKey  string `json:"publicKey"`
	Rank       int    `json:"rank"`
	TotalScore int    `json:"totalScore"`
}

// Pagination describes the returned page.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// UserContext places the requesting applicant relative to the page.
type UserContext struct {
	Rank            int  `json:"rank"`
	TotalScore      int  `json:"totalScore"`
	IsOnCurrentPage bool `json:"isOnCurrentPage"`
}

// LeaderboardPage is one page of ranked entries.
type LeaderboardPage struct {
	Leaderboard []PageEntry `json:"leaderboard"`
	Pagination  Pagination  `json:"pagination"`
	UserContext UserContext `json:"userContext"`
}

// UserEntry is a single applicant's standing. Rank 0 means unranked.
type UserEntry struct {
	Rank       int `json:"rank"`
	TotalScore int `json:"totalScore"`
}
