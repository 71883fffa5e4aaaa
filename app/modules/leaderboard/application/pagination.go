package leaderboardservice

const (
	defaultLimit = 10
	maxLimit     = 100
)

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > maxLimit {
		return defaultLimit
	}
	return limit
}

// userPage is the page holding rank. Unranked applicants land on page 1.
func userPage(rank, limit int) int {
	if rank <= 0 {
		return 1
	}
	return (rank-1)/limit + 1
}

func isOnPage(rank, page, limit int) bool {
	if rank <= 0 {
		return false
	}
	start := (page-1)*limit + 1
	end := page * limit
	return rank >= start && rank <= end
}

// MaskPublicKey shortens keys longer than 8 characters to first4...last4.
func MaskPublicKey(publicKey string) string {
	if len(publicKey) <= 8 {
		return publicKey
	}
	return publicKey[:4] + "..." + publicKey[len(publicKey)-4:]
}
