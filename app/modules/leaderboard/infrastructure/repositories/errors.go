package leaderboarddb

import "errors"

// ErrNotFound indicates the requested entry does not exist.
var ErrNotFound = errors.New("not found")
