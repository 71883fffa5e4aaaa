package applicantdb

import "errors"

// ErrNotFound indicates the requested applicant does not exist.
var ErrNotFound = errors.New("applicant not found")
