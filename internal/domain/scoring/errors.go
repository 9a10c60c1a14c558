package scoring

import "errors"

var (
	ErrScoreOutOfRange = errors.New("score out of range")
	ErrInvalidBounds   = errors.New("invalid score bounds")
)
