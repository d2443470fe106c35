package competitionservice

import "errors"

var (
	// ErrCompetitionNotFound is returned when the requested competition does not exist.
	ErrCompetitionNotFound = errors.New("competition not found")

	// ErrNoScores is returned when a competition exists but has no score records.
	ErrNoScores = errors.New("competition has no scores")
)
