package competitiondomain

import (
	"errors"
	"fmt"
)

// Hard failures. Data-quality problems never surface as errors; they are
// reported as Issues alongside partial results.
var (
	// ErrNoEntries indicates an operation received an empty entry collection.
	ErrNoEntries = errors.New("no score entries")

	// ErrNoCompetitions indicates the summarizer received no competitions.
	ErrNoCompetitions = errors.New("no competitions")

	// ErrInvalidFormat indicates a competition format outside the known set.
	ErrInvalidFormat = errors.New("invalid competition format")

	// ErrInvalidScoringMode indicates a team scoring mode outside the known set.
	ErrInvalidScoringMode = errors.New("invalid team scoring mode")
)

// IssueKind classifies a data-quality problem found while scoring.
type IssueKind string

const (
	IssueMalformedEntry       IssueKind = "malformed_entry"
	IssueMissingConfiguration IssueKind = "missing_configuration"
	IssueIncompleteGroup      IssueKind = "incomplete_group"
	IssueUnscorableEntry      IssueKind = "unscorable_entry"
	IssueUnassignedTeam       IssueKind = "unassigned_team"
	// IssueInvalidConfiguration marks a competition left out of a summary because
	// its format or scoring mode is unknown.
	IssueInvalidConfiguration IssueKind = "invalid_configuration"
)

// Issue flags partial or degraded data so the presentation layer can show it.
type Issue struct {
	Kind          IssueKind `json:"kind"`
	CompetitionID string    `json:"competition_id"`
	GroupNumber   *int      `json:"group_number,omitempty"`
	Subject       string    `json:"subject,omitempty"`
	Detail        string    `json:"detail"`
}

func (i Issue) String() string {
	if i.GroupNumber != nil {
		return fmt.Sprintf("%s [group %d] %s: %s", i.Kind, *i.GroupNumber, i.Subject, i.Detail)
	}
	return fmt.Sprintf("%s %s: %s", i.Kind, i.Subject, i.Detail)
}

// validate checks the enumerated fields of a competition.
// A missing scoring mode on a team competition is not an error; it yields an issue.
func validateCompetition(c Competition) ([]Issue, error) {
	switch c.Format {
	case FormatIndividual, FormatTeam:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format)
	}

	switch c.TeamScoringMode {
	case "", ScoringMatchPlay, ScoringAggregateStrokes:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidScoringMode, c.TeamScoringMode)
	}

	if c.Format == FormatTeam && c.TeamScoringMode == "" {
		return []Issue{{
			Kind:          IssueMissingConfiguration,
			CompetitionID: c.ID,
			Subject:       c.Title,
			Detail:        "team scoring mode unset, using match play",
		}}, nil
	}
	return nil, nil
}

func intPtr(v int) *int { return &v }
