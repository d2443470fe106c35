package competitiontime

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognizedTime is returned when an input matches no known time format.
var ErrUnrecognizedTime = errors.New("unrecognized time")

// ReferenceTimeParser turns user supplied "as of" moments into UTC instants.
type ReferenceTimeParser struct {
	loc    *time.Location
	parser *when.Parser
}

// NewReferenceTimeParser creates a parser that resolves dates in loc.
func NewReferenceTimeParser(loc *time.Location) *ReferenceTimeParser {
	if loc == nil {
		loc = time.UTC
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &ReferenceTimeParser{loc: loc, parser: w}
}

// Parse resolves input relative to now.
//
// An empty input yields now. RFC3339 timestamps are taken as is. A bare date
// (2006-01-02) covers that whole day, so it yields the following midnight in
// the parser's location. Anything else goes through natural language parsing
// ("yesterday", "last friday 6pm").
func (p *ReferenceTimeParser) Parse(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return now.UTC(), nil
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC(), nil
	}

	if d, err := time.ParseInLocation(time.DateOnly, input, p.loc); err == nil {
		return d.AddDate(0, 0, 1).UTC(), nil
	}

	r, err := p.parser.Parse(strings.ToLower(input), now.In(p.loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrUnrecognizedTime, input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognizedTime, input)
	}
	return r.Time.UTC(), nil
}
