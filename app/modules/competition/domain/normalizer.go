package competitiondomain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FallbackDisplayName labels entries with neither a member profile nor a guest name.
const FallbackDisplayName = "Unknown Player"

// RecordFields are the score fields shared by member and guest records.
type RecordFields struct {
	ID            string
	CompetitionID string
	GroupNumber   *int
	TeamName      *string
	// HoleScores is the raw stored hole sequence (a JSON array), if any.
	HoleScores   json.RawMessage
	TotalStrokes *int
	NetStrokes   *int
	Handicap     decimal.Decimal
	AssignedRank *int
}

// MemberRecord is a score submitted for a registered member.
type MemberRecord struct {
	RecordFields
	PlayerID string
}

// GuestRecord is a score submitted for an unregistered guest.
type GuestRecord struct {
	RecordFields
	GuestName string
}

// Normalize merges member and guest records into unified entries.
// No record is dropped: unresolvable names fall back to FallbackDisplayName and
// malformed hole data is reported rather than rejected.
func Normalize(members []MemberRecord, guests []GuestRecord, profiles map[string]string) ([]ScoreEntry, []Issue) {
	entries := make([]ScoreEntry, 0, len(members)+len(guests))
	var issues []Issue

	for _, m := range members {
		name := strings.TrimSpace(profiles[m.PlayerID])
		if name == "" {
			name = FallbackDisplayName
		}
		entry, problems := normalizeFields(m.RecordFields, Member{PlayerID: m.PlayerID}, name)
		entries = append(entries, entry)
		issues = append(issues, problems...)
	}

	for _, g := range guests {
		guestName := strings.TrimSpace(g.GuestName)
		name := guestName
		if name == "" {
			name = FallbackDisplayName
		}
		entry, problems := normalizeFields(g.RecordFields, Guest{GuestName: guestName}, name)
		entries = append(entries, entry)
		issues = append(issues, problems...)
	}

	return entries, issues
}

func normalizeFields(f RecordFields, player Player, displayName string) (ScoreEntry, []Issue) {
	entry := ScoreEntry{
		ID:            f.ID,
		CompetitionID: f.CompetitionID,
		Player:        player,
		DisplayName:   displayName,
		GroupNumber:   f.GroupNumber,
		TotalStrokes:  f.TotalStrokes,
		NetStrokes:    f.NetStrokes,
		Handicap:      f.Handicap,
		AssignedRank:  f.AssignedRank,
	}
	if f.TeamName != nil {
		entry.TeamName = strings.TrimSpace(*f.TeamName)
	}

	card, problem := decodeHoleCard(f.HoleScores)
	entry.Holes = card

	if problem == "" {
		return entry, nil
	}
	return entry, []Issue{{
		Kind:          IssueMalformedEntry,
		CompetitionID: f.CompetitionID,
		GroupNumber:   f.GroupNumber,
		Subject:       displayName,
		Detail:        problem,
	}}
}

// decodeHoleCard parses a stored hole sequence. A card is only returned when the
// sequence has exactly HoleCount elements; unusable values become missing holes.
func decodeHoleCard(raw json.RawMessage) (*HoleCard, string) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ""
	}

	var values []json.RawMessage
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return nil, "hole scores are not a list"
	}
	if len(values) != HoleCount {
		return nil, fmt.Sprintf("expected %d hole scores, got %d", HoleCount, len(values))
	}

	var card HoleCard
	var bad []string
	for i, v := range values {
		strokes, ok := parseHoleValue(v)
		if !ok {
			bad = append(bad, strconv.Itoa(i+1))
			continue
		}
		card[i] = strokes
	}

	switch {
	case len(bad) == HoleCount:
		return nil, "no usable hole scores"
	case len(bad) > 0:
		return &card, "unusable values on holes " + strings.Join(bad, ", ")
	}
	return &card, ""
}

func parseHoleValue(raw json.RawMessage) (int, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return positiveInt(n.String())
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return positiveInt(strings.TrimSpace(s))
	}
	return 0, false
}

func positiveInt(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
