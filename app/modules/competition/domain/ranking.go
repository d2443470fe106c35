package competitiondomain

import (
	"cmp"
	"slices"
)

// PodiumSize is the number of individual finishers shown in summaries.
const PodiumSize = 3

// RankIndividuals orders entries ascending by total strokes.
//
// Entries with equal strokes share a rank equal to their 1-based position among
// the distinct stroke values (70, 72, 72, 75 ranks as 1, 2, 2, 3). Position keeps
// the plain sorted slot. Inside a tie the stored rank hint, then the display name
// and player key decide the order. Entries without total strokes are returned as
// Unscored.
func RankIndividuals(entries []ScoreEntry) (RankingResult, error) {
	if len(entries) == 0 {
		return RankingResult{}, ErrNoEntries
	}

	var scored, unscored []ScoreEntry
	for _, e := range entries {
		if e.TotalStrokes == nil {
			unscored = append(unscored, e)
			continue
		}
		scored = append(scored, e)
	}

	slices.SortStableFunc(scored, compareStrokePlay)

	ranked := make([]RankedEntry, len(scored))
	rank := 0
	for i, e := range scored {
		if i == 0 || *e.TotalStrokes != *scored[i-1].TotalStrokes {
			rank++
		}
		ranked[i] = RankedEntry{Entry: e, Rank: rank, Position: i + 1}
	}

	return RankingResult{
		Ranked:   ranked,
		Unscored: sortedEntries(unscored),
	}, nil
}

// Podium returns the first n ranked entries. Slots are positional: tied entries
// beyond the n-th slot are not included.
func Podium(result RankingResult, n int) []RankedEntry {
	if n > len(result.Ranked) {
		n = len(result.Ranked)
	}
	if n <= 0 {
		return nil
	}
	return slices.Clone(result.Ranked[:n])
}

func compareStrokePlay(a, b ScoreEntry) int {
	if c := cmp.Compare(*a.TotalStrokes, *b.TotalStrokes); c != 0 {
		return c
	}
	if c := compareRankHint(a.AssignedRank, b.AssignedRank); c != 0 {
		return c
	}
	return compareIdentity(a, b)
}

// compareRankHint orders present hints ascending and puts missing hints last.
func compareRankHint(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}
