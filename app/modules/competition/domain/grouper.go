package competitiondomain

import (
	"cmp"
	"slices"
)

// ImplicitGroup holds entries that carry no group number.
const ImplicitGroup = 0

// GroupEntries partitions a competition's entries by group number and, for team
// formats, by team name. Groups are returned in ascending group number.
// Team-format entries without a team stay in Group.Entries but are left out of
// Group.Teams and reported.
func GroupEntries(competitionID string, format Format, entries []ScoreEntry) ([]Group, []Issue) {
	byNumber := make(map[int][]ScoreEntry)
	for _, e := range entries {
		n := ImplicitGroup
		if e.GroupNumber != nil {
			n = *e.GroupNumber
		}
		byNumber[n] = append(byNumber[n], e)
	}

	numbers := make([]int, 0, len(byNumber))
	for n := range byNumber {
		numbers = append(numbers, n)
	}
	slices.Sort(numbers)

	groups := make([]Group, 0, len(numbers))
	var issues []Issue

	for _, n := range numbers {
		members := sortedEntries(byNumber[n])
		group := Group{
			CompetitionID: competitionID,
			GroupNumber:   n,
			Entries:       members,
		}

		if format == FormatTeam {
			var unassigned []Issue
			group.Teams, unassigned = buildRosters(competitionID, n, members)
			issues = append(issues, unassigned...)
		}

		groups = append(groups, group)
	}

	return groups, issues
}

func buildRosters(competitionID string, groupNumber int, entries []ScoreEntry) ([]TeamRoster, []Issue) {
	byTeam := make(map[string][]ScoreEntry)
	var issues []Issue

	for _, e := range entries {
		if e.TeamName == "" {
			issues = append(issues, Issue{
				Kind:          IssueUnassignedTeam,
				CompetitionID: competitionID,
				GroupNumber:   intPtr(groupNumber),
				Subject:       e.DisplayName,
				Detail:        "entry has no team and is excluded from team scoring",
			})
			continue
		}
		byTeam[e.TeamName] = append(byTeam[e.TeamName], e)
	}

	rosters := make([]TeamRoster, 0, len(byTeam))
	for name, members := range byTeam {
		rosters = append(rosters, TeamRoster{TeamName: name, Members: members})
	}
	slices.SortFunc(rosters, func(a, b TeamRoster) int {
		return cmp.Compare(a.TeamName, b.TeamName)
	})

	return rosters, issues
}

// sortedEntries returns a copy ordered by display name, then player key, then id,
// so downstream results never depend on input order.
func sortedEntries(entries []ScoreEntry) []ScoreEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, compareIdentity)
	return out
}

func compareIdentity(a, b ScoreEntry) int {
	if c := cmp.Compare(a.DisplayName, b.DisplayName); c != 0 {
		return c
	}
	if c := cmp.Compare(a.PlayerKey(), b.PlayerKey()); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
