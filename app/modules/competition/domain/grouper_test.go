package competitiondomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupEntries(t *testing.T) {
	t.Run("missing group number lands in implicit group", func(t *testing.T) {
		noGroup := strokeEntry("zed", 80)
		grouped := strokeEntry("amy", 75)
		grouped.GroupNumber = ip(2)

		groups, issues := GroupEntries(testCompetitionID, FormatIndividual, []ScoreEntry{grouped, noGroup})

		assert.Empty(t, issues)
		require.Len(t, groups, 2)
		assert.Equal(t, ImplicitGroup, groups[0].GroupNumber)
		assert.Equal(t, "zed", groups[0].Entries[0].DisplayName)
		assert.Equal(t, 2, groups[1].GroupNumber)
		assert.Nil(t, groups[0].Teams)
	})

	t.Run("team rosters are sorted and exclude unassigned entries", func(t *testing.T) {
		entries := []ScoreEntry{
			teamEntry("dan", "Red", 1, nil),
			teamEntry("ann", "Blue", 1, nil),
			teamEntry("cat", "", 1, nil),
			teamEntry("bob", "Red", 1, nil),
		}

		groups, issues := GroupEntries(testCompetitionID, FormatTeam, entries)

		require.Len(t, groups, 1)
		assert.Len(t, groups[0].Entries, 4)
		require.Len(t, groups[0].Teams, 2)
		assert.Equal(t, "Blue", groups[0].Teams[0].TeamName)
		assert.Equal(t, "Red", groups[0].Teams[1].TeamName)
		assert.Equal(t, "bob", groups[0].Teams[1].Members[0].DisplayName)
		assert.Equal(t, "dan", groups[0].Teams[1].Members[1].DisplayName)

		require.Len(t, issues, 1)
		assert.Equal(t, IssueUnassignedTeam, issues[0].Kind)
		assert.Equal(t, "cat", issues[0].Subject)
	})

	t.Run("output does not depend on input order", func(t *testing.T) {
		a := []ScoreEntry{
			teamEntry("ann", "Blue", 2, flatCard(4)),
			teamEntry("bob", "Red", 1, flatCard(5)),
			teamEntry("cy", "Red", 2, flatCard(3)),
			teamEntry("di", "Blue", 1, flatCard(4)),
		}
		b := []ScoreEntry{a[3], a[1], a[2], a[0]}

		ga, _ := GroupEntries(testCompetitionID, FormatTeam, a)
		gb, _ := GroupEntries(testCompetitionID, FormatTeam, b)

		if diff := cmp.Diff(ga, gb, decimalComparer); diff != "" {
			t.Fatalf("groups differ by input order (-a +b):\n%s", diff)
		}
	})
}
