package competitionservice

import (
	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
	competitiondb "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/repositories"
	"github.com/google/uuid"
)

func toDomainCompetition(c competitiondb.Competition) competitiondomain.Competition {
	var mode competitiondomain.TeamScoringMode
	if c.TeamScoringMode != nil {
		mode = competitiondomain.TeamScoringMode(*c.TeamScoringMode)
	}
	return competitiondomain.Competition{
		ID:               c.ID.String(),
		Title:            c.Title,
		StartTime:        c.StartTime,
		EndTime:          c.EndTime,
		Location:         c.Location,
		Format:           competitiondomain.Format(c.Format),
		TeamScoringMode:  mode,
		TeamDisplayNames: c.TeamDisplayNames,
		TeamColors:       c.TeamColors,
	}
}

func toMemberRecords(scores []competitiondb.MemberScore) []competitiondomain.MemberRecord {
	records := make([]competitiondomain.MemberRecord, 0, len(scores))
	for _, s := range scores {
		records = append(records, competitiondomain.MemberRecord{
			RecordFields: competitiondomain.RecordFields{
				ID:            s.ID.String(),
				CompetitionID: s.CompetitionID.String(),
				GroupNumber:   s.GroupNumber,
				TeamName:      s.TeamName,
				HoleScores:    s.HoleScores,
				TotalStrokes:  s.TotalStrokes,
				NetStrokes:    s.NetStrokes,
				Handicap:      s.Handicap.Decimal,
				AssignedRank:  s.Rank,
			},
			PlayerID: s.PlayerID.String(),
		})
	}
	return records
}

func toGuestRecords(scores []competitiondb.GuestScore) []competitiondomain.GuestRecord {
	records := make([]competitiondomain.GuestRecord, 0, len(scores))
	for _, s := range scores {
		records = append(records, competitiondomain.GuestRecord{
			RecordFields: competitiondomain.RecordFields{
				ID:            s.ID.String(),
				CompetitionID: s.CompetitionID.String(),
				GroupNumber:   s.GroupNumber,
				TeamName:      s.TeamName,
				HoleScores:    s.HoleScores,
				TotalStrokes:  s.TotalStrokes,
				NetStrokes:    s.NetStrokes,
				Handicap:      s.Handicap.Decimal,
				AssignedRank:  s.Rank,
			},
			GuestName: s.GuestName,
		})
	}
	return records
}

// playerIDs returns the distinct player ids of the member scores, in first-seen order.
func playerIDs(scores []competitiondb.MemberScore) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(scores))
	ids := make([]uuid.UUID, 0, len(scores))
	for _, s := range scores {
		if seen[s.PlayerID] {
			continue
		}
		seen[s.PlayerID] = true
		ids = append(ids, s.PlayerID)
	}
	return ids
}

func profileNames(profiles []competitiondb.MemberProfile) map[string]string {
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.PlayerID.String()] = p.DisplayName
	}
	return names
}
