package competitiondb

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Competition is a scheduled club competition and its team configuration.
type Competition struct {
	bun.BaseModel    `bun:"table:competitions,alias:c"`
	ID               uuid.UUID         `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Title            string            `bun:"title,notnull"`
	Location         string            `bun:"location,nullzero"`
	StartTime        time.Time         `bun:"start_time,notnull"`
	EndTime          time.Time         `bun:"end_time,notnull"`
	Format           string            `bun:"format,notnull"`
	TeamScoringMode  *string           `bun:"team_scoring_mode"`
	TeamDisplayNames map[string]string `bun:"team_display_names,type:jsonb"`
	TeamColors       map[string]string `bun:"team_colors,type:jsonb"`
	CreatedAt        time.Time         `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time         `bun:",nullzero,notnull,default:current_timestamp"`
}

// MemberScore is a score submitted for a registered member.
type MemberScore struct {
	bun.BaseModel `bun:"table:member_scores,alias:ms"`
	ID            uuid.UUID           `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	CompetitionID uuid.UUID           `bun:"competition_id,type:uuid,notnull"`
	PlayerID      uuid.UUID           `bun:"player_id,type:uuid,notnull"`
	GroupNumber   *int                `bun:"group_number"`
	TeamName      *string             `bun:"team_name"`
	HoleScores    json.RawMessage     `bun:"hole_scores,type:jsonb"`
	TotalStrokes  *int                `bun:"total_strokes"`
	NetStrokes    *int                `bun:"net_strokes"`
	Handicap      decimal.NullDecimal `bun:"handicap,type:numeric(4,1)"`
	Rank          *int                `bun:"rank"`
	CreatedAt     time.Time           `bun:",nullzero,notnull,default:current_timestamp"`
}

// GuestScore is a score submitted for an unregistered guest.
type GuestScore struct {
	bun.BaseModel `bun:"table:guest_scores,alias:gs"`
	ID            uuid.UUID           `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	CompetitionID uuid.UUID           `bun:"competition_id,type:uuid,notnull"`
	GuestName     string              `bun:"guest_name,notnull"`
	GroupNumber   *int                `bun:"group_number"`
	TeamName      *string             `bun:"team_name"`
	HoleScores    json.RawMessage     `bun:"hole_scores,type:jsonb"`
	TotalStrokes  *int                `bun:"total_strokes"`
	NetStrokes    *int                `bun:"net_strokes"`
	Handicap      decimal.NullDecimal `bun:"handicap,type:numeric(4,1)"`
	Rank          *int                `bun:"rank"`
	CreatedAt     time.Time           `bun:",nullzero,notnull,default:current_timestamp"`
}

// MemberProfile is the public profile of a club member.
type MemberProfile struct {
	bun.BaseModel `bun:"table:member_profiles,alias:mp"`
	PlayerID      uuid.UUID `bun:"player_id,pk,type:uuid"`
	DisplayName   string    `bun:"display_name,notnull"`
	UpdatedAt     time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
