package competitiontime

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceTimeParser_Parse(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	now := time.Date(2026, 6, 1, 17, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		loc     *time.Location
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "empty input is now",
			input: "  ",
			want:  now,
		},
		{
			name:  "rfc3339",
			input: "2026-05-10T18:30:00-05:00",
			want:  time.Date(2026, 5, 10, 23, 30, 0, 0, time.UTC),
		},
		{
			name:  "date covers the whole day in utc",
			input: "2026-05-10",
			want:  time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "date covers the whole day in configured zone",
			loc:   chicago,
			input: "2026-05-10",
			want:  time.Date(2026, 5, 11, 5, 0, 0, 0, time.UTC),
		},
		{
			name:    "gibberish",
			input:   "blorp",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewReferenceTimeParser(tt.loc).Parse(tt.input, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnrecognizedTime)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestReferenceTimeParser_NaturalLanguage(t *testing.T) {
	now := time.Date(2026, 6, 1, 17, 0, 0, 0, time.UTC)

	got, err := NewReferenceTimeParser(time.UTC).Parse("Yesterday", now)
	require.NoError(t, err)

	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.May, got.Month())
	assert.Equal(t, 31, got.Day())
}
