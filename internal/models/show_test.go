package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPartitionShows(t *testing.T) {
	now := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	past := &Show{ID: 1, StartTime: now.Add(-48 * time.Hour)}
	atNow := &Show{ID: 2, StartTime: now}
	future := &Show{ID: 3, StartTime: now.Add(72 * time.Hour)}

	upcoming, before := PartitionShows([]*Show{past, atNow, future}, now)

	assert.Equal(t, []*Show{atNow, future}, upcoming)
	assert.Equal(t, []*Show{past}, before)
}

func TestPartitionShows_Empty(t *testing.T) {
	upcoming, past := PartitionShows(nil, time.Now())
	assert.NotNil(t, upcoming)
	assert.NotNil(t, past)
	assert.Empty(t, upcoming)
	assert.Empty(t, past)
}

func TestCountUpcoming(t *testing.T) {
	now := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	shows := []*Show{
		{VenueID: 1, StartTime: now.Add(time.Hour)},
		{VenueID: 1, StartTime: now.Add(2 * time.Hour)},
		{VenueID: 1, StartTime: now.Add(-time.Hour)},
		{VenueID: 2, StartTime: now},
		{VenueID: 3, StartTime: now.Add(-time.Minute)},
	}

	counts := CountUpcoming(shows, now, func(s *Show) int64 { return s.VenueID })

	assert.Equal(t, 2, counts[1])
	assert.Equal(t, 1, counts[2])
	assert.Equal(t, 0, counts[3])
}

func TestSortByStart(t *testing.T) {
	now := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	a := &Show{ID: 1, StartTime: now.Add(2 * time.Hour)}
	b := &Show{ID: 2, StartTime: now}
	c := &Show{ID: 3, StartTime: now.Add(time.Hour)}

	shows := []*Show{a, b, c}
	SortByStart(shows, true)
	assert.Equal(t, []*Show{b, c, a}, shows)

	SortByStart(shows, false)
	assert.Equal(t, []*Show{a, c, b}, shows)
}
