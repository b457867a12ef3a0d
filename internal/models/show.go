package models

import (
	"sort"
	"time"

	"github.com/uptrace/bun"
)

// Show joins one Artist and one Venue at a start time.
type Show struct {
	bun.BaseModel `bun:"table:shows,alias:s"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	ArtistID  int64     `bun:"artist_id,notnull" json:"artist_id"`
	VenueID   int64     `bun:"venue_id,notnull" json:"venue_id"`
	StartTime time.Time `bun:"start_time,notnull" json:"start_time"`

	Artist *Artist `bun:"rel:belongs-to,join:artist_id=id" json:"-"`
	Venue  *Venue  `bun:"rel:belongs-to,join:venue_id=id" json:"-"`
}

// IsUpcoming reports whether the show starts at or after now.
// A show starting exactly at now counts as upcoming.
func (s *Show) IsUpcoming(now time.Time) bool {
	return !s.StartTime.Before(now)
}

// PartitionShows splits shows into upcoming and past relative to now,
// keeping the input order inside each group. Both results are non-nil.
func PartitionShows(shows []*Show, now time.Time) (upcoming, past []*Show) {
	upcoming = make([]*Show, 0, len(shows))
	past = make([]*Show, 0, len(shows))
	for _, show := range shows {
		if show.IsUpcoming(now) {
			upcoming = append(upcoming, show)
		} else {
			past = append(past, show)
		}
	}
	return upcoming, past
}

// CountUpcoming returns the number of upcoming shows per key.
func CountUpcoming(shows []*Show, now time.Time, key func(*Show) int64) map[int64]int {
	counts := make(map[int64]int)
	for _, show := range shows {
		if show.IsUpcoming(now) {
			counts[key(show)]++
		}
	}
	return counts
}

// SortByStart orders shows by start time, soonest first when ascending.
// Upcoming lists use ascending order and past lists descending.
func SortByStart(shows []*Show, ascending bool) {
	sort.SliceStable(shows, func(i, j int) bool {
		if ascending {
			return shows[i].StartTime.Before(shows[j].StartTime)
		}
		return shows[i].StartTime.After(shows[j].StartTime)
	})
}
