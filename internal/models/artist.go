package models

import (
	"github.com/uptrace/bun"
)

// Artist columns are all nullable at the schema level; the artist form
// is what makes Name mandatory.
type Artist struct {
	bun.BaseModel `bun:"table:artists,alias:a"`

	ID                 int64  `bun:"id,pk,autoincrement" json:"id"`
	Name               string `bun:"name" json:"name"`
	City               string `bun:"city,type:varchar(120)" json:"city"`
	State              string `bun:"state,type:varchar(120)" json:"state"`
	Phone              string `bun:"phone,type:varchar(120)" json:"phone"`
	Genres             string `bun:"genres,type:varchar(120)" json:"genres"`
	ImageLink          string `bun:"image_link,type:varchar(500)" json:"image_link"`
	FacebookLink       string `bun:"facebook_link,type:varchar(120)" json:"facebook_link"`
	Website            string `bun:"website,type:varchar(120)" json:"website"`
	SeekingVenue       bool   `bun:"seeking_venue" json:"seeking_venue"`
	SeekingDescription string `bun:"seeking_description,type:text" json:"seeking_description"`

	Shows []*Show `bun:"rel:has-many,join:id=artist_id" json:"-"`
}

type ArtistSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}
