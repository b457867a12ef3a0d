package models

import (
	"github.com/uptrace/bun"
)

type Venue struct {
	bun.BaseModel `bun:"table:venues,alias:v"`

	ID                 int64  `bun:"id,pk,autoincrement" json:"id"`
	Name               string `bun:"name,notnull" json:"name"`
	City               string `bun:"city,type:varchar(120),notnull" json:"city"`
	State              string `bun:"state,type:varchar(120),notnull" json:"state"`
	Address            string `bun:"address,type:varchar(120),notnull" json:"address"`
	Phone              string `bun:"phone,type:varchar(120),notnull" json:"phone"`
	ImageLink          string `bun:"image_link,type:varchar(500)" json:"image_link"`
	FacebookLink       string `bun:"facebook_link,type:varchar(120)" json:"facebook_link"`
	Website            string `bun:"website,type:varchar(120)" json:"website"`
	SeekingTalent      bool   `bun:"seeking_talent,notnull" json:"seeking_talent"`
	SeekingDescription string `bun:"seeking_description,type:text" json:"seeking_description"`
	Genres             string `bun:"genres,type:varchar(250)" json:"genres"`

	Shows []*Show `bun:"rel:has-many,join:id=venue_id" json:"-"`
}

// VenueSummary is the short form used in listings and search results.
type VenueSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}
