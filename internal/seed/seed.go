// Package seed fills a database with plausible venues, artists and shows
// for local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/uptrace/bun"

	artist_db "fyyur/internal/artist/db"
	"fyyur/internal/database"
	"fyyur/internal/forms"
	"fyyur/internal/logger"
	"fyyur/internal/models"
	show_db "fyyur/internal/show/db"
	venue_db "fyyur/internal/venue/db"
)

type Options struct {
	Venues  int
	Artists int
	Shows   int
	// Seed makes the generated data reproducible. Zero picks one from the clock.
	Seed int64
	Now  time.Time
}

type Result struct {
	Venues  int `json:"venues"`
	Artists int `json:"artists"`
	Shows   int `json:"shows"`
}

type generator struct {
	faker *gofakeit.Faker
}

// Run inserts everything in a single transaction. Shows are spread over
// two months either side of opts.Now so both past and upcoming lists fill.
func Run(ctx context.Context, db *bun.DB, opts Options, log *logger.Logger) (*Result, error) {
	if opts.Shows > 0 && (opts.Venues == 0 || opts.Artists == 0) {
		return nil, fmt.Errorf("seed: shows need at least one venue and one artist")
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}

	g := &generator{faker: gofakeit.New(uint64(opts.Seed))}
	venues := &venue_db.DB{Bun: db}
	artists := &artist_db.DB{Bun: db}
	shows := &show_db.DB{Bun: db}
	result := &Result{}

	err := database.RunInTx(ctx, db, 0, func(ctx context.Context, tx bun.Tx) error {
		venueIDs := make([]int64, 0, opts.Venues)
		for i := 0; i < opts.Venues; i++ {
			v := g.venue()
			if err := venues.CreateVenue(ctx, tx, v); err != nil {
				return err
			}
			venueIDs = append(venueIDs, v.ID)
		}

		artistIDs := make([]int64, 0, opts.Artists)
		for i := 0; i < opts.Artists; i++ {
			a := g.artist()
			if err := artists.CreateArtist(ctx, tx, a); err != nil {
				return err
			}
			artistIDs = append(artistIDs, a.ID)
		}

		for i := 0; i < opts.Shows; i++ {
			s := &models.Show{
				VenueID:   venueIDs[g.faker.Number(0, len(venueIDs)-1)],
				ArtistID:  artistIDs[g.faker.Number(0, len(artistIDs)-1)],
				StartTime: g.startTime(opts.Now),
			}
			if err := shows.CreateShow(ctx, tx, s); err != nil {
				return err
			}
		}

		result.Venues, result.Artists, result.Shows = len(venueIDs), len(artistIDs), opts.Shows
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	log.Info("SEED", fmt.Sprintf("Inserted %d venues, %d artists, %d shows (seed %d)", result.Venues, result.Artists, result.Shows, opts.Seed))
	return result, nil
}

func (g *generator) venue() *models.Venue {
	addr := g.faker.Address()
	seeking := g.faker.Bool()
	v := &models.Venue{
		Name:          g.faker.Company(),
		City:          addr.City,
		State:         g.faker.RandomString(forms.States),
		Address:       addr.Street,
		Phone:         g.faker.Numerify("###-###-####"),
		Website:       g.faker.URL(),
		FacebookLink:  g.faker.URL(),
		ImageLink:     g.faker.URL(),
		SeekingTalent: seeking,
		Genres:        forms.JoinGenres(g.genres()),
	}
	if seeking {
		v.SeekingDescription = g.faker.Sentence(g.faker.Number(6, 14))
	}
	return v
}

func (g *generator) artist() *models.Artist {
	seeking := g.faker.Bool()
	a := &models.Artist{
		Name:         g.faker.Name(),
		City:         g.faker.Address().City,
		State:        g.faker.RandomString(forms.States),
		Phone:        g.faker.Numerify("###-###-####"),
		FacebookLink: g.faker.URL(),
		ImageLink:    g.faker.URL(),
		SeekingVenue: seeking,
		Genres:       forms.JoinGenres(g.genres()),
	}
	if seeking {
		a.SeekingDescription = g.faker.Sentence(g.faker.Number(6, 14))
	}
	return a
}

// genres picks one to three distinct genres.
func (g *generator) genres() []string {
	pool := append([]string(nil), forms.Genres...)
	g.faker.ShuffleAnySlice(pool)
	return pool[:g.faker.Number(1, 3)]
}

func (g *generator) startTime(now time.Time) time.Time {
	start := g.faker.DateRange(now.AddDate(0, -2, 0), now.AddDate(0, 2, 0))
	return start.Truncate(time.Hour).UTC()
}
