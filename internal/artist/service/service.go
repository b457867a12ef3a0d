package artist

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"fyyur/internal/database"
	"fyyur/internal/forms"
	"fyyur/internal/kafka"
	"fyyur/internal/logger"
	"fyyur/internal/models"
	"fyyur/internal/timeparse"
)

type ArtistDBLayer interface {
	ListArtists(ctx context.Context, idb bun.IDB) ([]*models.Artist, error)
	SearchArtists(ctx context.Context, idb bun.IDB, term string) ([]*models.Artist, error)
	RecentArtists(ctx context.Context, idb bun.IDB, limit int) ([]*models.Artist, error)
	GetArtistByID(ctx context.Context, idb bun.IDB, id int64) (*models.Artist, error)
	CreateArtist(ctx context.Context, idb bun.IDB, artist *models.Artist) error
	UpdateArtist(ctx context.Context, idb bun.IDB, artist *models.Artist) error
	DeleteArtist(ctx context.Context, idb bun.IDB, id int64) error
}

type ShowDBLayer interface {
	ListByArtist(ctx context.Context, idb bun.IDB, artistID int64) ([]*models.Show, error)
	ListByArtistIDs(ctx context.Context, idb bun.IDB, artistIDs []int64) ([]*models.Show, error)
	DeleteByArtist(ctx context.Context, idb bun.IDB, artistID int64) (int64, error)
}

type ArtistService struct {
	Tx        database.TxRunner
	DB        ArtistDBLayer
	Shows     ShowDBLayer
	Publisher kafka.Publisher
	Logger    *logger.Logger
	Clock     timeparse.Clock
	Timeout   time.Duration
}

func NewArtistService(tx database.TxRunner, db ArtistDBLayer, shows ShowDBLayer, publisher kafka.Publisher, log *logger.Logger, timeout time.Duration) *ArtistService {
	return &ArtistService{
		Tx:        tx,
		DB:        db,
		Shows:     shows,
		Publisher: publisher,
		Logger:    log,
		Clock:     timeparse.SystemClock{},
		Timeout:   timeout,
	}
}

type ListItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SearchResult struct {
	Count      int                    `json:"count"`
	SearchTerm string                 `json:"search_term"`
	Data       []models.ArtistSummary `json:"data"`
}

// ArtistShow is a show as listed on its artist's page.
type ArtistShow struct {
	ID             int64     `json:"id"`
	VenueID        int64     `json:"venue_id"`
	VenueName      string    `json:"venue_name"`
	VenueImageLink string    `json:"venue_image_link"`
	StartTime      time.Time `json:"start_time"`
}

type ArtistDetail struct {
	models.Artist
	Genres             []string     `json:"genres"`
	PastShows          []ArtistShow `json:"past_shows"`
	UpcomingShows      []ArtistShow `json:"upcoming_shows"`
	PastShowsCount     int          `json:"past_shows_count"`
	UpcomingShowsCount int          `json:"upcoming_shows_count"`
}

type DeleteResult struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ShowsDeleted int64  `json:"shows_deleted"`
}

func (s *ArtistService) run(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return database.RunInTx(ctx, s.Tx, s.Timeout, fn)
}

func (s *ArtistService) now() time.Time {
	return s.Clock.Now().UTC()
}

func (s *ArtistService) ListArtists(ctx context.Context) ([]ListItem, error) {
	var artists []*models.Artist
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		artists, err = s.DB.ListArtists(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}

	items := make([]ListItem, 0, len(artists))
	for _, a := range artists {
		items = append(items, ListItem{ID: a.ID, Name: a.Name})
	}
	return items, nil
}

// SearchArtists matches term against artist names ignoring case. An empty
// term matches every artist.
func (s *ArtistService) SearchArtists(ctx context.Context, term string) (*SearchResult, error) {
	var (
		artists []*models.Artist
		counts  map[int64]int
	)
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if artists, err = s.DB.SearchArtists(ctx, tx, term); err != nil {
			return err
		}
		counts, err = s.upcomingCounts(ctx, tx, artists)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search artists %q: %w", term, err)
	}

	result := &SearchResult{SearchTerm: term, Data: make([]models.ArtistSummary, 0, len(artists))}
	for _, a := range artists {
		result.Data = append(result.Data, summary(a, counts))
	}
	result.Count = len(result.Data)
	return result, nil
}

func (s *ArtistService) RecentArtists(ctx context.Context, limit int) ([]models.ArtistSummary, error) {
	var (
		artists []*models.Artist
		counts  map[int64]int
	)
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if artists, err = s.DB.RecentArtists(ctx, tx, limit); err != nil {
			return err
		}
		counts, err = s.upcomingCounts(ctx, tx, artists)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("recent artists: %w", err)
	}

	out := make([]models.ArtistSummary, 0, len(artists))
	for _, a := range artists {
		out = append(out, summary(a, counts))
	}
	return out, nil
}

func (s *ArtistService) GetArtist(ctx context.Context, id int64) (*models.Artist, error) {
	var artist *models.Artist
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		artist, err = s.DB.GetArtistByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return artist, nil
}

func (s *ArtistService) GetArtistDetail(ctx context.Context, id int64) (*ArtistDetail, error) {
	var (
		artist *models.Artist
		shows  []*models.Show
	)
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if artist, err = s.DB.GetArtistByID(ctx, tx, id); err != nil {
			return err
		}
		shows, err = s.Shows.ListByArtist(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("artist detail: %w", err)
	}

	upcoming, past := models.PartitionShows(shows, s.now())
	models.SortByStart(upcoming, true)
	models.SortByStart(past, false)

	return &ArtistDetail{
		Artist:             *artist,
		Genres:             forms.GenreList(artist.Genres),
		PastShows:          artistShows(past),
		UpcomingShows:      artistShows(upcoming),
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

func (s *ArtistService) CreateArtist(ctx context.Context, form forms.ArtistForm) (*models.Artist, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	artist := form.Artist()
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.DB.CreateArtist(ctx, tx, artist)
	})
	if err != nil {
		s.Logger.Error("ARTISTS", fmt.Sprintf("Failed to create artist %q: %v", artist.Name, err))
		return nil, fmt.Errorf("create artist: %w", err)
	}

	s.Logger.Info("ARTISTS", fmt.Sprintf("Created artist %d (%s)", artist.ID, artist.Name))
	s.publish(ctx, kafka.NewEvent(kafka.TopicArtistCreated, artist.ID, artist))
	return artist, nil
}

// UpdateArtist replaces every editable field; omitted fields become empty.
func (s *ArtistService) UpdateArtist(ctx context.Context, id int64, form forms.ArtistForm) (*models.Artist, error) {
	var artist *models.Artist
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if artist, err = s.DB.GetArtistByID(ctx, tx, id); err != nil {
			return err
		}
		if err := form.Validate(); err != nil {
			return err
		}
		form.Apply(artist)
		return s.DB.UpdateArtist(ctx, tx, artist)
	})
	if err != nil {
		s.Logger.Error("ARTISTS", fmt.Sprintf("Failed to update artist %d: %v", id, err))
		return nil, fmt.Errorf("update artist: %w", err)
	}

	s.Logger.Info("ARTISTS", fmt.Sprintf("Updated artist %d", id))
	s.publish(ctx, kafka.NewEvent(kafka.TopicArtistUpdated, artist.ID, artist))
	return artist, nil
}

// DeleteArtist removes the artist together with its shows.
func (s *ArtistService) DeleteArtist(ctx context.Context, id int64) (*DeleteResult, error) {
	result := &DeleteResult{ID: id}
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		artist, err := s.DB.GetArtistByID(ctx, tx, id)
		if err != nil {
			return err
		}
		result.Name = artist.Name

		if result.ShowsDeleted, err = s.Shows.DeleteByArtist(ctx, tx, id); err != nil {
			return err
		}
		return s.DB.DeleteArtist(ctx, tx, id)
	})
	if err != nil {
		s.Logger.Error("ARTISTS", fmt.Sprintf("Failed to delete artist %d: %v", id, err))
		return nil, fmt.Errorf("delete artist: %w", err)
	}

	s.Logger.Info("ARTISTS", fmt.Sprintf("Deleted artist %d and %d show(s)", id, result.ShowsDeleted))
	s.publish(ctx, kafka.NewEvent(kafka.TopicArtistDeleted, id, result))
	return result, nil
}

func (s *ArtistService) upcomingCounts(ctx context.Context, tx bun.IDB, artists []*models.Artist) (map[int64]int, error) {
	ids := make([]int64, 0, len(artists))
	for _, a := range artists {
		ids = append(ids, a.ID)
	}
	shows, err := s.Shows.ListByArtistIDs(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	return models.CountUpcoming(shows, s.now(), func(show *models.Show) int64 { return show.ArtistID }), nil
}

func (s *ArtistService) publish(ctx context.Context, event kafka.Event) {
	if s.Publisher == nil {
		return
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	if err := s.Publisher.Publish(ctx, event); err != nil {
		s.Logger.Warn("EVENTS", fmt.Sprintf("Failed to publish %s for %d: %v", event.Topic, event.ID, err))
	}
}

func summary(a *models.Artist, counts map[int64]int) models.ArtistSummary {
	return models.ArtistSummary{ID: a.ID, Name: a.Name, NumUpcomingShows: counts[a.ID]}
}

func artistShows(shows []*models.Show) []ArtistShow {
	out := make([]ArtistShow, 0, len(shows))
	for _, show := range shows {
		as := ArtistShow{ID: show.ID, VenueID: show.VenueID, StartTime: show.StartTime.UTC()}
		if show.Venue != nil {
			as.VenueName = show.Venue.Name
			as.VenueImageLink = show.Venue.ImageLink
		}
		out = append(out, as)
	}
	return out
}
