package venue

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

type VenueDBLayer interface {
	ListVenues(ctx context.Context, idb bun.IDB) ([]*models.Venue, error)
	SearchVenues(ctx context.Context, idb bun.IDB, term string) ([]*models.Venue, error)
	RecentVenues(ctx context.Context, idb bun.IDB, limit int) ([]*models.Venue, error)
	GetVenueByID(ctx context.Context, idb bun.IDB, id int64) (*models.Venue, error)
	CreateVenue(ctx context.Context, idb bun.IDB, venue *models.Venue) error
	UpdateVenue(ctx context.Context, idb bun.IDB, venue *models.Venue) error
	DeleteVenue(ctx context.Context, idb bun.IDB, id int64) error
}

type ShowDBLayer interface {
	ListByVenue(ctx context.Context, idb bun.IDB, venueID int64) ([]*models.Show, error)
	ListByVenueIDs(ctx context.Context, idb bun.IDB, venueIDs []int64) ([]*models.Show, error)
	DeleteByVenue(ctx context.Context, idb bun.IDB, venueID int64) (int64, error)
}

type VenueService struct {
	Tx        database.TxRunner
	DB        VenueDBLayer
	Shows     ShowDBLayer
	Publisher kafka.Publisher
	Logger    *logger.Logger
	Clock     timeparse.Clock
	Timeout   time.Duration
}

func NewVenueService(tx database.TxRunner, db VenueDBLayer, shows ShowDBLayer, publisher kafka.Publisher, log *logger.Logger, timeout time.Duration) *VenueService {
	return &VenueService{
		Tx:        tx,
		DB:        db,
		Shows:     shows,
		Publisher: publisher,
		Logger:    log,
		Clock:     timeparse.SystemClock{},
		Timeout:   timeout,
	}
}

// Area groups the venues of one city and state.
type Area struct {
	City   string                `json:"city"`
	State  string                `json:"state"`
	Venues []models.VenueSummary `json:"venues"`
}

type SearchResult struct {
	Count      int                   `json:"count"`
	SearchTerm string                `json:"search_term"`
	Data       []models.VenueSummary `json:"data"`
}

// VenueShow is a show as listed on its venue's page.
type VenueShow struct {
	ID              int64     `json:"id"`
	ArtistID        int64     `json:"artist_id"`
	ArtistName      string    `json:"artist_name"`
	ArtistImageLink string    `json:"artist_image_link"`
	StartTime       time.Time `json:"start_time"`
}

type VenueDetail struct {
	models.Venue
	Genres             []string    `json:"genres"`
	PastShows          []VenueShow `json:"past_shows"`
	UpcomingShows      []VenueShow `json:"upcoming_shows"`
	PastShowsCount     int         `json:"past_shows_count"`
	UpcomingShowsCount int         `json:"upcoming_shows_count"`
}

type DeleteResult struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ShowsDeleted int64  `json:"shows_deleted"`
}

func (s *VenueService) run(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return database.RunInTx(ctx, s.Tx, s.Timeout, fn)
}

func (s *VenueService) now() time.Time {
	return s.Clock.Now().UTC()
}

// ListVenues returns every venue exactly once, grouped by area.
func (s *VenueService) ListVenues(ctx context.Context) ([]Area, error) {
	var (
		venues []*models.Venue
		counts map[int64]int
	)
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if venues, err = s.DB.ListVenues(ctx, tx); err != nil {
			return err
		}
		counts, err = s.upcomingCounts(ctx, tx, venues)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}

	areas := []Area{}
	index := map[[2]string]int{}
	for _, v := range venues {
		key := [2]string{v.City, v.State}
		i, ok := index[key]
		if !ok {
			i = len(areas)
			index[key] = i
			areas = append(areas, Area{City: v.City, State: v.State, Venues: []models.VenueSummary{}})
		}
		areas[i].Venues = append(areas[i].Venues, summary(v, counts))
	}
	return areas, nil
}

// SearchVenues matches term against venue names ignoring case. An empty
// term matches every venue.
func (s *VenueService) SearchVenues(ctx context.Context, term string) (*SearchResult, error) {
	var (
		venues []*models.Venue
		counts map[int64]int
	)
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if venues, err = s.DB.SearchVenues(ctx, tx, term); err != nil {
			return err
		}
		counts, err = s.upcomingCounts(ctx, tx, venues)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search venues %q: %w", term, err)
	}

	result := &SearchResult{SearchTerm: term, Data: make([]models.VenueSummary, 0, len(venues))}
	for _, v := range venues {
		result.Data = append(result.Data, summary(v, counts))
	}
	result.Count = len(result.Data)
	return result, nil
}

func (s *VenueService) RecentVenues(ctx context.Context, limit int) ([]models.VenueSummary, error) {
	var (
		venues []*models.Venue
		counts map[int64]int
	)
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if venues, err = s.DB.RecentVenues(ctx, tx, limit); err != nil {
			return err
		}
		counts, err = s.upcomingCounts(ctx, tx, venues)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("recent venues: %w", err)
	}

	out := make([]models.VenueSummary, 0, len(venues))
	for _, v := range venues {
		out = append(out, summary(v, counts))
	}
	return out, nil
}

func (s *VenueService) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	var venue *models.Venue
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		venue, err = s.DB.GetVenueByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return venue, nil
}

// GetVenueDetail loads the venue and splits its shows into past and
// upcoming. A show starting exactly now is upcoming.
func (s *VenueService) GetVenueDetail(ctx context.Context, id int64) (*VenueDetail, error) {
	var (
		venue *models.Venue
		shows []*models.Show
	)
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if venue, err = s.DB.GetVenueByID(ctx, tx, id); err != nil {
			return err
		}
		shows, err = s.Shows.ListByVenue(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("venue detail: %w", err)
	}

	upcoming, past := models.PartitionShows(shows, s.now())
	models.SortByStart(upcoming, true)
	models.SortByStart(past, false)

	detail := &VenueDetail{
		Venue:              *venue,
		Genres:             forms.GenreList(venue.Genres),
		PastShows:          venueShows(past),
		UpcomingShows:      venueShows(upcoming),
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}
	return detail, nil
}

func (s *VenueService) CreateVenue(ctx context.Context, form forms.VenueForm) (*models.Venue, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	venue := form.Venue()
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.DB.CreateVenue(ctx, tx, venue)
	})
	if err != nil {
		s.Logger.Error("VENUES", fmt.Sprintf("Failed to create venue %q: %v", venue.Name, err))
		return nil, fmt.Errorf("create venue: %w", err)
	}

	s.Logger.Info("VENUES", fmt.Sprintf("Created venue %d (%s)", venue.ID, venue.Name))
	s.publish(ctx, kafka.NewEvent(kafka.TopicVenueCreated, venue.ID, venue))
	return venue, nil
}

// UpdateVenue replaces every editable field of an existing venue.
func (s *VenueService) UpdateVenue(ctx context.Context, id int64, form forms.VenueForm) (*models.Venue, error) {
	var venue *models.Venue
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if venue, err = s.DB.GetVenueByID(ctx, tx, id); err != nil {
			return err
		}
		if err := form.Validate(); err != nil {
			return err
		}
		form.Apply(venue)
		return s.DB.UpdateVenue(ctx, tx, venue)
	})
	if err != nil {
		s.Logger.Error("VENUES", fmt.Sprintf("Failed to update venue %d: %v", id, err))
		return nil, fmt.Errorf("update venue: %w", err)
	}

	s.Logger.Info("VENUES", fmt.Sprintf("Updated venue %d", id))
	s.publish(ctx, kafka.NewEvent(kafka.TopicVenueUpdated, venue.ID, venue))
	return venue, nil
}

// DeleteVenue removes the venue together with its shows.
func (s *VenueService) DeleteVenue(ctx context.Context, id int64) (*DeleteResult, error) {
	result := &DeleteResult{ID: id}
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		venue, err := s.DB.GetVenueByID(ctx, tx, id)
		if err != nil {
			return err
		}
		result.Name = venue.Name

		if result.ShowsDeleted, err = s.Shows.DeleteByVenue(ctx, tx, id); err != nil {
			return err
		}
		return s.DB.DeleteVenue(ctx, tx, id)
	})
	if err != nil {
		s.Logger.Error("VENUES", fmt.Sprintf("Failed to delete venue %d: %v", id, err))
		return nil, fmt.Errorf("delete venue: %w", err)
	}

	s.Logger.Info("VENUES", fmt.Sprintf("Deleted venue %d and %d show(s)", id, result.ShowsDeleted))
	s.publish(ctx, kafka.NewEvent(kafka.TopicVenueDeleted, id, result))
	return result, nil
}

func (s *VenueService) upcomingCounts(ctx context.Context, tx bun.IDB, venues []*models.Venue) (map[int64]int, error) {
	ids := make([]int64, 0, len(venues))
	for _, v := range venues {
		ids = append(ids, v.ID)
	}
	shows, err := s.Shows.ListByVenueIDs(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	return models.CountUpcoming(shows, s.now(), func(show *models.Show) int64 { return show.VenueID }), nil
}

// publish runs after commit, so a broker failure is only logged.
func (s *VenueService) publish(ctx context.Context, event kafka.Event) {
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

func summary(v *models.Venue, counts map[int64]int) models.VenueSummary {
	return models.VenueSummary{ID: v.ID, Name: v.Name, NumUpcomingShows: counts[v.ID]}
}

func venueShows(shows []*models.Show) []VenueShow {
	out := make([]VenueShow, 0, len(shows))
	for _, show := range shows {
		vs := VenueShow{ID: show.ID, ArtistID: show.ArtistID, StartTime: show.StartTime.UTC()}
		if show.Artist != nil {
			vs.ArtistName = show.Artist.Name
			vs.ArtistImageLink = show.Artist.ImageLink
		}
		out = append(out, vs)
	}
	return out
}

