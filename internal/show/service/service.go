package show

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"fyyur/internal/apperrors"
	"fyyur/internal/database"
	"fyyur/internal/forms"
	"fyyur/internal/kafka"
	"fyyur/internal/logger"
	"fyyur/internal/models"
	qr "fyyur/internal/show/qr_generator"
	"fyyur/internal/timeparse"
)

type ShowDBLayer interface {
	ListShows(ctx context.Context, idb bun.IDB) ([]*models.Show, error)
	GetShowByID(ctx context.Context, idb bun.IDB, id int64) (*models.Show, error)
	CreateShow(ctx context.Context, idb bun.IDB, show *models.Show) error
}

type VenueChecker interface {
	VenueExists(ctx context.Context, idb bun.IDB, id int64) (bool, error)
}

type ArtistChecker interface {
	ArtistExists(ctx context.Context, idb bun.IDB, id int64) (bool, error)
}

type ShowService struct {
	Tx        database.TxRunner
	DB        ShowDBLayer
	Venues    VenueChecker
	Artists   ArtistChecker
	Publisher kafka.Publisher
	Logger    *logger.Logger
	Parser    *timeparse.Parser
	QR        *qr.QRGenerator
	Clock     timeparse.Clock
	Timeout   time.Duration
}

func NewShowService(tx database.TxRunner, db ShowDBLayer, venues VenueChecker, artists ArtistChecker, publisher kafka.Publisher, log *logger.Logger, qrGen *qr.QRGenerator, timeout time.Duration) *ShowService {
	return &ShowService{
		Tx:        tx,
		DB:        db,
		Venues:    venues,
		Artists:   artists,
		Publisher: publisher,
		Logger:    log,
		Parser:    timeparse.New(time.UTC),
		QR:        qrGen,
		Clock:     timeparse.SystemClock{},
		Timeout:   timeout,
	}
}

// ShowListing is one row of the shows page.
type ShowListing struct {
	ID              int64     `json:"id"`
	VenueID         int64     `json:"venue_id"`
	VenueName       string    `json:"venue_name"`
	ArtistID        int64     `json:"artist_id"`
	ArtistName      string    `json:"artist_name"`
	ArtistImageLink string    `json:"artist_image_link"`
	StartTime       time.Time `json:"start_time"`
	Upcoming        bool      `json:"upcoming"`
}

func (s *ShowService) run(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return database.RunInTx(ctx, s.Tx, s.Timeout, fn)
}

func (s *ShowService) now() time.Time {
	return s.Clock.Now().UTC()
}

// ListShows returns upcoming shows soonest first, then past shows most
// recent first.
func (s *ShowService) ListShows(ctx context.Context) ([]ShowListing, error) {
	var shows []*models.Show
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		shows, err = s.DB.ListShows(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}

	now := s.now()
	upcoming, past := models.PartitionShows(shows, now)
	models.SortByStart(upcoming, true)
	models.SortByStart(past, false)

	out := make([]ShowListing, 0, len(shows))
	for _, show := range append(upcoming, past...) {
		out = append(out, listing(show, now))
	}
	return out, nil
}

func (s *ShowService) GetShow(ctx context.Context, id int64) (*models.Show, error) {
	var show *models.Show
	err := s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		show, err = s.DB.GetShowByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get show: %w", err)
	}
	return show, nil
}

// CreateShow inserts the show after checking that both the artist and the
// venue exist. A missing parent yields ErrReferentialIntegrity and nothing
// is written.
func (s *ShowService) CreateShow(ctx context.Context, form forms.ShowForm) (*models.Show, error) {
	show, err := form.Show(s.Parser, s.now())
	if err != nil {
		return nil, err
	}

	err = s.run(ctx, func(ctx context.Context, tx bun.Tx) error {
		ok, err := s.Artists.ArtistExists(ctx, tx, show.ArtistID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("artist %d does not exist: %w", show.ArtistID, apperrors.ErrReferentialIntegrity)
		}

		ok, err = s.Venues.VenueExists(ctx, tx, show.VenueID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("venue %d does not exist: %w", show.VenueID, apperrors.ErrReferentialIntegrity)
		}

		return s.DB.CreateShow(ctx, tx, show)
	})
	if err != nil {
		s.Logger.Error("SHOWS", fmt.Sprintf("Failed to create show: %v", err))
		return nil, fmt.Errorf("create show: %w", err)
	}

	s.Logger.Info("SHOWS", fmt.Sprintf("Created show %d (artist %d at venue %d, %s)", show.ID, show.ArtistID, show.VenueID, show.StartTime.Format(time.RFC3339)))
	s.publish(ctx, kafka.NewEvent(kafka.TopicShowCreated, show.ID, show))
	return show, nil
}

// publish runs after commit with its own deadline; failures are only logged.
func (s *ShowService) publish(ctx context.Context, event kafka.Event) {
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

// ShowQR renders the QR code PNG for a show.
func (s *ShowService) ShowQR(ctx context.Context, id int64) ([]byte, error) {
	show, err := s.GetShow(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.QR.GeneratePNG(show)
}

func listing(show *models.Show, now time.Time) ShowListing {
	l := ShowListing{
		ID:        show.ID,
		VenueID:   show.VenueID,
		ArtistID:  show.ArtistID,
		StartTime: show.StartTime.UTC(),
		Upcoming:  show.IsUpcoming(now),
	}
	if show.Venue != nil {
		l.VenueName = show.Venue.Name
	}
	if show.Artist != nil {
		l.ArtistName = show.Artist.Name
		l.ArtistImageLink = show.Artist.ImageLink
	}
	return l
}
