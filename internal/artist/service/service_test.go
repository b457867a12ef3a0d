package artist_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"fyyur/internal/apperrors"
	artist_db "fyyur/internal/artist/db"
	artist "fyyur/internal/artist/service"
	"fyyur/internal/database/dbtest"
	"fyyur/internal/forms"
	"fyyur/internal/kafka"
	"fyyur/internal/logger"
	"fyyur/internal/models"
	show_db "fyyur/internal/show/db"
	"fyyur/internal/timeparse"
)

var now = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

func setupService(t *testing.T) (*artist.ArtistService, *bun.DB) {
	bunDB := dbtest.New(t)
	svc := artist.NewArtistService(
		bunDB,
		&artist_db.DB{Bun: bunDB},
		&show_db.DB{Bun: bunDB},
		kafka.NoopPublisher{},
		logger.Discard(),
		time.Second,
	)
	svc.Clock = timeparse.FixedClock{T: now}
	return svc, bunDB
}

func createArtist(t *testing.T, svc *artist.ArtistService, values url.Values) *models.Artist {
	a, err := svc.CreateArtist(context.Background(), forms.ArtistFormFromValues(values))
	require.NoError(t, err)
	return a
}

func TestEditArtist_OmittedFieldsBecomeEmpty(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created := createArtist(t, svc, url.Values{
		"name":          {"Guns N Petals"},
		"city":          {"San Francisco"},
		"state":         {"CA"},
		"phone":         {"326-123-5000"},
		"genres":        {"Rock n Roll"},
		"facebook_link": {"https://www.facebook.com/GunsNPetals"},
		"seeking_venue": {"y"},
	})

	_, err := svc.UpdateArtist(ctx, created.ID, forms.ArtistFormFromValues(url.Values{
		"name": {"Guns N Petals"},
		"city": {"Oakland"},
	}))
	require.NoError(t, err)

	got, err := svc.GetArtist(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.Artist{ID: created.ID, Name: "Guns N Petals", City: "Oakland"}, got)
}

func TestUpdateArtist_Missing(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.UpdateArtist(context.Background(), 77, forms.ArtistFormFromValues(url.Values{"name": {"x"}}))
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateArtist_MissingBeforeValidation(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.UpdateArtist(context.Background(), 999, forms.ArtistFormFromValues(url.Values{}))
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.False(t, errors.Is(err, apperrors.ErrValidation))
}

func TestUpdateArtist_InvalidFormLeavesRow(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	created := createArtist(t, svc, url.Values{"name": {"Guns N Petals"}, "city": {"San Francisco"}})

	_, err := svc.UpdateArtist(ctx, created.ID, forms.ArtistFormFromValues(url.Values{}))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	got, err := svc.GetArtist(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Guns N Petals", got.Name)
}

type deadlinePublisher struct {
	deadlines []bool
}

func (p *deadlinePublisher) Publish(ctx context.Context, _ kafka.Event) error {
	_, ok := ctx.Deadline()
	p.deadlines = append(p.deadlines, ok)
	return nil
}

func (p *deadlinePublisher) Close() error { return nil }

func TestPublish_CarriesDeadline(t *testing.T) {
	svc, _ := setupService(t)
	pub := &deadlinePublisher{}
	svc.Publisher = pub

	createArtist(t, svc, url.Values{"name": {"The Wild Sax Band"}})
	assert.Equal(t, []bool{true}, pub.deadlines)
}

func TestCreateArtist_RequiresName(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.CreateArtist(context.Background(), forms.ArtistFormFromValues(url.Values{"city": {"Austin"}}))
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["name"])

	list, err := svc.ListArtists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestArtistDetailAndSearch(t *testing.T) {
	svc, bunDB := setupService(t)
	ctx := context.Background()

	petals := createArtist(t, svc, url.Values{"name": {"Guns N Petals"}, "genres": {"Rock n Roll"}})
	createArtist(t, svc, url.Values{"name": {"The Wild Sax Band"}})

	hop := &models.Venue{Name: "The Musical Hop", City: "San Francisco", State: "CA", Address: "1015 Folsom Street", ImageLink: "https://images.example/hop.jpg"}
	_, err := bunDB.NewInsert().Model(hop).Exec(ctx)
	require.NoError(t, err)

	for _, start := range []time.Time{now.Add(-time.Hour), now.Add(time.Hour), now} {
		_, err := bunDB.NewInsert().Model(&models.Show{ArtistID: petals.ID, VenueID: hop.ID, StartTime: start}).Exec(ctx)
		require.NoError(t, err)
	}

	detail, err := svc.GetArtistDetail(ctx, petals.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.PastShowsCount)
	assert.Equal(t, 2, detail.UpcomingShowsCount)
	assert.Equal(t, []string{"Rock n Roll"}, detail.Genres)
	assert.Equal(t, "The Musical Hop", detail.UpcomingShows[0].VenueName)
	assert.Equal(t, "https://images.example/hop.jpg", detail.UpcomingShows[0].VenueImageLink)
	assert.True(t, now.Equal(detail.UpcomingShows[0].StartTime))

	result, err := svc.SearchArtists(ctx, "band")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "The Wild Sax Band", result.Data[0].Name)

	result, err = svc.SearchArtists(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, models.ArtistSummary{ID: petals.ID, Name: "Guns N Petals", NumUpcomingShows: 2}, result.Data[0])
}

func TestDeleteArtist_CascadesShows(t *testing.T) {
	svc, bunDB := setupService(t)
	ctx := context.Background()

	petals := createArtist(t, svc, url.Values{"name": {"Guns N Petals"}})
	hop := &models.Venue{Name: "The Musical Hop", City: "San Francisco", State: "CA", Address: "1015 Folsom Street"}
	_, err := bunDB.NewInsert().Model(hop).Exec(ctx)
	require.NoError(t, err)
	_, err = bunDB.NewInsert().Model(&models.Show{ArtistID: petals.ID, VenueID: hop.ID, StartTime: now}).Exec(ctx)
	require.NoError(t, err)

	result, err := svc.DeleteArtist(ctx, petals.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ShowsDeleted)

	_, err = svc.GetArtistDetail(ctx, petals.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	count, err := bunDB.NewSelect().Model((*models.Show)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = svc.DeleteArtist(ctx, petals.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestRecentArtists(t *testing.T) {
	svc, _ := setupService(t)
	createArtist(t, svc, url.Values{"name": {"First"}})
	createArtist(t, svc, url.Values{"name": {"Second"}})

	recent, err := svc.RecentArtists(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Second", recent[0].Name)
}
