package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	artist_db "fyyur/internal/artist/db"
	artist "fyyur/internal/artist/service"
	"fyyur/internal/database/dbtest"
	"fyyur/internal/flash"
	"fyyur/internal/kafka"
	"fyyur/internal/logger"
	"fyyur/internal/metrics"
	"fyyur/internal/models"
	"fyyur/internal/router"
	show_db "fyyur/internal/show/db"
	qr "fyyur/internal/show/qr_generator"
	show "fyyur/internal/show/service"
	"fyyur/internal/timeparse"
	venue_db "fyyur/internal/venue/db"
	venue "fyyur/internal/venue/service"
)

var now = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

type client struct {
	t       *testing.T
	handler http.Handler
	db      *bun.DB
	cookie  *http.Cookie
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newClient(t *testing.T) *client {
	bunDB := dbtest.New(t)
	log := logger.Discard()
	clock := timeparse.FixedClock{T: now}

	venues := &venue_db.DB{Bun: bunDB}
	artists := &artist_db.DB{Bun: bunDB}
	shows := &show_db.DB{Bun: bunDB}

	venueSvc := venue.NewVenueService(bunDB, venues, shows, kafka.NoopPublisher{}, log, time.Second)
	venueSvc.Clock = clock
	artistSvc := artist.NewArtistService(bunDB, artists, shows, kafka.NoopPublisher{}, log, time.Second)
	artistSvc.Clock = clock
	showSvc := show.NewShowService(bunDB, shows, venues, artists, kafka.NoopPublisher{}, log, qr.NewQRGenerator("http://localhost:5000"), time.Second)
	showSvc.Clock = clock

	h := router.New(router.Deps{
		DB:           bunDB,
		StoreTimeout: time.Second,
		FlashTTL:     time.Hour,
		Venues:       venueSvc,
		Artists:      artistSvc,
		Shows:        showSvc,
		Notifier:     flash.NewNotifier(flash.NewMemoryStore(), log),
		Metrics:      metrics.New(),
		Logger:       log,
	})
	return &client{t: t, handler: h, db: bunDB}
}

func (c *client) raw(method, target string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == flash.CookieName {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) do(method, target string, form url.Values) (int, envelope) {
	c.t.Helper()
	rec := c.raw(method, target, form)
	var body envelope
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec.Code, body
}

func (c *client) createVenue(form url.Values) int64 {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/venues/create", form)
	require.Equal(c.t, http.StatusCreated, status, body.Error)
	var v models.Venue
	require.NoError(c.t, json.Unmarshal(body.Data, &v))
	return v.ID
}

func (c *client) createArtist(name string) int64 {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/artists/create", url.Values{"name": {name}})
	require.Equal(c.t, http.StatusCreated, status, body.Error)
	var a models.Artist
	require.NoError(c.t, json.Unmarshal(body.Data, &a))
	return a.ID
}

func (c *client) createShow(artistID, venueID int64, start time.Time) (int, envelope) {
	c.t.Helper()
	return c.do(http.MethodPost, "/shows/create", url.Values{
		"artist_id":  {id(artistID)},
		"venue_id":   {id(venueID)},
		"start_time": {start.Format(time.RFC3339)},
	})
}

func (c *client) count(table string) int {
	c.t.Helper()
	n, err := c.db.NewSelect().Table(table).Count(c.t.Context())
	require.NoError(c.t, err)
	return n
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

func venueForm(name string) url.Values {
	return url.Values{
		"name":    {name},
		"city":    {"San Francisco"},
		"state":   {"CA"},
		"address": {"1015 Folsom Street"},
		"phone":   {"123-123-1234"},
		"genres":  {"Jazz", "Reggae", "Swing"},
	}
}

func TestSearchVenues(t *testing.T) {
	c := newClient(t)
	c.createVenue(venueForm("The Musical Hop"))
	c.createVenue(venueForm("Park Square Live Music & Coffee"))
	c.createVenue(venueForm("The Dueling Pianos Bar"))

	tests := []struct {
		term string
		want []string
	}{
		{term: "", want: []string{"The Musical Hop", "Park Square Live Music & Coffee", "The Dueling Pianos Bar"}},
		{term: "Hop", want: []string{"The Musical Hop"}},
		{term: "music", want: []string{"The Musical Hop", "Park Square Live Music & Coffee"}},
		{term: "%", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			status, body := c.do(http.MethodPost, "/venues/search", url.Values{"search_term": {tt.term}})
			require.Equal(t, http.StatusOK, status)

			var result venue.SearchResult
			require.NoError(t, json.Unmarshal(body.Data, &result))
			names := []string{}
			for _, v := range result.Data {
				names = append(names, v.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
			assert.Equal(t, len(tt.want), result.Count)
		})
	}
}

func TestVenueDetail_PartitionsShows(t *testing.T) {
	c := newClient(t)
	venueID := c.createVenue(venueForm("The Musical Hop"))
	artistID := c.createArtist("Guns N Petals")

	status, _ := c.createShow(artistID, venueID, now.Add(-48*time.Hour))
	require.Equal(t, http.StatusCreated, status)
	status, _ = c.createShow(artistID, venueID, now)
	require.Equal(t, http.StatusCreated, status)

	status, body := c.do(http.MethodGet, "/venues/"+id(venueID), nil)
	require.Equal(t, http.StatusOK, status)

	var detail venue.VenueDetail
	require.NoError(t, json.Unmarshal(body.Data, &detail))
	assert.Equal(t, 1, detail.PastShowsCount)
	assert.Equal(t, 1, detail.UpcomingShowsCount)
	require.Len(t, detail.UpcomingShows, 1)
	assert.True(t, detail.UpcomingShows[0].StartTime.Equal(now))
	assert.Equal(t, "Guns N Petals", detail.UpcomingShows[0].ArtistName)
	assert.Equal(t, []string{"Jazz", "Reggae", "Swing"}, detail.Genres)
}

func TestVenueCreate_RoundTrip(t *testing.T) {
	c := newClient(t)
	form := venueForm("The Musical Hop")
	form.Set("website", "https://www.themusicalhop.com")
	form.Set("facebook_link", "https://www.facebook.com/TheMusicalHop")
	form.Set("image_link", "https://images.unsplash.com/photo-1543900694")
	form.Set("seeking_talent", "y")
	form.Set("seeking_description", "We are on the lookout for a local artist to play every two weeks.")
	venueID := c.createVenue(form)

	status, body := c.do(http.MethodGet, "/venues/"+id(venueID)+"/edit", nil)
	require.Equal(t, http.StatusOK, status)

	var page struct {
		Values map[string]any `json:"values"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &page))
	for _, key := range []string{"name", "city", "state", "address", "phone", "website", "facebook_link", "image_link", "seeking_description"} {
		assert.Equal(t, form.Get(key), page.Values[key], key)
	}
	assert.Equal(t, true, page.Values["seeking_talent"])
	assert.Equal(t, []any{"Jazz", "Reggae", "Swing"}, page.Values["genres"])
}

func TestVenueDelete(t *testing.T) {
	c := newClient(t)
	empty := c.createVenue(venueForm("Park Square Live Music & Coffee"))
	busy := c.createVenue(venueForm("The Musical Hop"))
	artistID := c.createArtist("Guns N Petals")
	for _, offset := range []time.Duration{-time.Hour, time.Hour} {
		status, _ := c.createShow(artistID, busy, now.Add(offset))
		require.Equal(t, http.StatusCreated, status)
	}

	status, _ := c.do(http.MethodDelete, "/venues/"+id(empty), nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = c.do(http.MethodGet, "/venues/"+id(empty), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := c.do(http.MethodDelete, "/venues/"+id(busy), nil)
	require.Equal(t, http.StatusOK, status)
	var result venue.DeleteResult
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.Equal(t, int64(2), result.ShowsDeleted)
	assert.Zero(t, c.count("shows"))
	assert.Zero(t, c.count("venues"))
	assert.Equal(t, 1, c.count("artists"))

	status, _ = c.do(http.MethodDelete, "/venues/"+id(busy), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestShowCreate_MissingParent(t *testing.T) {
	c := newClient(t)
	venueID := c.createVenue(venueForm("The Musical Hop"))
	artistID := c.createArtist("Guns N Petals")

	status, _ := c.createShow(artistID+100, venueID, now)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = c.createShow(artistID, venueID+100, now)
	assert.Equal(t, http.StatusConflict, status)
	assert.Zero(t, c.count("shows"))

	status, body := c.do(http.MethodPost, "/shows/create", url.Values{
		"artist_id":  {id(artistID)},
		"venue_id":   {id(venueID)},
		"start_time": {"not a date at all"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body.Data), "start_time")
	assert.Zero(t, c.count("shows"))
}

func TestShowsListAndQR(t *testing.T) {
	c := newClient(t)
	venueID := c.createVenue(venueForm("The Musical Hop"))
	artistID := c.createArtist("Guns N Petals")
	starts := []time.Time{now.Add(-72 * time.Hour), now.Add(72 * time.Hour), now.Add(-24 * time.Hour), now.Add(24 * time.Hour)}
	for _, start := range starts {
		status, _ := c.createShow(artistID, venueID, start)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := c.do(http.MethodGet, "/shows", nil)
	require.Equal(t, http.StatusOK, status)
	var listings []show.ShowListing
	require.NoError(t, json.Unmarshal(body.Data, &listings))
	require.Len(t, listings, 4)
	order := []time.Time{starts[3], starts[1], starts[2], starts[0]}
	for i, l := range listings {
		assert.True(t, l.StartTime.Equal(order[i]), "position %d", i)
		assert.Equal(t, "The Musical Hop", l.VenueName)
	}

	rec := c.raw(http.MethodGet, "/shows/"+id(listings[0].ID)+"/qr.png", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("\x89PNG"), rec.Body.Bytes()[:4])

	rec = c.raw(http.MethodGet, "/shows/999/qr.png", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLanding_DrainsNotifications(t *testing.T) {
	c := newClient(t)
	c.createVenue(venueForm("The Musical Hop"))
	c.createArtist("Guns N Petals")

	status, body := c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, status)
	var page router.Landing
	require.NoError(t, json.Unmarshal(body.Data, &page))
	assert.Equal(t, []flash.Message{
		{Category: flash.CategorySuccess, Text: "Venue The Musical Hop was successfully listed!"},
		{Category: flash.CategorySuccess, Text: "Artist Guns N Petals was successfully listed!"},
	}, page.Notifications)
	require.Len(t, page.RecentVenues, 1)
	require.Len(t, page.RecentArtists, 1)

	_, body = c.do(http.MethodGet, "/", nil)
	require.NoError(t, json.Unmarshal(body.Data, &page))
	assert.Empty(t, page.Notifications)
}

func TestRouting_ErrorPages(t *testing.T) {
	c := newClient(t)

	status, body := c.do(http.MethodGet, "/venues/abc", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, body.Success)

	status, _ = c.do(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do(http.MethodPut, "/venues", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestEdit_MissingRecordBeatsBadForm(t *testing.T) {
	c := newClient(t)

	status, _ := c.do(http.MethodPost, "/venues/999/edit", url.Values{"name": {"Half a form"}})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do(http.MethodPost, "/artists/999/edit", url.Values{})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthAndMetrics(t *testing.T) {
	c := newClient(t)

	status, body := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)

	c.raw(http.MethodGet, "/venues", nil)
	c.raw(http.MethodGet, "/venues/1", nil)
	c.raw(http.MethodGet, "/venues/2", nil)
	rec := c.raw(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `fyyur_http_requests_total{method="GET",route="/venues",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), `fyyur_http_requests_total{method="GET",route="/venues/{id:[0-9]+}",status="404"} 2`)

	require.NoError(t, c.db.Close())
	status, _ = c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
