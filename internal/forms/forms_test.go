package forms

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyyur/internal/apperrors"
	"fyyur/internal/models"
	"fyyur/internal/timeparse"
)

func musicalHopValues() url.Values {
	return url.Values{
		"name":                {"The Musical Hop"},
		"city":                {"San Francisco"},
		"state":               {"CA"},
		"address":             {"1015 Folsom Street"},
		"phone":               {"123-123-1234"},
		"image_link":          {"https://images.example/hop.jpg"},
		"genres":              {"Jazz", "Reggae", "Folk"},
		"facebook_link":       {"https://www.facebook.com/TheMusicalHop"},
		"website":             {"https://www.themusicalhop.com"},
		"seeking_talent":      {"y"},
		"seeking_description": {"We are on the lookout for a local artist to play every two weeks."},
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestVenueForm_DecodeAndApply(t *testing.T) {
	form := VenueFormFromValues(musicalHopValues())
	require.NoError(t, form.Validate())

	want := &models.Venue{
		Name:               "The Musical Hop",
		City:               "San Francisco",
		State:              "CA",
		Address:            "1015 Folsom Street",
		Phone:              "123-123-1234",
		ImageLink:          "https://images.example/hop.jpg",
		Genres:             "Jazz,Reggae,Folk",
		FacebookLink:       "https://www.facebook.com/TheMusicalHop",
		Website:            "https://www.themusicalhop.com",
		SeekingTalent:      true,
		SeekingDescription: "We are on the lookout for a local artist to play every two weeks.",
	}
	if diff := cmp.Diff(want, form.Venue()); diff != "" {
		t.Errorf("venue mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, form, VenueFormFromModel(form.Venue()))
}

func TestVenueForm_CommaSeparatedGenres(t *testing.T) {
	values := musicalHopValues()
	values.Set("genres", "Jazz, Blues")

	form := VenueFormFromValues(values)
	assert.Equal(t, []string{"Jazz", "Blues"}, form.Genres)
}

func TestVenueForm_RequiredFields(t *testing.T) {
	form := VenueFormFromValues(url.Values{"phone": {"555"}})

	fields := fieldErrors(t, form.Validate())
	for _, name := range []string{"name", "city", "state", "address"} {
		assert.Equal(t, "is required", fields[name], name)
	}
	assert.NotContains(t, fields, "phone")
}

func TestVenueForm_InvalidValues(t *testing.T) {
	values := musicalHopValues()
	values.Set("state", "ZZ")
	values.Set("website", "not a url")

	fields := fieldErrors(t, VenueFormFromValues(values).Validate())
	assert.Equal(t, "must be a US state code", fields["state"])
	assert.Equal(t, "must be a valid URL", fields["website"])
}

func TestGenres_FreeTextAccepted(t *testing.T) {
	values := musicalHopValues()
	values["genres"] = []string{"Jazz", "Reggae", "Swing", "Polka"}

	venue := VenueFormFromValues(values)
	require.NoError(t, venue.Validate())
	assert.Equal(t, "Jazz,Reggae,Swing,Polka", venue.Venue().Genres)

	artist := ArtistFormFromValues(url.Values{"name": {"Guns N Petals"}, "genres": {"Swing, Rock n Roll"}})
	require.NoError(t, artist.Validate())
	assert.Equal(t, []string{"Swing", "Rock n Roll"}, artist.Genres)
}

func TestVenueForm_GenresColumnWidth(t *testing.T) {
	values := musicalHopValues()
	values["genres"] = []string{strings.Repeat("x", 200), strings.Repeat("y", 60)}

	fields := fieldErrors(t, VenueFormFromValues(values).Validate())
	assert.Contains(t, fields["genres"], "250")
}

func TestArtistForm_OnlyNameRequired(t *testing.T) {
	form := ArtistFormFromValues(url.Values{"name": {"Guns N Petals"}})
	require.NoError(t, form.Validate())

	a := form.Artist()
	assert.Equal(t, "Guns N Petals", a.Name)
	assert.Empty(t, a.City)
	assert.False(t, a.SeekingVenue)

	fields := fieldErrors(t, ArtistFormFromValues(url.Values{}).Validate())
	assert.Equal(t, map[string]string{"name": "is required"}, fields)
}

func TestArtistForm_ApplyIsFullReplace(t *testing.T) {
	existing := &models.Artist{
		ID:           4,
		Name:         "Guns N Petals",
		City:         "San Francisco",
		State:        "CA",
		Phone:        "326-123-5000",
		Genres:       "Rock n Roll",
		FacebookLink: "https://www.facebook.com/GunsNPetals",
		SeekingVenue: true,
	}

	ArtistFormFromValues(url.Values{"name": {"Guns N Roses"}}).Apply(existing)

	assert.Equal(t, &models.Artist{ID: 4, Name: "Guns N Roses"}, existing)
}

func TestArtistForm_GenresColumnWidth(t *testing.T) {
	values := url.Values{"name": {"Everything Band"}}
	values["genres"] = Genres

	fields := fieldErrors(t, ArtistFormFromValues(values).Validate())
	assert.Contains(t, fields["genres"], "120")
}

func TestShowForm(t *testing.T) {
	parser := timeparse.New(nil)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	show, err := ShowFormFromValues(url.Values{
		"artist_id":  {"4"},
		"venue_id":   {"1"},
		"start_time": {"2035-04-01 20:00"},
	}).Show(parser, now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), show.ArtistID)
	assert.Equal(t, int64(1), show.VenueID)
	assert.Equal(t, time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC), show.StartTime)
}

func TestShowForm_Invalid(t *testing.T) {
	parser := timeparse.New(nil)
	now := time.Now()

	fields := fieldErrors(t, func() error {
		_, err := ShowFormFromValues(url.Values{"artist_id": {"abc"}}).Show(parser, now)
		return err
	}())
	assert.Equal(t, "must be a number", fields["artist_id"])
	assert.Equal(t, "is required", fields["venue_id"])
	assert.Equal(t, "is required", fields["start_time"])

	fields = fieldErrors(t, func() error {
		_, err := ShowFormFromValues(url.Values{
			"artist_id":  {"0"},
			"venue_id":   {"2"},
			"start_time": {"sometime maybe"},
		}).Show(parser, now)
		return err
	}())
	assert.Equal(t, "must be a positive integer", fields["artist_id"])
	assert.Equal(t, "unrecognized date or time", fields["start_time"])
	assert.NotContains(t, fields, "venue_id")
}

func TestSchema(t *testing.T) {
	fields := Schema(VenueForm{})
	require.Len(t, fields, 11)

	byName := map[string]Field{}
	for _, f := range fields {
		byName[f.Name] = f
	}

	assert.True(t, byName["name"].Required)
	assert.False(t, byName["phone"].Required)
	assert.Equal(t, "tel", byName["phone"].Type)
	assert.Equal(t, "select", byName["state"].Type)
	assert.Equal(t, States, byName["state"].Choices)
	assert.Equal(t, "select-multiple", byName["genres"].Type)
	assert.Equal(t, Genres, byName["genres"].Choices)
	assert.Equal(t, "checkbox", byName["seeking_talent"].Type)
	assert.Equal(t, "url", byName["website"].Type)

	show := Schema(&ShowForm{})
	assert.Equal(t, "start_time", show[2].Name)
	assert.Equal(t, "datetime-local", show[2].Type)
}

func TestSplitGenres(t *testing.T) {
	assert.Equal(t, []string{"Jazz", "Soul"}, SplitGenres(" Jazz ,, Soul,"))
	assert.Nil(t, SplitGenres(""))
	assert.Equal(t, "Jazz,Soul", JoinGenres([]string{"Jazz", "Soul"}))
	assert.False(t, strings.Contains(JoinGenres(nil), ","))
}
