package forms

import (
	"net/url"
	"strconv"
	"time"

	"fyyur/internal/apperrors"
	"fyyur/internal/models"
	"fyyur/internal/timeparse"
)

type ShowForm struct {
	ArtistID  string `form:"artist_id" json:"artist_id" label:"Artist ID" input:"number" validate:"required,number"`
	VenueID   string `form:"venue_id" json:"venue_id" label:"Venue ID" input:"number" validate:"required,number"`
	StartTime string `form:"start_time" json:"start_time" label:"Start Time" input:"datetime-local" validate:"required"`
}

func ShowFormFromValues(values url.Values) ShowForm {
	return ShowForm{
		ArtistID:  get(values, "artist_id"),
		VenueID:   get(values, "venue_id"),
		StartTime: get(values, "start_time"),
	}
}

func (f ShowForm) Validate() error {
	return check(f)
}

// Show validates the form and resolves start_time relative to now.
func (f ShowForm) Show(parser *timeparse.Parser, now time.Time) (*models.Show, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	artistID, err := strconv.ParseInt(f.ArtistID, 10, 64)
	if err != nil || artistID <= 0 {
		fields["artist_id"] = "must be a positive integer"
	}
	venueID, err := strconv.ParseInt(f.VenueID, 10, 64)
	if err != nil || venueID <= 0 {
		fields["venue_id"] = "must be a positive integer"
	}
	start, err := parser.Parse(f.StartTime, now)
	if err != nil {
		fields["start_time"] = "unrecognized date or time"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	return &models.Show{ArtistID: artistID, VenueID: venueID, StartTime: start}, nil
}
