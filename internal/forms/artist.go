package forms

import (
	"net/url"

	"fyyur/internal/models"
)

type ArtistForm struct {
	Name               string   `form:"name" json:"name" label:"Name" validate:"required,max=120"`
	City               string   `form:"city" json:"city" label:"City" validate:"max=120"`
	State              string   `form:"state" json:"state" label:"State" validate:"omitempty,usstate"`
	Phone              string   `form:"phone" json:"phone" label:"Phone" input:"tel" validate:"max=120"`
	ImageLink          string   `form:"image_link" json:"image_link" label:"Image Link" validate:"omitempty,url,max=500"`
	Genres             []string `form:"genres" json:"genres" label:"Genres" choices:"genres"`
	FacebookLink       string   `form:"facebook_link" json:"facebook_link" label:"Facebook Link" validate:"omitempty,url,max=120"`
	Website            string   `form:"website" json:"website" label:"Website" validate:"omitempty,url,max=120"`
	SeekingVenue       bool     `form:"seeking_venue" json:"seeking_venue" label:"Seeking Venue"`
	SeekingDescription string   `form:"seeking_description" json:"seeking_description" label:"Seeking Description" input:"textarea"`
}

func ArtistFormFromValues(values url.Values) ArtistForm {
	return ArtistForm{
		Name:               get(values, "name"),
		City:               get(values, "city"),
		State:              get(values, "state"),
		Phone:              get(values, "phone"),
		ImageLink:          get(values, "image_link"),
		Genres:             getList(values, "genres"),
		FacebookLink:       get(values, "facebook_link"),
		Website:            get(values, "website"),
		SeekingVenue:       getBool(values, "seeking_venue"),
		SeekingDescription: get(values, "seeking_description"),
	}
}

func ArtistFormFromModel(a *models.Artist) ArtistForm {
	return ArtistForm{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		ImageLink:          a.ImageLink,
		Genres:             SplitGenres(a.Genres),
		FacebookLink:       a.FacebookLink,
		Website:            a.Website,
		SeekingVenue:       a.SeekingVenue,
		SeekingDescription: a.SeekingDescription,
	}
}

func (f ArtistForm) Validate() error {
	if err := check(f); err != nil {
		return err
	}
	return checkGenresLength(f.Genres, 120)
}

func (f ArtistForm) Apply(a *models.Artist) {
	a.Name = f.Name
	a.City = f.City
	a.State = f.State
	a.Phone = f.Phone
	a.ImageLink = f.ImageLink
	a.Genres = JoinGenres(f.Genres)
	a.FacebookLink = f.FacebookLink
	a.Website = f.Website
	a.SeekingVenue = f.SeekingVenue
	a.SeekingDescription = f.SeekingDescription
}

func (f ArtistForm) Artist() *models.Artist {
	a := &models.Artist{}
	f.Apply(a)
	return a
}
