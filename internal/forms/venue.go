package forms

import (
	"net/url"

	"fyyur/internal/models"
)

type VenueForm struct {
	Name               string   `form:"name" json:"name" label:"Name" validate:"required,max=120"`
	City               string   `form:"city" json:"city" label:"City" validate:"required,max=120"`
	State              string   `form:"state" json:"state" label:"State" validate:"required,usstate"`
	Address            string   `form:"address" json:"address" label:"Address" validate:"required,max=120"`
	Phone              string   `form:"phone" json:"phone" label:"Phone" input:"tel" validate:"max=120"`
	ImageLink          string   `form:"image_link" json:"image_link" label:"Image Link" validate:"omitempty,url,max=500"`
	Genres             []string `form:"genres" json:"genres" label:"Genres" choices:"genres"`
	FacebookLink       string   `form:"facebook_link" json:"facebook_link" label:"Facebook Link" validate:"omitempty,url,max=120"`
	Website            string   `form:"website" json:"website" label:"Website" validate:"omitempty,url,max=120"`
	SeekingTalent      bool     `form:"seeking_talent" json:"seeking_talent" label:"Seeking Talent"`
	SeekingDescription string   `form:"seeking_description" json:"seeking_description" label:"Seeking Description" input:"textarea"`
}

// VenueFormFromValues reads every venue field. Missing keys decode to their
// zero value so an edit replaces the whole record.
func VenueFormFromValues(values url.Values) VenueForm {
	return VenueForm{
		Name:               get(values, "name"),
		City:               get(values, "city"),
		State:              get(values, "state"),
		Address:            get(values, "address"),
		Phone:              get(values, "phone"),
		ImageLink:          get(values, "image_link"),
		Genres:             getList(values, "genres"),
		FacebookLink:       get(values, "facebook_link"),
		Website:            get(values, "website"),
		SeekingTalent:      getBool(values, "seeking_talent"),
		SeekingDescription: get(values, "seeking_description"),
	}
}

func VenueFormFromModel(v *models.Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		ImageLink:          v.ImageLink,
		Genres:             SplitGenres(v.Genres),
		FacebookLink:       v.FacebookLink,
		Website:            v.Website,
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
	}
}

func (f VenueForm) Validate() error {
	if err := check(f); err != nil {
		return err
	}
	return checkGenresLength(f.Genres, 250)
}

// Apply overwrites every editable column of v with the form values.
func (f VenueForm) Apply(v *models.Venue) {
	v.Name = f.Name
	v.City = f.City
	v.State = f.State
	v.Address = f.Address
	v.Phone = f.Phone
	v.ImageLink = f.ImageLink
	v.Genres = JoinGenres(f.Genres)
	v.FacebookLink = f.FacebookLink
	v.Website = f.Website
	v.SeekingTalent = f.SeekingTalent
	v.SeekingDescription = f.SeekingDescription
}

func (f VenueForm) Venue() *models.Venue {
	v := &models.Venue{}
	f.Apply(v)
	return v
}
