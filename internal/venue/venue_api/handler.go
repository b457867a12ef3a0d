package venue_api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"fyyur/internal/forms"
	"fyyur/internal/logger"
	"fyyur/internal/models"
	"fyyur/internal/utils"
	venue "fyyur/internal/venue/service"
)

// VenueService is the part of the venue service the HTTP layer needs.
type VenueService interface {
	ListVenues(ctx context.Context) ([]venue.Area, error)
	SearchVenues(ctx context.Context, term string) (*venue.SearchResult, error)
	GetVenue(ctx context.Context, id int64) (*models.Venue, error)
	GetVenueDetail(ctx context.Context, id int64) (*venue.VenueDetail, error)
	CreateVenue(ctx context.Context, form forms.VenueForm) (*models.Venue, error)
	UpdateVenue(ctx context.Context, id int64, form forms.VenueForm) (*models.Venue, error)
	DeleteVenue(ctx context.Context, id int64) (*venue.DeleteResult, error)
}

type Notifier interface {
	Success(ctx context.Context, text string)
	Error(ctx context.Context, text string)
}

// Handler serves the /venues routes.
type Handler struct {
	VenueService VenueService
	Notifier     Notifier
	Logger       *logger.Logger
}

func NewHandler(service VenueService, notifier Notifier, log *logger.Logger) *Handler {
	return &Handler{
		VenueService: service,
		Notifier:     notifier,
		Logger:       log,
	}
}

// RegisterRoutes registers the venue routes on a chi router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/venues", func(r chi.Router) {
		r.Get("/", h.ListVenues)
		r.Post("/search", h.SearchVenues)
		r.Get("/create", h.CreateVenueForm)
		r.Post("/create", h.CreateVenue)
		r.Get("/{id:[0-9]+}", h.ShowVenue)
		r.Delete("/{id:[0-9]+}", h.DeleteVenue)
		r.Get("/{id:[0-9]+}/edit", h.EditVenueForm)
		r.Post("/{id:[0-9]+}/edit", h.EditVenue)
	})
}

func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	areas, err := h.VenueService.ListVenues(r.Context())
	if err != nil {
		h.fail(w, "Failed to list venues", err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Venues", areas)
}

func (h *Handler) SearchVenues(w http.ResponseWriter, r *http.Request) {
	values, err := utils.FormValues(r)
	if err != nil {
		h.fail(w, "Invalid search", err)
		return
	}

	term := strings.TrimSpace(values.Get("search_term"))
	result, err := h.VenueService.SearchVenues(r.Context(), term)
	if err != nil {
		h.fail(w, "Failed to search venues", err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, fmt.Sprintf("%d venue(s) found", result.Count), result)
}

func (h *Handler) ShowVenue(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		h.fail(w, "Venue not found", err)
		return
	}

	detail, err := h.VenueService.GetVenueDetail(r.Context(), id)
	if err != nil {
		h.fail(w, "Venue not found", err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, detail.Name, detail)
}

func (h *Handler) CreateVenueForm(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, "New venue", forms.NewPage(forms.VenueForm{}, nil))
}

func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	values, err := utils.FormValues(r)
	if err != nil {
		h.Notifier.Error(r.Context(), listingFailed(""))
		h.fail(w, "Venue could not be listed", err)
		return
	}

	form := forms.VenueFormFromValues(values)
	created, err := h.VenueService.CreateVenue(r.Context(), form)
	if err != nil {
		h.Notifier.Error(r.Context(), listingFailed(form.Name))
		h.fail(w, "Venue could not be listed", err)
		return
	}

	message := fmt.Sprintf("Venue %s was successfully listed!", created.Name)
	h.Notifier.Success(r.Context(), message)
	utils.WriteSuccess(w, http.StatusCreated, message, created)
}

func (h *Handler) EditVenueForm(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		h.fail(w, "Venue not found", err)
		return
	}

	v, err := h.VenueService.GetVenue(r.Context(), id)
	if err != nil {
		h.fail(w, "Venue not found", err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Edit venue", forms.NewPage(forms.VenueForm{}, forms.VenueFormFromModel(v)))
}

func (h *Handler) EditVenue(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		h.fail(w, "Venue not found", err)
		return
	}

	values, err := utils.FormValues(r)
	if err != nil {
		h.Notifier.Error(r.Context(), "Something went wrong! Please try again")
		h.fail(w, "Venue could not be updated", err)
		return
	}

	updated, err := h.VenueService.UpdateVenue(r.Context(), id, forms.VenueFormFromValues(values))
	if err != nil {
		h.Notifier.Error(r.Context(), "Something went wrong! Please try again")
		h.fail(w, "Venue could not be updated", err)
		return
	}

	h.Notifier.Success(r.Context(), "Your changes have been saved")
	utils.WriteSuccess(w, http.StatusOK, "Your changes have been saved", updated)
}

// DeleteVenue removes the venue together with its shows.
func (h *Handler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		h.fail(w, "Venue not found", err)
		return
	}

	result, err := h.VenueService.DeleteVenue(r.Context(), id)
	if err != nil {
		h.Notifier.Error(r.Context(), "An error occurred. Venue could not be deleted.")
		h.fail(w, "Venue could not be deleted", err)
		return
	}

	message := fmt.Sprintf("Venue %s was successfully deleted!", result.Name)
	h.Notifier.Success(r.Context(), message)
	utils.WriteSuccess(w, http.StatusOK, message, result)
}

func (h *Handler) fail(w http.ResponseWriter, message string, err error) {
	if utils.StatusFor(err) == http.StatusInternalServerError {
		h.Logger.Error("VENUES", fmt.Sprintf("%s: %v", message, err))
	} else {
		h.Logger.Debug("VENUES", fmt.Sprintf("%s: %v", message, err))
	}
	utils.WriteError(w, message, err)
}

func listingFailed(name string) string {
	if name == "" {
		return "An error occurred. Venue could not be listed."
	}
	return fmt.Sprintf("An error occurred. Venue %s could not be listed.", name)
}
