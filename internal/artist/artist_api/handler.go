package artist_api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	artist "fyyur/internal/artist/service"
	"fyyur/internal/forms"
	"fyyur/internal/logger"
	"fyyur/internal/models"
	"fyyur/internal/utils"
)

type ArtistService interface {
	ListArtists(ctx context.Context) ([]artist.ListItem, error)
	SearchArtists(ctx context.Context, term string) (*artist.SearchResult, error)
	GetArtist(ctx context.Context, id int64) (*models.Artist, error)
	GetArtistDetail(ctx context.Context, id int64) (*artist.ArtistDetail, error)
	CreateArtist(ctx context.Context, form forms.ArtistForm) (*models.Artist, error)
	UpdateArtist(ctx context.Context, id int64, form forms.ArtistForm) (*models.Artist, error)
	DeleteArtist(ctx context.Context, id int64) (*artist.DeleteResult, error)
}

type Notifier interface {
	Success(ctx context.Context, text string)
	Error(ctx context.Context, text string)
}

// Handler serves the /artists routes.
type Handler struct {
	ArtistService ArtistService
	Notifier      Notifier
	Logger        *logger.Logger
}

func NewHandler(service ArtistService, notifier Notifier, log *logger.Logger) *Handler {
	return &Handler{
		ArtistService: service,
		Notifier:      notifier,
		Logger:        log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/artists", func(r chi.Router) {
		r.Get("/", h.ListArtists)
		r.Post("/search", h.SearchArtists)
		r.Get("/create", h.CreateArtistForm)
		r.Post("/create", h.CreateArtist)
		r.Get("/{id:[0-9]+}", h.ShowArtist)
		r.Delete("/{id:[0-9]+}", h.DeleteArtist)
		r.Get("/{id:[0-9]+}/edit", h.EditArtistForm)
		r.Post("/{id:[0-9]+}/edit", h.EditArtist)
	})
}

func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	items, err := h.ArtistService.ListArtists(r.Context())
	if err != nil {
		h.fail(w, "Failed to list artists", err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Artists", items)
}

func (h *Handler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	values, err := utils.FormValues(r)
	if err != nil {
		h.fail(w, "Invalid search", err)
		return
	}

	result, err := h.ArtistService.SearchArtists(r.Context(), strings.TrimSpace(values.Get("search_term")))
	if err != nil {
		h.fail(w, "Failed to search artists", err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, fmt.Sprintf("%d artist(s) found", result.Count), result)
}

func (h *Handler) ShowArtist(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		h.fail(w, "Artist not found", err)
		return
	}

	detail, err := h.ArtistService.GetArtistDetail(r.Context(), id)
	if err != nil {
		h.fail(w, "Artist not found", err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, detail.Name, detail)
}

func (h *Handler) CreateArtistForm(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, "New artist", forms.NewPage(forms.ArtistForm{}, nil))
}

func (h *Handler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	values, err := utils.FormValues(r)
	if err != nil {
		h.Notifier.Error(r.Context(), listingFailed(""))
		h.fail(w, "Artist could not be listed", err)
		return
	}

	form := forms.ArtistFormFromValues(values)
	created, err := h.ArtistService.CreateArtist(r.Context(), form)
	if err != nil {
		h.Notifier.Error(r.Context(), listingFailed(form.Name))
		h.fail(w, "Artist could not be listed", err)
		return
	}

	message := fmt.Sprintf("Artist %s was successfully listed!", created.Name)
	h.Notifier.Success(r.Context(), message)
	utils.WriteSuccess(w, http.StatusCreated, message, created)
}

func (h *Handler) EditArtistForm(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		h.fail(w, "Artist not found", err)
		return
	}

	a, err := h.ArtistService.GetArtist(r.Context(), id)
	if err != nil {
		h.fail(w, "Artist not found", err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Edit artist", forms.NewPage(forms.ArtistForm{}, forms.ArtistFormFromModel(a)))
}

func (h *Handler) EditArtist(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		h.fail(w, "Artist not found", err)
		return
	}

	values, err := utils.FormValues(r)
	if err == nil {
		var updated *models.Artist
		updated, err = h.ArtistService.UpdateArtist(r.Context(), id, forms.ArtistFormFromValues(values))
		if err == nil {
			h.Notifier.Success(r.Context(), "Your changes have been saved")
			utils.WriteSuccess(w, http.StatusOK, "Your changes have been saved", updated)
			return
		}
	}

	h.Notifier.Error(r.Context(), "Something went wrong! Please try again")
	h.fail(w, "Artist could not be updated", err)
}

func (h *Handler) DeleteArtist(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		h.fail(w, "Artist not found", err)
		return
	}

	result, err := h.ArtistService.DeleteArtist(r.Context(), id)
	if err != nil {
		h.Notifier.Error(r.Context(), "An error occurred. Artist could not be deleted.")
		h.fail(w, "Artist could not be deleted", err)
		return
	}

	message := fmt.Sprintf("Artist %s was successfully deleted!", result.Name)
	h.Notifier.Success(r.Context(), message)
	utils.WriteSuccess(w, http.StatusOK, message, result)
}

func (h *Handler) fail(w http.ResponseWriter, message string, err error) {
	level := h.Logger.Debug
	if utils.StatusFor(err) == http.StatusInternalServerError {
		level = h.Logger.Error
	}
	level("ARTISTS", fmt.Sprintf("%s: %v", message, err))
	utils.WriteError(w, message, err)
}

func listingFailed(name string) string {
	if name == "" {
		return "An error occurred. Artist could not be listed."
	}
	return fmt.Sprintf("An error occurred. Artist %s could not be listed.", name)
}
