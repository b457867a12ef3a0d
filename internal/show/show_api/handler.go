package show_api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fyyur/internal/forms"
	"fyyur/internal/logger"
	"fyyur/internal/models"
	show "fyyur/internal/show/service"
	"fyyur/internal/utils"
)

type ShowService interface {
	ListShows(ctx context.Context) ([]show.ShowListing, error)
	CreateShow(ctx context.Context, form forms.ShowForm) (*models.Show, error)
	ShowQR(ctx context.Context, id int64) ([]byte, error)
}

type Notifier interface {
	Success(ctx context.Context, text string)
	Error(ctx context.Context, text string)
}

// Handler serves the /shows routes
type Handler struct {
	ShowService ShowService
	Notifier    Notifier
	Logger      *logger.Logger
}

func NewHandler(service ShowService, notifier Notifier, log *logger.Logger) *Handler {
	return &Handler{
		ShowService: service,
		Notifier:    notifier,
		Logger:      log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/shows", func(r chi.Router) {
		r.Get("/", h.ListShows)
		r.Get("/create", h.CreateShowForm)
		r.Post("/create", h.CreateShow)
		r.Get("/{id:[0-9]+}/qr.png", h.ShowQR)
	})
}

func (h *Handler) ListShows(w http.ResponseWriter, r *http.Request) {
	shows, err := h.ShowService.ListShows(r.Context())
	if err != nil {
		h.Logger.Error("SHOWS", fmt.Sprintf("Failed to list shows: %v", err))
		utils.WriteError(w, "Failed to list shows", err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Shows", shows)
}

func (h *Handler) CreateShowForm(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, "New show", forms.NewPage(forms.ShowForm{}, nil))
}

// CreateShow lists a show. Unknown artist or venue ids answer 409.
func (h *Handler) CreateShow(w http.ResponseWriter, r *http.Request) {
	values, err := utils.FormValues(r)
	if err != nil {
		h.Notifier.Error(r.Context(), "An error occurred. Show could not be listed.")
		utils.WriteError(w, "Show could not be listed", err)
		return
	}

	created, err := h.ShowService.CreateShow(r.Context(), forms.ShowFormFromValues(values))
	if err != nil {
		h.Logger.Debug("SHOWS", fmt.Sprintf("Show could not be listed: %v", err))
		h.Notifier.Error(r.Context(), "An error occurred. Show could not be listed.")
		utils.WriteError(w, "Show could not be listed", err)
		return
	}

	h.Notifier.Success(r.Context(), "Show was successfully listed!")
	utils.WriteSuccess(w, http.StatusCreated, "Show was successfully listed!", created)
}

func (h *Handler) ShowQR(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, "Show not found", err)
		return
	}

	png, err := h.ShowService.ShowQR(r.Context(), id)
	if err != nil {
		if utils.StatusFor(err) == http.StatusInternalServerError {
			h.Logger.Error("SHOWS", fmt.Sprintf("Failed to render QR for show %d: %v", id, err))
		}
		utils.WriteError(w, "Show not found", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
