// Package router assembles the HTTP surface: middleware, the domain
// handlers, the landing page and the operations endpoints.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"

	"fyyur/internal/artist/artist_api"
	artist "fyyur/internal/artist/service"
	"fyyur/internal/flash"
	"fyyur/internal/logger"
	"fyyur/internal/metrics"
	"fyyur/internal/show/show_api"
	show "fyyur/internal/show/service"
	"fyyur/internal/utils"
	"fyyur/internal/venue/venue_api"
	venue "fyyur/internal/venue/service"
)

const recentLimit = 10

type Deps struct {
	DB           *bun.DB
	StoreTimeout time.Duration
	FlashTTL     time.Duration

	Venues   *venue.VenueService
	Artists  *artist.ArtistService
	Shows    *show.ShowService
	Notifier *flash.Notifier
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Logger))
	r.Use(recoverer(d.Logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Page not found", http.StatusText(http.StatusNotFound)))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusMethodNotAllowed, utils.ErrorResponse("Method not allowed", http.StatusText(http.StatusMethodNotAllowed)))
	})

	r.Get("/healthz", health(d.DB, d.StoreTimeout))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(flash.Middleware(d.FlashTTL))

		r.Get("/", landing(d.Venues, d.Artists, d.Notifier, d.Logger))
		venue_api.NewHandler(d.Venues, d.Notifier, d.Logger).RegisterRoutes(r)
		d.Logger.Debug("ROUTER", "Venue routes registered under /venues")
		artist_api.NewHandler(d.Artists, d.Notifier, d.Logger).RegisterRoutes(r)
		d.Logger.Debug("ROUTER", "Artist routes registered under /artists")
		show_api.NewHandler(d.Shows, d.Notifier, d.Logger).RegisterRoutes(r)
		d.Logger.Debug("ROUTER", "Show routes registered under /shows")
	})

	return r
}
