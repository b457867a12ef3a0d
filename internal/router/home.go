package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/uptrace/bun"

	"fyyur/internal/database"
	"fyyur/internal/flash"
	"fyyur/internal/logger"
	"fyyur/internal/models"
	"fyyur/internal/utils"
)

type recentVenues interface {
	RecentVenues(ctx context.Context, limit int) ([]models.VenueSummary, error)
}

type recentArtists interface {
	RecentArtists(ctx context.Context, limit int) ([]models.ArtistSummary, error)
}

type notifications interface {
	Pop(ctx context.Context) []flash.Message
}

// Landing is the document served at /.
type Landing struct {
	Notifications []flash.Message        `json:"notifications"`
	RecentVenues  []models.VenueSummary  `json:"recent_venues"`
	RecentArtists []models.ArtistSummary `json:"recent_artists"`
}

func landing(venues recentVenues, artists recentArtists, notes notifications, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := Landing{Notifications: notes.Pop(r.Context())}

		var err error
		if page.RecentVenues, err = venues.RecentVenues(r.Context(), recentLimit); err != nil {
			log.Error("HOME", fmt.Sprintf("Failed to load recent venues: %v", err))
			utils.WriteError(w, "Failed to load the landing page", err)
			return
		}
		if page.RecentArtists, err = artists.RecentArtists(r.Context(), recentLimit); err != nil {
			log.Error("HOME", fmt.Sprintf("Failed to load recent artists: %v", err))
			utils.WriteError(w, "Failed to load the landing page", err)
			return
		}

		utils.WriteSuccess(w, http.StatusOK, "Fyyur", page)
	}
}

func health(db *bun.DB, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := database.Ping(r.Context(), db, timeout); err != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, utils.ErrorResponse("Database unreachable", err.Error()))
			return
		}
		utils.WriteSuccess(w, http.StatusOK, "ok", nil)
	}
}
