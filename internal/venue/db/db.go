package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"fyyur/internal/apperrors"
	"fyyur/internal/database"
	"fyyur/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// resolveDB lets callers pass a transaction, falling back to the pool.
func (d *DB) resolveDB(idb bun.IDB) bun.IDB {
	if idb == nil {
		return d.Bun
	}
	return idb
}

// ListVenues returns every venue ordered by area, then name.
func (d *DB) ListVenues(ctx context.Context, idb bun.IDB) ([]*models.Venue, error) {
	var venues []*models.Venue
	err := d.resolveDB(idb).NewSelect().
		Model(&venues).
		Order("state ASC", "city ASC", "name ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list venues", err)
	}
	return venues, nil
}

// SearchVenues matches term anywhere in the name, ignoring case.
func (d *DB) SearchVenues(ctx context.Context, idb bun.IDB, term string) ([]*models.Venue, error) {
	var venues []*models.Venue
	q := d.resolveDB(idb).NewSelect().Model(&venues)
	err := database.WhereNameContains(q, "name", term).
		Order("name ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("search venues", err)
	}
	return venues, nil
}

// RecentVenues returns the most recently listed venues first.
func (d *DB) RecentVenues(ctx context.Context, idb bun.IDB, limit int) ([]*models.Venue, error) {
	var venues []*models.Venue
	err := d.resolveDB(idb).NewSelect().
		Model(&venues).
		Order("id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("recent venues", err)
	}
	return venues, nil
}

func (d *DB) GetVenueByID(ctx context.Context, idb bun.IDB, id int64) (*models.Venue, error) {
	venue := new(models.Venue)
	err := d.resolveDB(idb).NewSelect().
		Model(venue).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("venue", id)
		}
		return nil, apperrors.Persistence("get venue", err)
	}
	return venue, nil
}

func (d *DB) VenueExists(ctx context.Context, idb bun.IDB, id int64) (bool, error) {
	exists, err := d.resolveDB(idb).NewSelect().
		Model((*models.Venue)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, apperrors.Persistence("venue exists", err)
	}
	return exists, nil
}

func (d *DB) CreateVenue(ctx context.Context, idb bun.IDB, venue *models.Venue) error {
	if _, err := d.resolveDB(idb).NewInsert().Model(venue).Exec(ctx); err != nil {
		return apperrors.Persistence("insert venue", err)
	}
	return nil
}

// UpdateVenue overwrites every editable column.
func (d *DB) UpdateVenue(ctx context.Context, idb bun.IDB, venue *models.Venue) error {
	res, err := d.resolveDB(idb).NewUpdate().
		Model(venue).
		ExcludeColumn("id").
		WherePK().
		Exec(ctx)
	if err != nil {
		return apperrors.Persistence("update venue", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("venue", venue.ID)
	}
	return nil
}

func (d *DB) DeleteVenue(ctx context.Context, idb bun.IDB, id int64) error {
	res, err := d.resolveDB(idb).NewDelete().
		Model((*models.Venue)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperrors.Persistence("delete venue", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("venue", id)
	}
	return nil
}
