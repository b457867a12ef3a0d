package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"fyyur/internal/apperrors"
	"fyyur/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) resolveDB(idb bun.IDB) bun.IDB {
	if idb == nil {
		return d.Bun
	}
	return idb
}

// ListShows returns every show with its venue and artist loaded.
func (d *DB) ListShows(ctx context.Context, idb bun.IDB) ([]*models.Show, error) {
	var shows []*models.Show
	err := d.resolveDB(idb).NewSelect().
		Model(&shows).
		Relation("Venue").
		Relation("Artist").
		Order("s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list shows", err)
	}
	return shows, nil
}

func (d *DB) GetShowByID(ctx context.Context, idb bun.IDB, id int64) (*models.Show, error) {
	show := new(models.Show)
	err := d.resolveDB(idb).NewSelect().
		Model(show).
		Relation("Venue").
		Relation("Artist").
		Where("s.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("show", id)
		}
		return nil, apperrors.Persistence("get show", err)
	}
	return show, nil
}

// ListByVenue returns the venue's shows with the artist loaded.
func (d *DB) ListByVenue(ctx context.Context, idb bun.IDB, venueID int64) ([]*models.Show, error) {
	var shows []*models.Show
	err := d.resolveDB(idb).NewSelect().
		Model(&shows).
		Relation("Artist").
		Where("s.venue_id = ?", venueID).
		Order("s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list venue shows", err)
	}
	return shows, nil
}

// ListByArtist returns the artist's shows with the venue loaded.
func (d *DB) ListByArtist(ctx context.Context, idb bun.IDB, artistID int64) ([]*models.Show, error) {
	var shows []*models.Show
	err := d.resolveDB(idb).NewSelect().
		Model(&shows).
		Relation("Venue").
		Where("s.artist_id = ?", artistID).
		Order("s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list artist shows", err)
	}
	return shows, nil
}

// ListByVenueIDs returns bare shows for the given venues, for counting.
func (d *DB) ListByVenueIDs(ctx context.Context, idb bun.IDB, venueIDs []int64) ([]*models.Show, error) {
	return d.listByColumn(ctx, idb, "venue_id", venueIDs)
}

func (d *DB) ListByArtistIDs(ctx context.Context, idb bun.IDB, artistIDs []int64) ([]*models.Show, error) {
	return d.listByColumn(ctx, idb, "artist_id", artistIDs)
}

func (d *DB) listByColumn(ctx context.Context, idb bun.IDB, column string, ids []int64) ([]*models.Show, error) {
	shows := []*models.Show{}
	if len(ids) == 0 {
		return shows, nil
	}
	err := d.resolveDB(idb).NewSelect().
		Model(&shows).
		Where("? IN (?)", bun.Ident(column), bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list shows by "+column, err)
	}
	return shows, nil
}

func (d *DB) CreateShow(ctx context.Context, idb bun.IDB, show *models.Show) error {
	if _, err := d.resolveDB(idb).NewInsert().Model(show).Exec(ctx); err != nil {
		return apperrors.Persistence("insert show", err)
	}
	return nil
}

// DeleteByVenue removes every show at the venue and reports how many went.
func (d *DB) DeleteByVenue(ctx context.Context, idb bun.IDB, venueID int64) (int64, error) {
	return d.deleteByColumn(ctx, idb, "venue_id", venueID)
}

func (d *DB) DeleteByArtist(ctx context.Context, idb bun.IDB, artistID int64) (int64, error) {
	return d.deleteByColumn(ctx, idb, "artist_id", artistID)
}

func (d *DB) deleteByColumn(ctx context.Context, idb bun.IDB, column string, id int64) (int64, error) {
	res, err := d.resolveDB(idb).NewDelete().
		Model((*models.Show)(nil)).
		Where("? = ?", bun.Ident(column), id).
		Exec(ctx)
	if err != nil {
		return 0, apperrors.Persistence("delete shows by "+column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.Persistence("delete shows by "+column, err)
	}
	return n, nil
}
