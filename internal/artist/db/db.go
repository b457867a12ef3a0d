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

func (d *DB) resolveDB(idb bun.IDB) bun.IDB {
	if idb == nil {
		return d.Bun
	}
	return idb
}

func (d *DB) ListArtists(ctx context.Context, idb bun.IDB) ([]*models.Artist, error) {
	var artists []*models.Artist
	err := d.resolveDB(idb).NewSelect().
		Model(&artists).
		Order("name ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list artists", err)
	}
	return artists, nil
}

func (d *DB) SearchArtists(ctx context.Context, idb bun.IDB, term string) ([]*models.Artist, error) {
	var artists []*models.Artist
	q := d.resolveDB(idb).NewSelect().Model(&artists)
	err := database.WhereNameContains(q, "name", term).
		Order("name ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("search artists", err)
	}
	return artists, nil
}

func (d *DB) RecentArtists(ctx context.Context, idb bun.IDB, limit int) ([]*models.Artist, error) {
	var artists []*models.Artist
	err := d.resolveDB(idb).NewSelect().
		Model(&artists).
		Order("id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, apperrors.Persistence("recent artists", err)
	}
	return artists, nil
}

func (d *DB) GetArtistByID(ctx context.Context, idb bun.IDB, id int64) (*models.Artist, error) {
	artist := new(models.Artist)
	err := d.resolveDB(idb).NewSelect().
		Model(artist).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("artist", id)
		}
		return nil, apperrors.Persistence("get artist", err)
	}
	return artist, nil
}

func (d *DB) ArtistExists(ctx context.Context, idb bun.IDB, id int64) (bool, error) {
	exists, err := d.resolveDB(idb).NewSelect().
		Model((*models.Artist)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, apperrors.Persistence("artist exists", err)
	}
	return exists, nil
}

func (d *DB) CreateArtist(ctx context.Context, idb bun.IDB, artist *models.Artist) error {
	if _, err := d.resolveDB(idb).NewInsert().Model(artist).Exec(ctx); err != nil {
		return apperrors.Persistence("insert artist", err)
	}
	return nil
}

func (d *DB) UpdateArtist(ctx context.Context, idb bun.IDB, artist *models.Artist) error {
	res, err := d.resolveDB(idb).NewUpdate().
		Model(artist).
		ExcludeColumn("id").
		WherePK().
		Exec(ctx)
	if err != nil {
		return apperrors.Persistence("update artist", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("artist", artist.ID)
	}
	return nil
}

func (d *DB) DeleteArtist(ctx context.Context, idb bun.IDB, id int64) error {
	res, err := d.resolveDB(idb).NewDelete().
		Model((*models.Artist)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperrors.Persistence("delete artist", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("artist", id)
	}
	return nil
}
