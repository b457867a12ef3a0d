package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"fyyur/internal/apperrors"
)

// TxRunner is satisfied by *bun.DB.
type TxRunner interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error
}

// RunInTx runs fn as one unit of work bounded by timeout. The transaction
// commits when fn returns nil and rolls back otherwise, including on panic.
// Errors outside the application taxonomy come back as ErrPersistence.
func RunInTx(ctx context.Context, db TxRunner, timeout time.Duration, fn func(ctx context.Context, tx bun.Tx) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := db.RunInTx(ctx, nil, fn)
	if err == nil || isClassified(err) {
		return err
	}
	return apperrors.Persistence("transaction", err)
}

func isClassified(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrReferentialIntegrity) ||
		errors.Is(err, apperrors.ErrPersistence)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE pattern matching term anywhere, with the
// LIKE wildcards in term taken literally. Use with ESCAPE '\'.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// WhereNameContains adds a case-insensitive substring filter on column.
// An empty term leaves the query unfiltered. SQLite's LOWER folds ASCII
// only, so non-ASCII letters compare case-sensitively there.
func WhereNameContains(q *bun.SelectQuery, column, term string) *bun.SelectQuery {
	if term == "" {
		return q
	}
	return q.Where(`LOWER(?) LIKE LOWER(?) ESCAPE '\'`, bun.Ident(column), ContainsPattern(term))
}
