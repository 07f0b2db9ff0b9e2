package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgInsufficientPrivilege = "42501"
	pgUniqueViolation       = "23505"
	pgForeignKeyViolation   = "23503"
)

// FromStore translates driver-level persistence errors into coded errors.
// Unrecognized errors come back as CodeDependency so callers surface a
// transient failure instead of leaking driver internals.
func FromStore(err error, context string) *Error {
	if err == nil {
		return nil
	}
	if typed := As(err); typed != nil {
		return typed
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Wrap(CodeNotFound, err, context)
	}
	if code := sqlStateOf(err); code != "" {
		switch code {
		case pgInsufficientPrivilege:
			return Wrap(CodeForbidden, err, context)
		case pgUniqueViolation:
			return Wrap(CodeConflict, err, context)
		case pgForeignKeyViolation:
			return Wrap(CodeReferential, err, context)
		}
	}
	return Wrap(CodeDependency, err, context)
}

func sqlStateOf(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
