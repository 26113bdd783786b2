package database

import (
	"errors"

	"github.com/lib/pq"
)

// SQLSTATE codes the repositories translate into domain errors.
const (
	UniqueViolation     pq.ErrorCode = "23505"
	ForeignKeyViolation pq.ErrorCode = "23503"
)

// Violation reports the SQLSTATE and constraint name of a *pq.Error
// anywhere in err's chain.
func Violation(err error) (code pq.ErrorCode, constraint string, ok bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return "", "", false
	}
	return pqErr.Code, pqErr.Constraint, true
}

// IsViolation reports whether err is a code violation of constraint. An
// empty constraint matches any constraint.
func IsViolation(err error, code pq.ErrorCode, constraint string) bool {
	c, name, ok := Violation(err)
	return ok && c == code && (constraint == "" || name == constraint)
}
