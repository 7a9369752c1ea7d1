package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
)

// Sentinels raised inside aggregate transactions. MapError turns them into coded errors.
var (
	ErrValidation   = errors.New("aggregate validation")
	ErrInvariant    = errors.New("aggregate invariant violation")
	ErrConflict     = errors.New("aggregate conflict")
	ErrPrecondition = errors.New("aggregate precondition failed")
	ErrRetryable    = errors.New("aggregate retryable")
)

func tagged(sentinel error, msg string) error {
	return errors.Join(sentinel, errors.New(strings.TrimSpace(msg)))
}

func ValidationError(msg string) error   { return tagged(ErrValidation, msg) }
func InvariantError(msg string) error    { return tagged(ErrInvariant, msg) }
func ConflictError(msg string) error     { return tagged(ErrConflict, msg) }
func PreconditionError(msg string) error { return tagged(ErrPrecondition, msg) }
func RetryableError(msg string) error    { return tagged(ErrRetryable, msg) }

var sentinelCodes = []struct {
	target error
	code   domainagg.ErrorCode
}{
	{ErrValidation, domainagg.CodeValidation},
	{ErrInvariant, domainagg.CodeInvariantViolation},
	{ErrConflict, domainagg.CodeConflict},
	{ErrPrecondition, domainagg.CodePreconditionFailed},
	{ErrRetryable, domainagg.CodeRetryable},
	{gorm.ErrRecordNotFound, domainagg.CodeNotFound},
	{context.Canceled, domainagg.CodeRetryable},
	{context.DeadlineExceeded, domainagg.CodeRetryable},
}

// SQLSTATE classes we care about.
var pgStateCodes = map[string]domainagg.ErrorCode{
	"23505": domainagg.CodeConflict,           // unique_violation
	"23503": domainagg.CodePreconditionFailed, // foreign_key_violation
	"23514": domainagg.CodeValidation,         // check_violation
	"40001": domainagg.CodeRetryable,          // serialization_failure
	"40P01": domainagg.CodeRetryable,          // deadlock_detected
	"55P03": domainagg.CodeRetryable,          // lock_not_available
}

var sqliteExtendedCodes = map[sqlite3.ErrNoExtended]domainagg.ErrorCode{
	sqlite3.ErrConstraintUnique:     domainagg.CodeConflict,
	sqlite3.ErrConstraintPrimaryKey: domainagg.CodeConflict,
	sqlite3.ErrConstraintForeignKey: domainagg.CodePreconditionFailed,
	sqlite3.ErrConstraintCheck:      domainagg.CodeValidation,
}

// Last resort for drivers that only surface text. Checked in order.
var messageFragments = []struct {
	fragment string
	code     domainagg.ErrorCode
}{
	{"duplicate key", domainagg.CodeConflict},
	{"already exists", domainagg.CodeConflict},
	{"unique constraint failed", domainagg.CodeConflict},
	{"foreign key constraint failed", domainagg.CodePreconditionFailed},
	{"check constraint failed", domainagg.CodeValidation},
	{"deadlock", domainagg.CodeRetryable},
	{"serialization", domainagg.CodeRetryable},
	{"database is locked", domainagg.CodeRetryable},
	{"timeout", domainagg.CodeRetryable},
	{"temporar", domainagg.CodeRetryable},
}

// MapError attaches an aggregate error code to err. Errors that already carry a code pass through.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*domainagg.Error); ok {
		return err
	}
	return domainagg.Wrap(classify(err), op, err)
}

func classify(err error) domainagg.ErrorCode {
	for _, s := range sentinelCodes {
		if errors.Is(err, s.target) {
			return s.code
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if code, ok := pgStateCodes[strings.TrimSpace(pgErr.Code)]; ok {
			return code
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		if code, ok := sqliteExtendedCodes[liteErr.ExtendedCode]; ok {
			return code
		}
		if liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked {
			return domainagg.CodeRetryable
		}
	}

	msg := strings.ToLower(err.Error())
	for _, f := range messageFragments {
		if strings.Contains(msg, f.fragment) {
			return f.code
		}
	}
	return domainagg.CodeInternal
}

// isUniqueViolation reports whether err came from a unique index on either driver.
func isUniqueViolation(err error) bool {
	return err != nil && classify(err) == domainagg.CodeConflict
}
