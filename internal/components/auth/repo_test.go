package auth

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertPattern = `(?s)^\s*INSERT\s+INTO\s+users\s*\(\s*email,\s*password_hash\s*\)\s*VALUES\s*\(\s*\$1,\s*\$2\s*\)\s*$`
	selectPattern = `(?s)^\s*SELECT\s+email,\s*password_hash\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
)

func newRepoWithMock(t *testing.T) (*repo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &repo{db: db}, mock, db
}

func TestRepoCreate_Success(t *testing.T) {
	r, mock, db := newRepoWithMock(t)

	mock.ExpectExec(insertPattern).
		WithArgs("ana@example.com", "$2a$hash").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := r.Create(context.Background(), "ana@example.com", "$2a$hash")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Zero(t, db.Stats().InUse, "connection must be released")
}

func TestRepoCreate_Duplicate(t *testing.T) {
	r, mock, db := newRepoWithMock(t)

	mock.ExpectExec(insertPattern).
		WithArgs("ana@example.com", "$2a$hash").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

	err := r.Create(context.Background(), "ana@example.com", "$2a$hash")
	assert.ErrorIs(t, err, ErrDuplicateEntry)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Zero(t, db.Stats().InUse, "connection must be released")
}

func TestRepoCreate_NoRowAffected(t *testing.T) {
	r, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(insertPattern).
		WithArgs("ana@example.com", "$2a$hash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.Create(context.Background(), "ana@example.com", "$2a$hash")
	assert.ErrorIs(t, err, ErrUnknownStore)
}

func TestRepoCreate_DBError(t *testing.T) {
	r, mock, db := newRepoWithMock(t)

	mock.ExpectExec(insertPattern).
		WithArgs("ana@example.com", "$2a$hash").
		WillReturnError(errors.New("db down"))

	err := r.Create(context.Background(), "ana@example.com", "$2a$hash")
	assert.ErrorIs(t, err, ErrUnknownStore)
	assert.Contains(t, err.Error(), "db down")
	assert.Zero(t, db.Stats().InUse, "connection must be released")
}

func TestRepoGetByEmail_Found(t *testing.T) {
	r, mock, db := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"email", "password_hash"}).
		AddRow("ana@example.com", "$2a$hash")
	mock.ExpectQuery(selectPattern).
		WithArgs("ana@example.com").
		WillReturnRows(rows)

	user, err := r.GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, &User{Email: "ana@example.com", PasswordHash: "$2a$hash"}, user)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Zero(t, db.Stats().InUse, "connection must be released")
}

func TestRepoGetByEmail_NotFound(t *testing.T) {
	r, mock, db := newRepoWithMock(t)

	mock.ExpectQuery(selectPattern).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"email", "password_hash"}))

	_, err := r.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, errUserNotFound)
	assert.Zero(t, db.Stats().InUse, "connection must be released")
}

func TestRepoGetByEmail_DBError(t *testing.T) {
	r, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(selectPattern).
		WithArgs("ana@example.com").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.CannotConnectNow})

	_, err := r.GetByEmail(context.Background(), "ana@example.com")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

type failingConnector struct {
	err error
}

func (c failingConnector) Conn(context.Context) (*sql.Conn, error) {
	return nil, c.err
}

func TestRepo_AcquireFailure(t *testing.T) {
	r := &repo{db: failingConnector{err: driver.ErrBadConn}}

	err := r.Create(context.Background(), "ana@example.com", "$2a$hash")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = r.GetByEmail(context.Background(), "ana@example.com")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestRepo_CanceledContext(t *testing.T) {
	r, _, db := newRepoWithMock(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Create(ctx, "ana@example.com", "$2a$hash")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Zero(t, db.Stats().InUse)
}
