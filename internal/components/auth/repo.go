package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

const (
	insertUserStmt = `
	INSERT INTO users (
		email, password_hash
	)
	VALUES (
		$1, $2
	)`

	selectUserStmt = `
	SELECT email, password_hash
	FROM users
	WHERE email = $1`
)

var errUserNotFound = errors.New("user not found")

type (
	// Connector hands out one dedicated connection per call. *sql.DB satisfies it,
	// pooled or not, so handlers never depend on how connections are obtained.
	Connector interface {
		Conn(ctx context.Context) (*sql.Conn, error)
	}

	repoer interface {
		Create(ctx context.Context, email, passwordHash string) error
		GetByEmail(ctx context.Context, email string) (*User, error)
	}

	repo struct {
		db Connector
	}
)

func NewRepo(db *sql.DB) repoer {
	return &repo{db: db}
}

// withConn runs fn on a freshly acquired connection and releases it on every path.
// A failed release is logged with the request logger and never returned.
func (r *repo) withConn(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to release database connection")
		}
	}()

	return fn(conn)
}

func (r *repo) Create(ctx context.Context, email, passwordHash string) error {
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, insertUserStmt, email, passwordHash)
		if err != nil {
			return err
		}

		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n != 1 {
			return fmt.Errorf("insert affected %d rows", n)
		}
		return nil
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	user := new(User)

	err := r.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, selectUserStmt, email).Scan(
			&user.Email,
			&user.PasswordHash,
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	return user, nil
}
