package repository

import (
	"context"
	"errors"
	"time"

	"jobboard/api/internal/database"
	"jobboard/api/internal/models"
	"jobboard/api/internal/security"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository keeps the single live refresh token of each user. Only
// the SHA-256 digest is stored; lookups compare digests, so a token matches
// only if it is byte-for-byte the one last written.
type SessionRepository struct {
	db database.DBTX
}

func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// SetCurrentRefreshToken overwrites the stored token; an empty token ends the session.
func (r *SessionRepository) SetCurrentRefreshToken(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	if token == "" {
		return r.ClearRefreshToken(ctx, userID)
	}

	const query = `
		UPDATE users
		SET refresh_token_hash = $2, refresh_expires_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`
	cmd, err := r.db.Exec(ctx, query, userID, security.HashRefreshToken(token), expiresAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RotateRefreshToken replaces presented with next only if presented is still
// the stored token. A concurrent rotation that got there first leaves zero
// rows affected and the caller gets ErrSessionNotFound.
func (r *SessionRepository) RotateRefreshToken(ctx context.Context, userID string, presented string, next string, expiresAt time.Time) error {
	const query = `
		UPDATE users
		SET refresh_token_hash = $3, refresh_expires_at = $4
		WHERE id = $1 AND refresh_token_hash = $2 AND deleted_at IS NULL
	`
	cmd, err := r.db.Exec(ctx, query,
		userID,
		security.HashRefreshToken(presented),
		security.HashRefreshToken(next),
		expiresAt,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) FindUserByRefreshToken(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrSessionNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users
		WHERE refresh_token_hash = $1 AND refresh_expires_at > NOW() AND deleted_at IS NULL`
	user, err := scanUser(r.db.QueryRow(ctx, query, security.HashRefreshToken(token)))
	if errors.Is(err, ErrUserNotFound) {
		return models.User{}, ErrSessionNotFound
	}
	return user, err
}

func (r *SessionRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	const query = `
		UPDATE users SET refresh_token_hash = NULL, refresh_expires_at = NULL WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

// ClearExpired drops refresh digests whose lifetime has passed.
func (r *SessionRepository) ClearExpired(ctx context.Context) (int64, error) {
	const query = `
		UPDATE users SET refresh_token_hash = NULL, refresh_expires_at = NULL
		WHERE refresh_expires_at IS NOT NULL AND refresh_expires_at <= NOW()
	`
	cmd, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
