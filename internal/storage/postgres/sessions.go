package postgres

import (
	"context"

	"github.com/adanyl0v/taskboard/internal/models"
)

func (db *DB) CreateSession(ctx context.Context, session *models.Session) error {
	const insertSessionQuery = `
INSERT INTO sessions (id,
                      user_id,
                      fingerprint,
                      refresh_token,
                      expires_at,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := db.pool.Exec(
		ctx,
		insertSessionQuery,
		session.ID,
		session.UserID,
		session.Fingerprint,
		session.RefreshToken,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return translate(err)
}

func (db *DB) GetSessionByID(ctx context.Context, id string) (*models.Session, error) {
	session := &models.Session{ID: id}

	const selectSessionByIDQuery = `
SELECT user_id,
       fingerprint,
       refresh_token,
       expires_at,
       created_at,
       updated_at
FROM sessions
WHERE id = $1
`
	err := db.pool.QueryRow(
		ctx,
		selectSessionByIDQuery,
		session.ID,
	).Scan(
		&session.UserID,
		&session.Fingerprint,
		&session.RefreshToken,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return session, nil
}

func (db *DB) GetSessionByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error) {
	session := &models.Session{
		RefreshToken: refreshToken,
		Fingerprint:  fingerprint,
	}

	const selectSessionByRefreshTokenQuery = `
SELECT id,
       user_id,
       expires_at,
       created_at,
       updated_at
FROM sessions
WHERE refresh_token = $1 AND
      fingerprint = $2
`
	err := db.pool.QueryRow(
		ctx,
		selectSessionByRefreshTokenQuery,
		session.RefreshToken,
		session.Fingerprint,
	).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return session, nil
}

func (db *DB) UpdateSessionToken(ctx context.Context, session *models.Session) error {
	const updateSessionQuery = `
UPDATE sessions
SET refresh_token = $1,
    expires_at = $2,
    updated_at = $3
WHERE id = $4
`
	tag, err := db.pool.Exec(
		ctx,
		updateSessionQuery,
		session.RefreshToken,
		session.ExpiresAt,
		session.UpdatedAt,
		session.ID,
	)
	if err != nil {
		return translate(err)
	}
	return expectAffected(tag)
}

func (db *DB) DeleteSessionsByUserID(ctx context.Context, userID string) (int64, error) {
	const deleteSessionsByUserIDQuery = `
DELETE FROM sessions
       WHERE user_id = $1
`
	tag, err := db.pool.Exec(ctx, deleteSessionsByUserIDQuery, userID)
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}

func (db *DB) DeleteSessionsByFingerprint(ctx context.Context, userID, fingerprint string) (int64, error) {
	const deleteSessionsByFingerprintQuery = `
DELETE FROM sessions
       WHERE user_id = $1 AND fingerprint = $2
`
	tag, err := db.pool.Exec(ctx, deleteSessionsByFingerprintQuery, userID, fingerprint)
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}
