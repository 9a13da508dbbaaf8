package auth_repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/id"
	"voltbill/internal/domain/auth"
	"voltbill/internal/infrastructure/storage/postgres"
)

// SessionRepo implements auth.SessionRepository.
// In Database-per-Tenant, TxManager is obtained from context.
type SessionRepo struct{}

// NewSessionRepo creates a new session repository.
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{}
}

// getTxManager retrieves TxManager from context.
func (r *SessionRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

// CreateSession records a new session.
func (r *SessionRepo) CreateSession(ctx context.Context, session *auth.Session) error {
	q := r.getTxManager(ctx).GetQuerier(ctx)

	query := `
		INSERT INTO sessions (id, user_id, created_at, last_seen_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::inet)
	`

	_, err := q.Exec(ctx, query,
		session.ID, session.UserID, session.CreatedAt, session.LastSeenAt,
		session.UserAgent, session.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID.
func (r *SessionRepo) GetSession(ctx context.Context, sessionID id.ID) (*auth.Session, error) {
	q := r.getTxManager(ctx).GetQuerier(ctx)

	query := `
		SELECT id, user_id, created_at, last_seen_at, revoked_at, COALESCE(revoked_reason, '')
		FROM sessions WHERE id = $1
	`

	var session auth.Session
	err := q.QueryRow(ctx, query, sessionID).Scan(
		&session.ID, &session.UserID, &session.CreatedAt, &session.LastSeenAt,
		&session.RevokedAt, &session.RevokedReason,
	)
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("session", sessionID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	return &session, nil
}

// SupersedeUserSessions revokes all active sessions for a user.
func (r *SessionRepo) SupersedeUserSessions(ctx context.Context, userID id.ID, reason string) error {
	q := r.getTxManager(ctx).GetQuerier(ctx)

	query := `UPDATE sessions SET revoked_at = now(), revoked_reason = $2 WHERE user_id = $1 AND revoked_at IS NULL`
	_, err := q.Exec(ctx, query, userID, reason)
	if err != nil {
		return fmt.Errorf("supersede sessions: %w", err)
	}

	return nil
}

// RevokeSession revokes a single session.
func (r *SessionRepo) RevokeSession(ctx context.Context, sessionID id.ID, reason string) error {
	q := r.getTxManager(ctx).GetQuerier(ctx)

	query := `UPDATE sessions SET revoked_at = now(), revoked_reason = $2 WHERE id = $1 AND revoked_at IS NULL`
	_, err := q.Exec(ctx, query, sessionID, reason)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

// TouchSession updates the session's last-seen timestamp.
func (r *SessionRepo) TouchSession(ctx context.Context, sessionID id.ID) error {
	q := r.getTxManager(ctx).GetQuerier(ctx)

	query := `UPDATE sessions SET last_seen_at = now() WHERE id = $1`
	_, err := q.Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	return nil
}

// Ensure interface compliance
var _ auth.SessionRepository = (*SessionRepo)(nil)
