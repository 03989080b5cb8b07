// repository/security_repo.go
package repository

import (
	"context"
	"encoding/json"

	"transfer-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SecurityEventRepo struct {
	db *pgxpool.Pool
}

func NewSecurityEventRepository(db *pgxpool.Pool) *SecurityEventRepo {
	return &SecurityEventRepo{db: db}
}

// Record appends one audit row. Callers treat failures as log-and-continue:
// the audit trail must never fail the operation that produced the event.
func (r *SecurityEventRepo) Record(ctx context.Context, ev *domain.SecurityEvent) error {
	meta, err := json.Marshal(ev.Metadata)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO security_events
        (user_id, event_type, description, ip_address, user_agent, risk_level, metadata)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query,
		ev.UserID, ev.EventType, ev.Description, ev.IPAddress, ev.UserAgent, ev.RiskLevel, meta,
	).Scan(&ev.ID, &ev.CreatedAt)
}
