// domain/security_event.go
package domain

import "time"

// SecurityEvent is an append-only audit record. Writing one must never
// fail the operation that produced it.
type SecurityEvent struct {
	ID          int64                  `json:"id"`
	UserID      int64                  `json:"user_id"`
	EventType   string                 `json:"event_type"`
	Description string                 `json:"description"`
	IPAddress   string                 `json:"ip_address,omitempty"`
	UserAgent   string                 `json:"user_agent,omitempty"`
	RiskLevel   RiskLevel              `json:"risk_level"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

const (
	EventTransferBlocked = "transfer_blocked"
	EventRiskEngineDown  = "risk_engine_unavailable"
)
