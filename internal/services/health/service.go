package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	db *sql.DB
}

// NewService constructs a new health service. db may be nil when the API
// runs on in-memory repositories.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Status reports overall health plus whether the database answers.
func (s *Service) Status(ctx context.Context) map[string]any {
	out := map[string]any{"ok": true, "storage": "memory"}
	if s.db == nil {
		return out
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		out["ok"] = false
		out["storage"] = "postgres:unreachable"
		return out
	}
	out["storage"] = "postgres"
	return out
}
