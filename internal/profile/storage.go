package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/lumee/lumee-platform/internal/schedule"
	"github.com/lumee/lumee-platform/pkg/postgres"
)

// Store defines profile lookup for the signal pipeline
type Store interface {
	GetProfile(ctx context.Context, name string) (*Profile, error)
}

// PostgresStore reads user profiles from the user_profiles table.
// Unknown or anonymous users resolve to the guest profile, never to an
// error, so a missing registration can't break signal delivery.
type PostgresStore struct {
	pgClient postgres.Client
	logger   *slog.Logger
}

// NewPostgresStore creates a new profile store
func NewPostgresStore(pgClient postgres.Client, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		pgClient: pgClient,
		logger:   logger,
	}
}

// GetProfile retrieves the profile for the named user. The guest profile
// is returned when the name is empty or no row exists.
func (s *PostgresStore) GetProfile(ctx context.Context, name string) (*Profile, error) {
	if name == "" || name == "guest" {
		return GuestProfile(), nil
	}

	query := `
    SELECT
        name,
        COALESCE(sensitive_factors, '{}') as sensitive_factors,
        COALESCE(hobbies, '{}') as hobbies,
        COALESCE(schedule, '[]'::jsonb) as schedule
    FROM user_profiles
    WHERE name = $1
`

	var p Profile
	var factors []string
	var scheduleJSON []byte

	row := s.pgClient.QueryRow(ctx, query, name)
	err := row.Scan(&p.Name, pq.Array(&factors), pq.Array(&p.Hobbies), &scheduleJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("No profile found, using guest profile", "user", name)
			return GuestProfile(), nil
		}
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	for _, f := range factors {
		p.SensitiveFactors = append(p.SensitiveFactors, Sensitivity(f))
	}

	var entries []schedule.Entry
	if err := json.Unmarshal(scheduleJSON, &entries); err != nil {
		// A broken schedule blob shouldn't hide the rest of the profile
		s.logger.Warn("Failed to parse stored schedule, ignoring it",
			"user", name, "error", err)
	} else {
		p.Schedule = entries
	}

	return &p, nil
}
