package store

import (
	"context"
	"database/sql"
	"fmt"

	"contentpulse/pkg/database"
	"contentpulse/pkg/logging"
	"contentpulse/pkg/models"
)

// DefaultSampleLimit bounds how many engagement samples one insights request
// pulls from ClickHouse.
const DefaultSampleLimit = 120

// EngagementStoreConfig holds the explicit bindings for the metrics adapter
type EngagementStoreConfig struct {
	Table string
}

// DefaultEngagementStoreConfig returns the standard table binding
func DefaultEngagementStoreConfig() EngagementStoreConfig {
	return EngagementStoreConfig{Table: "engagement_metrics"}
}

// EngagementStore is a read-only adapter over the engagement samples in
// ClickHouse. Samples are append-only; this adapter never writes.
type EngagementStore struct {
	db     database.ClickHouseConn
	table  string
	logger logging.Logger
}

// NewEngagementStore creates an engagement metrics adapter
func NewEngagementStore(db database.ClickHouseConn, cfg EngagementStoreConfig, logger logging.Logger) *EngagementStore {
	return &EngagementStore{db: db, table: cfg.Table, logger: logger}
}

// ListRecent returns the most recent samples for an organization, newest
// first. A non-positive limit falls back to DefaultSampleLimit.
func (s *EngagementStore) ListRecent(ctx context.Context, organizationID string, limit int) ([]models.EngagementMetric, error) {
	if s.db == nil || s.table == "" {
		return nil, fmt.Errorf("engagement store not configured: missing table binding")
	}
	if limit <= 0 {
		limit = DefaultSampleLimit
	}

	query := fmt.Sprintf(`
		SELECT id, content_id, organization_id, views, clicks, reactions,
		       period_start, period_end, source
		FROM %s
		WHERE organization_id = ?
		ORDER BY period_start DESC
		LIMIT ?`, s.table)

	rows, err := s.db.QueryContext(ctx, query, organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query engagement metrics: %w", err)
	}
	defer rows.Close()

	var samples []models.EngagementMetric
	for rows.Next() {
		var m models.EngagementMetric
		var periodEnd sql.NullTime
		var source sql.NullString

		if err := rows.Scan(&m.ID, &m.ContentID, &m.OrganizationID,
			&m.Views, &m.Clicks, &m.Reactions,
			&m.PeriodStart, &periodEnd, &source); err != nil {
			s.logger.WithError(err).Error("Failed to scan engagement metric")
			continue
		}
		if periodEnd.Valid {
			t := periodEnd.Time
			m.PeriodEnd = &t
		}
		if source.Valid {
			m.Source = &source.String
		}
		samples = append(samples, m)
	}
	return samples, rows.Err()
}
