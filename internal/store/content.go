package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"contentpulse/pkg/database"
	"contentpulse/pkg/logging"
	"contentpulse/pkg/models"
)

// ErrNotConfigured is returned when the adapter has no table binding. The
// batch processor treats it as fatal for the whole run.
var ErrNotConfigured = errors.New("content store not configured: missing table binding")

// ContentStoreConfig holds the explicit bindings for the content adapter.
// Passed in at construction so tests can use fakes instead of ambient state.
type ContentStoreConfig struct {
	Table string
}

// DefaultContentStoreConfig returns the standard table binding
func DefaultContentStoreConfig() ContentStoreConfig {
	return ContentStoreConfig{Table: "content_items"}
}

// ContentStore reads and updates content documents in PostgreSQL. Only the
// automation fields (status, last run, result) are ever mutated here; content
// creation and deletion belong to the producing flow.
type ContentStore struct {
	db     database.PostgresConn
	table  string
	logger logging.Logger
}

// NewContentStore creates a content store adapter
func NewContentStore(db database.PostgresConn, cfg ContentStoreConfig, logger logging.Logger) *ContentStore {
	return &ContentStore{db: db, table: cfg.Table, logger: logger}
}

func (s *ContentStore) configured() bool {
	return s.db != nil && s.table != ""
}

// ListDue returns all items with automation enabled whose scheduled time has
// arrived, excluding claimed and terminal items, in schedule order.
func (s *ContentStore) ListDue(ctx context.Context, now time.Time) ([]models.ContentItem, error) {
	if !s.configured() {
		return nil, ErrNotConfigured
	}

	query := fmt.Sprintf(`
		SELECT id, organization_id, project_id, content_type, topic, body, channels,
		       scheduled_at, automation_enabled, automation_status,
		       automation_last_run_at, automation_result, created_at, updated_at
		FROM %s
		WHERE automation_enabled = TRUE
		  AND scheduled_at IS NOT NULL
		  AND scheduled_at <= $1
		  AND automation_status IN ('pending', 'scheduled', 'ready')
		ORDER BY scheduled_at ASC`, s.table)

	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			s.logger.WithError(err).Error("Failed to scan content item")
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Claim atomically marks a due item as processing and stamps the run time.
// The status guard makes the claim exclusive: overlapping runs race on the
// same row but only one sees rows-affected = 1.
func (s *ContentStore) Claim(ctx context.Context, id string, runAt time.Time) (bool, error) {
	if !s.configured() {
		return false, ErrNotConfigured
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET automation_status = 'processing', automation_last_run_at = $2, updated_at = $2
		WHERE id = $1
		  AND automation_enabled = TRUE
		  AND scheduled_at <= $2
		  AND automation_status IN ('pending', 'scheduled', 'ready')`, s.table)

	res, err := s.db.ExecContext(ctx, query, id, runAt)
	if err != nil {
		return false, fmt.Errorf("failed to claim content %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim result for %s: %w", id, err)
	}
	return affected == 1, nil
}

// MarkPosted records terminal success on a claimed item
func (s *ContentStore) MarkPosted(ctx context.Context, id string, runAt time.Time, result string) error {
	return s.setOutcome(ctx, id, models.StatusPosted, runAt, result)
}

// MarkFailed records terminal failure on a claimed item
func (s *ContentStore) MarkFailed(ctx context.Context, id string, runAt time.Time, result string) error {
	return s.setOutcome(ctx, id, models.StatusFailed, runAt, result)
}

func (s *ContentStore) setOutcome(ctx context.Context, id string, status models.AutomationStatus, runAt time.Time, result string) error {
	if !s.configured() {
		return ErrNotConfigured
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET automation_status = $2, automation_last_run_at = $3, automation_result = $4, updated_at = $3
		WHERE id = $1`, s.table)

	if _, err := s.db.ExecContext(ctx, query, id, string(status), runAt, result); err != nil {
		return fmt.Errorf("failed to set status %s on content %s: %w", status, id, err)
	}
	return nil
}

// rowScanner matches both *sql.Rows and *sql.Row
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContentItem(row rowScanner) (models.ContentItem, error) {
	var item models.ContentItem
	var projectID, result sql.NullString
	var scheduledAt, lastRunAt sql.NullTime
	var status string
	var channels pq.StringArray

	err := row.Scan(&item.ID, &item.OrganizationID, &projectID, &item.ContentType,
		&item.Topic, &item.Body, &channels, &scheduledAt, &item.AutomationEnabled,
		&status, &lastRunAt, &result, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return item, err
	}

	item.Channels = channels
	item.AutomationStatus = models.AutomationStatus(status)
	if projectID.Valid {
		item.ProjectID = &projectID.String
	}
	if scheduledAt.Valid {
		t := scheduledAt.Time
		item.ScheduledAt = &t
	}
	if lastRunAt.Valid {
		t := lastRunAt.Time
		item.AutomationLastRunAt = &t
	}
	if result.Valid {
		item.AutomationResult = &result.String
	}
	return item, nil
}
