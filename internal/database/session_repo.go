package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/klearport/customs-console/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

const sessionColumns = `id, user_id, company_id, status, template_type, output_format_name, form_type, job_id,
	s3_bucket, s3_key, original_filename, content_type, file_size_bytes,
	raw_payload, canonical_data, edited_payload, error_message, poll_attempts, created_at, updated_at`

func scanSession(row pgx.Row) (*models.ExtractionSession, error) {
	s := &models.ExtractionSession{}
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.CompanyID,
		&s.Status,
		&s.TemplateType,
		&s.OutputFormatName,
		&s.FormType,
		&s.JobID,
		&s.S3Bucket,
		&s.S3Key,
		&s.OriginalFilename,
		&s.ContentType,
		&s.FileSizeBytes,
		&s.RawPayload,
		&s.CanonicalData,
		&s.EditedPayload,
		&s.ErrorMessage,
		&s.PollAttempts,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// CreateSession records a fresh document upload
func (db *DB) CreateSession(ctx context.Context, req *models.CreateSessionRequest) (*models.ExtractionSession, error) {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO extraction_sessions (user_id, company_id, status, s3_bucket, s3_key, original_filename, content_type, file_size_bytes, created_at, updated_at)
		VALUES ($1, $2, 'uploaded', $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING `+sessionColumns,
		req.UserID, req.CompanyID, req.S3Bucket, req.S3Key, req.OriginalFilename, req.ContentType, req.FileSizeBytes)
	return scanSession(row)
}

// GetSessionByID retrieves a session by ID
func (db *DB) GetSessionByID(ctx context.Context, id int) (*models.ExtractionSession, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT `+sessionColumns+` FROM extraction_sessions WHERE id = $1
	`, id)
	return scanSession(row)
}

// ListSessions returns a filtered, paginated list of sessions. Admin callers
// pass a nil CompanyID to see everything; everyone else is company-scoped.
func (db *DB) ListSessions(ctx context.Context, params *models.SessionListParams) ([]*models.ExtractionSession, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	argN := 1

	if params.CompanyID != nil {
		where += fmt.Sprintf(" AND company_id = $%d", argN)
		args = append(args, *params.CompanyID)
		argN++
	}
	if params.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argN)
		args = append(args, *params.Status)
		argN++
	}

	var total int
	err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM extraction_sessions "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT "+sessionColumns+" FROM extraction_sessions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, argN, argN+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []*models.ExtractionSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, s)
	}
	return sessions, total, nil
}

// UpdateSessionStatus moves a session through its lifecycle and records an
// error message when the transition is to failed.
func (db *DB) UpdateSessionStatus(ctx context.Context, id int, status models.SessionStatus, errorMessage *string) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE extraction_sessions
		SET status = $2, error_message = $3, updated_at = NOW()
		WHERE id = $1
	`, id, status, errorMessage)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// SetSessionJob records the extraction backend's job id before polling starts
func (db *DB) SetSessionJob(ctx context.Context, id int, jobID string) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE extraction_sessions SET job_id = $2, status = 'processing', updated_at = NOW() WHERE id = $1
	`, id, jobID)
	return err
}

// SetSessionResult stores the extraction output and marks the session ready
func (db *DB) SetSessionResult(ctx context.Context, id int, payload json.RawMessage, templateType, outputFormatName string) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE extraction_sessions
		SET raw_payload = $2, template_type = $3, output_format_name = $4, status = 'ready', error_message = NULL, updated_at = NOW()
		WHERE id = $1
	`, id, payload, templateType, outputFormatName)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// SetSessionPollAttempts persists the poller's attempt counter so a restart
// does not reset the 60-attempt ceiling.
func (db *DB) SetSessionPollAttempts(ctx context.Context, id int, attempts int) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE extraction_sessions SET poll_attempts = $2, updated_at = NOW() WHERE id = $1
	`, id, attempts)
	return err
}

// SetCanonicalData stores the editable working copy of a session's data
func (db *DB) SetCanonicalData(ctx context.Context, id int, data json.RawMessage) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE extraction_sessions SET canonical_data = $2, updated_at = NOW() WHERE id = $1
	`, id, data)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// SaveEditedPayload stores the serialized edit result and confirms the session
func (db *DB) SaveEditedPayload(ctx context.Context, id int, payload json.RawMessage, formType string) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE extraction_sessions
		SET edited_payload = $2, form_type = $3, status = 'confirmed', updated_at = NOW()
		WHERE id = $1
	`, id, payload, formType)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteSession deletes a session by ID
func (db *DB) DeleteSession(ctx context.Context, id int) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM extraction_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListStuckSessions finds sessions left in processing, for poller resumption
// after a restart.
func (db *DB) ListStuckSessions(ctx context.Context) ([]*models.ExtractionSession, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+sessionColumns+` FROM extraction_sessions
		WHERE status = 'processing' AND job_id IS NOT NULL
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.ExtractionSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
