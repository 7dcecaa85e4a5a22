package models

import (
	"encoding/json"
	"time"
)

// SessionStatus tracks an extraction session through its lifecycle.
type SessionStatus string

const (
	SessionStatusUploaded   SessionStatus = "uploaded"
	SessionStatusProcessing SessionStatus = "processing"
	SessionStatusReady      SessionStatus = "ready"
	SessionStatusFailed     SessionStatus = "failed"
	SessionStatusConfirmed  SessionStatus = "confirmed"
)

// ExtractionSession is one uploaded declaration document and its extraction
// state. RawPayload holds the extraction backend's output verbatim,
// CanonicalData the working copy being edited, EditedPayload the last
// serialized save. All three are stored as JSONB so the SEALNET
// clone-then-patch path survives database round-trips.
type ExtractionSession struct {
	ID               int             `json:"id"`
	UserID           int             `json:"user_id"`
	CompanyID        *int            `json:"company_id,omitempty"`
	Status           SessionStatus   `json:"status"`
	TemplateType     *string         `json:"template_type,omitempty"`
	OutputFormatName *string         `json:"output_format_name,omitempty"`
	FormType         *string         `json:"form_type,omitempty"`
	JobID            *string         `json:"job_id,omitempty"`
	S3Bucket         string          `json:"s3_bucket"`
	S3Key            string          `json:"s3_key"`
	OriginalFilename string          `json:"original_filename"`
	ContentType      string          `json:"content_type"`
	FileSizeBytes    int64           `json:"file_size_bytes"`
	RawPayload       json.RawMessage `json:"raw_payload,omitempty"`
	CanonicalData    json.RawMessage `json:"canonical_data,omitempty"`
	EditedPayload    json.RawMessage `json:"edited_payload,omitempty"`
	ErrorMessage     *string         `json:"error_message,omitempty"`
	PollAttempts     int             `json:"poll_attempts"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// DocumentURL is a presigned download link, populated per request.
	DocumentURL *string `json:"document_url,omitempty"`
}

// CreateSessionRequest carries the fields needed to record a fresh upload
type CreateSessionRequest struct {
	UserID           int
	CompanyID        *int
	S3Bucket         string
	S3Key            string
	OriginalFilename string
	ContentType      string
	FileSizeBytes    int64
}

// SessionListParams filters and paginates session listings
type SessionListParams struct {
	UserID    int
	CompanyID *int
	Status    *string
	Limit     int
	Offset    int
}

// SaveSessionRequest is the request body for saving edited canonical data.
// FormType records which layout the user confirmed under.
type SaveSessionRequest struct {
	FormType string `json:"form_type"`
}
