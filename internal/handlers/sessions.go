package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/klearport/customs-console/internal/config"
	"github.com/klearport/customs-console/internal/database"
	"github.com/klearport/customs-console/internal/middleware"
	"github.com/klearport/customs-console/internal/models"
	"github.com/klearport/customs-console/internal/services"
)

// SessionHandler handles extraction-session endpoints
type SessionHandler struct {
	db        *database.DB
	cfg       *config.Config
	storage   *services.StorageService
	extractor *services.ExtractionClient
	poller    *services.Poller
	ocr       *services.OCRService
	fallback  *services.FallbackParser
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(
	db *database.DB,
	cfg *config.Config,
	storage *services.StorageService,
	extractor *services.ExtractionClient,
	poller *services.Poller,
	ocr *services.OCRService,
) *SessionHandler {
	return &SessionHandler{
		db:        db,
		cfg:       cfg,
		storage:   storage,
		extractor: extractor,
		poller:    poller,
		ocr:       ocr,
		fallback:  services.NewFallbackParser(),
	}
}

// getOwnedSession loads a session and enforces company scoping for the
// current user.
func (h *SessionHandler) getOwnedSession(c *fiber.Ctx, cu models.CurrentUser) (*models.ExtractionSession, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, Error(c, fiber.StatusBadRequest, "invalid session ID")
	}

	session, err := h.db.GetSessionByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrSessionNotFound) {
			return nil, Error(c, fiber.StatusNotFound, "session not found")
		}
		return nil, Error(c, fiber.StatusInternalServerError, "failed to get session")
	}

	if !cu.CanAccessCompany(session.CompanyID) {
		return nil, Error(c, fiber.StatusForbidden, "access denied")
	}
	return session, nil
}

// UploadDocument handles declaration document upload and kicks off extraction
func (h *SessionHandler) UploadDocument(c *fiber.Ctx) error {
	cu := middleware.GetCurrentUser(c)
	if cu.ID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	file, err := c.FormFile("document")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "document file is required")
	}

	contentType := file.Header.Get("Content-Type")
	if !isValidDocumentType(contentType) {
		return Error(c, fiber.StatusBadRequest, "invalid document type. Supported: PDF, XLSX, JPEG, PNG, TIFF")
	}

	// Validate file size (max 20MB)
	if file.Size > 20*1024*1024 {
		return Error(c, fiber.StatusBadRequest, "file too large. Maximum size is 20MB")
	}

	s3Key := generateS3Key(cu.ID, file.Filename)

	src, err := file.Open()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}
	defer src.Close()

	// Keep the bytes around for submission to the extraction backend
	documentBytes, err := io.ReadAll(src)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}

	uploadResult, err := h.storage.Upload(c.Context(), s3Key, bytes.NewReader(documentBytes), file.Size, contentType)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to upload document")
	}

	session, err := h.db.CreateSession(c.Context(), &models.CreateSessionRequest{
		UserID:           cu.ID,
		CompanyID:        cu.CompanyID,
		S3Bucket:         uploadResult.Bucket,
		S3Key:            s3Key,
		OriginalFilename: file.Filename,
		ContentType:      contentType,
		FileSizeBytes:    file.Size,
	})
	if err != nil {
		// Clean up S3 on failure
		if deleteErr := h.storage.Delete(c.Context(), s3Key); deleteErr != nil {
			log.Printf("Warning: failed to clean up S3 object %s after session creation failure: %v", s3Key, deleteErr)
		}
		return Error(c, fiber.StatusInternalServerError, "failed to create session record")
	}

	h.startExtraction(c, session, file.Filename, contentType, documentBytes)

	// Return the fresh state; clients poll GET /sessions/:id for progress
	updated, err := h.db.GetSessionByID(c.Context(), session.ID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to retrieve session")
	}
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: updated})
}

// startExtraction routes the document to the remote backend or the local OCR
// fallback. Failures mark the session failed rather than erroring the upload;
// the document itself is already stored.
func (h *SessionHandler) startExtraction(c *fiber.Ctx, session *models.ExtractionSession, filename, contentType string, documentBytes []byte) {
	if h.extractor.Enabled() {
		jobID, err := h.extractor.SubmitDocument(c.Context(), filename, contentType, bytes.NewReader(documentBytes))
		if err != nil {
			log.Printf("Warning: extraction submit failed for session %d: %v", session.ID, err)
			msg := "failed to submit document for extraction"
			if statusErr := h.db.UpdateSessionStatus(c.Context(), session.ID, models.SessionStatusFailed, &msg); statusErr != nil {
				log.Printf("Warning: failed to mark session %d failed: %v", session.ID, statusErr)
			}
			return
		}
		if err := h.db.SetSessionJob(c.Context(), session.ID, jobID); err != nil {
			log.Printf("Warning: failed to record job for session %d: %v", session.ID, err)
		}
		h.poller.Watch(session.ID, jobID, 0)
		return
	}

	if h.ocr != nil && strings.HasPrefix(contentType, "image/") {
		ocrResult, err := h.ocr.ProcessImage(documentBytes)
		if err != nil {
			msg := "local OCR failed: " + err.Error()
			if statusErr := h.db.UpdateSessionStatus(c.Context(), session.ID, models.SessionStatusFailed, &msg); statusErr != nil {
				log.Printf("Warning: failed to mark session %d failed: %v", session.ID, statusErr)
			}
			return
		}
		payload := h.fallback.Parse(ocrResult.Text)
		raw, err := json.Marshal(payload)
		if err != nil {
			msg := "failed to encode extracted data"
			h.db.UpdateSessionStatus(c.Context(), session.ID, models.SessionStatusFailed, &msg)
			return
		}
		if err := h.db.SetSessionResult(c.Context(), session.ID, raw, "ALDEC", "K1 Borang"); err != nil {
			log.Printf("Warning: failed to store fallback result for session %d: %v", session.ID, err)
		}
		return
	}

	msg := "no extraction backend configured and document is not a scannable image"
	if err := h.db.UpdateSessionStatus(c.Context(), session.ID, models.SessionStatusFailed, &msg); err != nil {
		log.Printf("Warning: failed to mark session %d failed: %v", session.ID, err)
	}
}

// ListSessions returns a paginated list of the caller's visible sessions
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	cu := middleware.GetCurrentUser(c)
	if cu.ID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	params := &models.SessionListParams{
		UserID: cu.ID,
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if cu.Role != models.RoleAdmin {
		params.CompanyID = cu.CompanyID
	}
	if status := c.Query("status"); status != "" {
		params.Status = &status
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	sessions, total, err := h.db.ListSessions(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list sessions")
	}

	return SuccessWithMeta(c, sessions, total, params.Limit, params.Offset)
}

// GetSession returns a single session with a presigned document link
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	cu := middleware.GetCurrentUser(c)
	if cu.ID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := h.getOwnedSession(c, cu)
	if session == nil {
		return err
	}

	documentURL, urlErr := h.storage.GetPresignedURL(c.Context(), session.S3Key, 1*time.Hour)
	if urlErr == nil {
		session.DocumentURL = &documentURL
	}

	return Success(c, session)
}

// GetSessionDocument returns a presigned URL for the original document
func (h *SessionHandler) GetSessionDocument(c *fiber.Ctx) error {
	cu := middleware.GetCurrentUser(c)
	if cu.ID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := h.getOwnedSession(c, cu)
	if session == nil {
		return err
	}

	url, urlErr := h.storage.GetPresignedURL(c.Context(), session.S3Key, 1*time.Hour)
	if urlErr != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate document URL")
	}

	return Success(c, fiber.Map{"url": url})
}

// DeleteSession deletes a session and its stored document
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	cu := middleware.GetCurrentUser(c)
	if cu.ID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := h.getOwnedSession(c, cu)
	if session == nil {
		return err
	}

	// Stop any in-flight polling first
	h.poller.Stop(session.ID)

	// Delete from S3 (log error but continue with database deletion)
	if err := h.storage.Delete(c.Context(), session.S3Key); err != nil {
		log.Printf("Warning: failed to delete S3 object %s for session %d: %v", session.S3Key, session.ID, err)
	}

	if err := h.db.DeleteSession(c.Context(), session.ID); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to delete session")
	}

	return Success(c, fiber.Map{"deleted": true})
}

// isValidDocumentType checks if the content type is an accepted document format
func isValidDocumentType(contentType string) bool {
	validTypes := []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/tiff",
	}

	for _, t := range validTypes {
		if strings.EqualFold(contentType, t) {
			return true
		}
	}
	return false
}

// generateS3Key generates a unique S3 key for an uploaded document
func generateS3Key(userID int, filename string) string {
	timestamp := time.Now().UnixNano()
	ext := ""
	if idx := strings.LastIndex(filename, "."); idx != -1 {
		ext = strings.ToLower(filename[idx:])
	}
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("declarations/%d/%d%s", userID, timestamp, ext)
}
