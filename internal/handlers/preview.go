package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/klearport/customs-console/internal/declaration"
	"github.com/klearport/customs-console/internal/middleware"
	"github.com/klearport/customs-console/internal/models"
	"github.com/klearport/customs-console/internal/services"
)

// PreviewResponse bundles everything the review table needs in one round trip
type PreviewResponse struct {
	Data     *declaration.CanonicalData `json:"data"`
	FormType declaration.FormType       `json:"form_type"`
	FormName string                     `json:"form_name"`
	Columns  []declaration.Column       `json:"columns"`
}

// loadCanonical returns the session's working copy, building it from the raw
// extraction payload on first access. Company transformation rules apply
// exactly once, at build time.
func (h *SessionHandler) loadCanonical(c *fiber.Ctx, session *models.ExtractionSession) (*declaration.CanonicalData, error) {
	if len(session.CanonicalData) > 0 {
		data := &declaration.CanonicalData{}
		if err := json.Unmarshal(session.CanonicalData, data); err != nil {
			return nil, Error(c, fiber.StatusInternalServerError, "stored session data is corrupt")
		}
		return data, nil
	}

	if len(session.RawPayload) == 0 {
		return nil, Error(c, fiber.StatusConflict, "no data available to preview")
	}

	var raw any
	if err := json.Unmarshal(session.RawPayload, &raw); err != nil {
		return nil, Error(c, fiber.StatusInternalServerError, "stored extraction payload is corrupt")
	}

	hint := declaration.TemplateType("")
	if session.TemplateType != nil {
		hint = declaration.TemplateType(*session.TemplateType)
	}

	data, err := declaration.Normalize(raw, hint)
	if err != nil {
		var empty *declaration.EmptyPayloadError
		if errors.As(err, &empty) {
			return nil, Error(c, fiber.StatusConflict, err.Error())
		}
		return nil, Error(c, fiber.StatusInternalServerError, "failed to normalize extraction data")
	}

	if session.CompanyID != nil {
		rules, ruleErr := h.db.ListActiveRules(c.Context(), *session.CompanyID)
		if ruleErr != nil {
			log.Printf("Warning: failed to load rules for company %d: %v", *session.CompanyID, ruleErr)
		} else {
			services.ApplyRules(data, rules)
		}
	}

	if err := h.storeCanonical(c, session.ID, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (h *SessionHandler) storeCanonical(c *fiber.Ctx, sessionID int, data *declaration.CanonicalData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to encode session data")
	}
	if err := h.db.SetCanonicalData(c.Context(), sessionID, raw); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to persist session data")
	}
	return nil
}

// resolveFormType runs the resolution policy for a session, honoring an
// optional override from the request.
func resolveFormType(session *models.ExtractionSession, data *declaration.CanonicalData, override string) declaration.FormType {
	formatName := ""
	if session.OutputFormatName != nil {
		formatName = *session.OutputFormatName
	}
	return declaration.ResolveFormType(formatName, data.TemplateType, declaration.FormType(override))
}

// Preview normalizes the session's extraction output for the review table
func (h *SessionHandler) Preview(c *fiber.Ctx) error {
	cu := middleware.GetCurrentUser(c)
	if cu.ID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := h.getOwnedSession(c, cu)
	if session == nil {
		return err
	}

	data, err := h.loadCanonical(c, session)
	if data == nil {
		return err
	}

	formType := resolveFormType(session, data, c.Query("formType"))
	return Success(c, PreviewResponse{
		Data:     data,
		FormType: formType,
		FormName: declaration.FormName(formType),
		Columns:  declaration.ColumnsForFormType(formType),
	})
}

// UpdateItem applies an edit to one cargo item
func (h *SessionHandler) UpdateItem(c *fiber.Ctx) error {
	cu := middleware.GetCurrentUser(c)
	if cu.ID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := h.getOwnedSession(c, cu)
	if session == nil {
		return err
	}

	index, convErr := strconv.Atoi(c.Params("index"))
	if convErr != nil {
		return Error(c, fiber.StatusBadRequest, "invalid item index")
	}

	var patch declaration.ItemPatch
	if err := c.BodyParser(&patch); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	data, err := h.loadCanonical(c, session)
	if data == nil {
		return err
	}

	if updateErr := data.UpdateItem(index, patch); updateErr != nil {
		var oob *declaration.IndexOutOfRangeError
		if errors.As(updateErr, &oob) {
			return Error(c, fiber.StatusBadRequest, updateErr.Error())
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update item")
	}

	if err := h.storeCanonical(c, session.ID, data); err != nil {
		return err
	}
	return Success(c, data.JobCargo.Items[index])
}

// UpdateGeneral applies an edit to the general information block
func (h *SessionHandler) UpdateGeneral(c *fiber.Ctx) error {
	cu := middleware.GetCurrentUser(c)
	if cu.ID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := h.getOwnedSession(c, cu)
	if session == nil {
		return err
	}

	var patch declaration.GeneralPatch
	if err := c.BodyParser(&patch); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	data, err := h.loadCanonical(c, session)
	if data == nil {
		return err
	}

	data.UpdateGeneral(patch)

	if err := h.storeCanonical(c, session.ID, data); err != nil {
		return err
	}
	return Success(c, data.GeneralInformation)
}

// SaveSession serializes the edited data back to payload shape and confirms
// the session
func (h *SessionHandler) SaveSession(c *fiber.Ctx) error {
	cu := middleware.GetCurrentUser(c)
	if cu.ID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := h.getOwnedSession(c, cu)
	if session == nil {
		return err
	}

	var req models.SaveSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	data, err := h.loadCanonical(c, session)
	if data == nil {
		return err
	}

	formType := resolveFormType(session, data, req.FormType)

	serialized, serErr := declaration.Serialize(data)
	if serErr != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to serialize session data")
	}
	payload, marshalErr := json.Marshal(serialized)
	if marshalErr != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to encode session data")
	}

	if err := h.db.SaveEditedPayload(c.Context(), session.ID, payload, string(formType)); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to save session")
	}

	return Success(c, fiber.Map{
		"saved":     true,
		"form_type": formType,
	})
}

// ExportSession renders the session's data as an xlsx workbook
func (h *SessionHandler) ExportSession(c *fiber.Ctx) error {
	cu := middleware.GetCurrentUser(c)
	if cu.ID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := h.getOwnedSession(c, cu)
	if session == nil {
		return err
	}

	data, err := h.loadCanonical(c, session)
	if data == nil {
		return err
	}

	formType := resolveFormType(session, data, c.Query("formType"))

	workbook, exportErr := services.ExportWorkbook(data, formType)
	if exportErr != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to build workbook")
	}

	buf, bufErr := workbook.WriteToBuffer()
	if bufErr != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to write workbook")
	}

	filename := "declaration-" + strconv.Itoa(session.ID) + "-" + string(formType) + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// ListFormTypes enumerates the registered form layouts for selector UIs
func (h *SessionHandler) ListFormTypes(c *fiber.Ctx) error {
	return Success(c, declaration.AvailableFormTypes())
}
