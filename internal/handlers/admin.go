package handlers

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/klearport/customs-console/internal/database"
	"github.com/klearport/customs-console/internal/middleware"
	"github.com/klearport/customs-console/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validRole(role models.Role) bool {
	switch role {
	case models.RoleAdmin, models.RoleOfficer, models.RoleViewer:
		return true
	}
	return false
}

// AdminCreateUser creates a new user account
func (h *Handler) AdminCreateUser(c *fiber.Ctx) error {
	var req models.AdminCreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if !emailRegex.MatchString(req.Email) {
		return Error(c, fiber.StatusBadRequest, "invalid email format")
	}
	if len(req.Password) < 8 {
		return Error(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}
	if req.Role == "" {
		req.Role = models.RoleViewer
	}
	if !validRole(req.Role) {
		return Error(c, fiber.StatusBadRequest, "invalid role")
	}
	if req.Role != models.RoleAdmin && req.CompanyID == nil {
		return Error(c, fiber.StatusBadRequest, "non-admin users must belong to a company")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to process password")
	}

	user, err := h.db.CreateUser(c.Context(), &req, string(hashedPassword))
	if err != nil {
		if errors.Is(err, database.ErrEmailExists) {
			return Error(c, fiber.StatusConflict, "email already registered")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to create user")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: user})
}

// AdminListUsers returns a paginated list of users
func (h *Handler) AdminListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	users, total, err := h.db.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list users")
	}

	return SuccessWithMeta(c, users, total, limit, offset)
}

// AdminGetUser returns a single user
func (h *Handler) AdminGetUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid user ID")
	}

	user, err := h.db.GetUserByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusNotFound, "user not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get user")
	}

	return Success(c, user)
}

// AdminUpdateUser updates a user account
func (h *Handler) AdminUpdateUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid user ID")
	}

	var req models.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email != nil && !emailRegex.MatchString(*req.Email) {
		return Error(c, fiber.StatusBadRequest, "invalid email format")
	}
	if req.Role != nil && !validRole(*req.Role) {
		return Error(c, fiber.StatusBadRequest, "invalid role")
	}

	user, err := h.db.AdminUpdateUser(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusNotFound, "user not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update user")
	}

	return Success(c, user)
}

// AdminDeleteUser deletes a user account
func (h *Handler) AdminDeleteUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid user ID")
	}

	// Admins cannot delete themselves
	if id == middleware.GetUserID(c) {
		return Error(c, fiber.StatusBadRequest, "cannot delete your own account")
	}

	if err := h.db.DeleteUser(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusNotFound, "user not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete user")
	}

	return Success(c, fiber.Map{"deleted": true})
}

// AdminGetStats returns system-wide statistics
func (h *Handler) AdminGetStats(c *fiber.Ctx) error {
	stats, err := h.db.GetAdminStats(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to get stats")
	}
	return Success(c, stats)
}

// CreateCompany creates a new company
func (h *Handler) CreateCompany(c *fiber.Ctx) error {
	var req models.CreateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Code == "" {
		return Error(c, fiber.StatusBadRequest, "name and code are required")
	}

	company, err := h.db.CreateCompany(c.Context(), &req)
	if err != nil {
		if errors.Is(err, database.ErrCompanyCodeUsed) {
			return Error(c, fiber.StatusConflict, "company code already exists")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to create company")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: company})
}

// ListCompanies returns a paginated list of companies
func (h *Handler) ListCompanies(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	companies, total, err := h.db.ListCompanies(c.Context(), limit, offset)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list companies")
	}

	return SuccessWithMeta(c, companies, total, limit, offset)
}

// GetCompany returns a single company
func (h *Handler) GetCompany(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid company ID")
	}

	company, err := h.db.GetCompanyByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrCompanyNotFound) {
			return Error(c, fiber.StatusNotFound, "company not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get company")
	}

	return Success(c, company)
}

// UpdateCompany updates a company
func (h *Handler) UpdateCompany(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid company ID")
	}

	var req models.UpdateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	company, err := h.db.UpdateCompany(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrCompanyNotFound) {
			return Error(c, fiber.StatusNotFound, "company not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update company")
	}

	return Success(c, company)
}

// DeleteCompany deletes a company
func (h *Handler) DeleteCompany(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid company ID")
	}

	if err := h.db.DeleteCompany(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrCompanyNotFound) {
			return Error(c, fiber.StatusNotFound, "company not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete company")
	}

	return Success(c, fiber.Map{"deleted": true})
}

// CreateRule creates a transformation rule
func (h *Handler) CreateRule(c *fiber.Ctx) error {
	var req models.CreateRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.CompanyID == 0 || req.Field == "" {
		return Error(c, fiber.StatusBadRequest, "company_id and field are required")
	}

	if _, err := h.db.GetCompanyByID(c.Context(), req.CompanyID); err != nil {
		if errors.Is(err, database.ErrCompanyNotFound) {
			return Error(c, fiber.StatusNotFound, "company not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to check company")
	}

	rule, err := h.db.CreateRule(c.Context(), &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create rule")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: rule})
}

// ListRules returns all rules for a company
func (h *Handler) ListRules(c *fiber.Ctx) error {
	companyID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid company ID")
	}

	rules, err := h.db.ListRules(c.Context(), companyID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list rules")
	}

	return Success(c, rules)
}

// UpdateRule updates a transformation rule
func (h *Handler) UpdateRule(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid rule ID")
	}

	var req models.UpdateRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	rule, err := h.db.UpdateRule(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrRuleNotFound) {
			return Error(c, fiber.StatusNotFound, "rule not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update rule")
	}

	return Success(c, rule)
}

// DeleteRule deletes a transformation rule
func (h *Handler) DeleteRule(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid rule ID")
	}

	if err := h.db.DeleteRule(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrRuleNotFound) {
			return Error(c, fiber.StatusNotFound, "rule not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete rule")
	}

	return Success(c, fiber.Map{"deleted": true})
}
