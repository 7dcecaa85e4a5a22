package database

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/klearport/customs-console/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const userColumns = `id, email, password_hash, name, company_id, role, active, created_at, updated_at, last_login_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.CompanyID,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateUser creates a new user in the database
func (db *DB) CreateUser(ctx context.Context, req *models.AdminCreateUserRequest, passwordHash string) (*models.User, error) {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, company_id, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
		RETURNING `+userColumns,
		req.Email, passwordHash, req.Name, req.CompanyID, req.Role)

	user, err := scanUser(row)
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID
func (db *DB) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := db.Pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.password_hash, u.name, u.company_id, c.name, u.role, u.active, u.created_at, u.updated_at, u.last_login_at
		FROM users u
		LEFT JOIN companies c ON u.company_id = c.id
		WHERE u.id = $1
	`, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.CompanyID,
		&user.CompanyName,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their email
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email)
	return scanUser(row)
}

// UpdateUserLastLogin updates the user's last login timestamp
func (db *DB) UpdateUserLastLogin(ctx context.Context, id int) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE users SET last_login_at = NOW() WHERE id = $1
	`, id)
	return err
}

// UpdateUserPassword updates a user's password
func (db *DB) UpdateUserPassword(ctx context.Context, id int, newPasswordHash string) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1
	`, id, newPasswordHash)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AdminUpdateUser updates a user with admin privileges
func (db *DB) AdminUpdateUser(ctx context.Context, id int, req *models.AdminUpdateUserRequest) (*models.User, error) {
	row := db.Pool.QueryRow(ctx, `
		UPDATE users
		SET email = COALESCE($2, email),
		    name = COALESCE($3, name),
		    role = COALESCE($4, role),
		    company_id = COALESCE($5, company_id),
		    active = COALESCE($6, active),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, req.Email, req.Name, req.Role, req.CompanyID, req.Active)
	return scanUser(row)
}

// DeleteUser deletes a user by ID
func (db *DB) DeleteUser(ctx context.Context, id int) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListUsers returns a paginated list of users
func (db *DB) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int, error) {
	var total int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT u.id, u.email, u.password_hash, u.name, u.company_id, c.name, u.role, u.active, u.created_at, u.updated_at, u.last_login_at
		FROM users u
		LEFT JOIN companies c ON u.company_id = c.id
		ORDER BY u.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.Name,
			&user.CompanyID,
			&user.CompanyName,
			&user.Role,
			&user.Active,
			&user.CreatedAt,
			&user.UpdatedAt,
			&user.LastLoginAt,
		)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}

	return users, total, nil
}

// GetAdminStats retrieves system-wide statistics
func (db *DB) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{}

	err := db.Pool.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT COUNT(*) FROM users), 0) as total_users,
			COALESCE((SELECT COUNT(*) FROM companies), 0) as total_companies,
			COALESCE((SELECT COUNT(*) FROM extraction_sessions), 0) as total_sessions,
			COALESCE((SELECT COUNT(*) FROM extraction_sessions WHERE created_at > NOW() - INTERVAL '24 hours'), 0) as sessions_today,
			COALESCE((SELECT COUNT(*) FROM extraction_sessions WHERE status = 'confirmed'), 0) as confirmed_sessions,
			COALESCE((SELECT COUNT(*) FROM extraction_sessions WHERE status = 'failed'), 0) as failed_sessions
	`).Scan(
		&stats.TotalUsers,
		&stats.TotalCompanies,
		&stats.TotalSessions,
		&stats.SessionsToday,
		&stats.ConfirmedSessions,
		&stats.FailedSessions,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
