package database

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/klearport/customs-console/internal/models"
)

var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrCompanyCodeUsed = errors.New("company code already exists")
)

func scanCompany(row pgx.Row) (*models.Company, error) {
	company := &models.Company{}
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.Code,
		&company.Active,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return company, nil
}

// CreateCompany creates a new company
func (db *DB) CreateCompany(ctx context.Context, req *models.CreateCompanyRequest) (*models.Company, error) {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO companies (name, code, active, created_at, updated_at)
		VALUES ($1, $2, true, NOW(), NOW())
		RETURNING id, name, code, active, created_at, updated_at
	`, req.Name, req.Code)

	company, err := scanCompany(row)
	if err != nil {
		if strings.Contains(err.Error(), "companies_code_key") {
			return nil, ErrCompanyCodeUsed
		}
		return nil, err
	}
	return company, nil
}

// GetCompanyByID retrieves a company by ID
func (db *DB) GetCompanyByID(ctx context.Context, id int) (*models.Company, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, name, code, active, created_at, updated_at
		FROM companies WHERE id = $1
	`, id)
	return scanCompany(row)
}

// UpdateCompany updates a company
func (db *DB) UpdateCompany(ctx context.Context, id int, req *models.UpdateCompanyRequest) (*models.Company, error) {
	row := db.Pool.QueryRow(ctx, `
		UPDATE companies
		SET name = COALESCE($2, name),
		    code = COALESCE($3, code),
		    active = COALESCE($4, active),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, code, active, created_at, updated_at
	`, id, req.Name, req.Code, req.Active)
	return scanCompany(row)
}

// DeleteCompany deletes a company by ID
func (db *DB) DeleteCompany(ctx context.Context, id int) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// ListCompanies returns a paginated list of companies with user counts
func (db *DB) ListCompanies(ctx context.Context, limit, offset int) ([]*models.Company, int, error) {
	var total int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT c.id, c.name, c.code, c.active, c.created_at, c.updated_at,
			COALESCE((SELECT COUNT(*) FROM users u WHERE u.company_id = c.id), 0) as user_count
		FROM companies c
		ORDER BY c.name
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		company := &models.Company{}
		err := rows.Scan(
			&company.ID,
			&company.Name,
			&company.Code,
			&company.Active,
			&company.CreatedAt,
			&company.UpdatedAt,
			&company.UserCount,
		)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, company)
	}

	return companies, total, nil
}
