package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/klearport/customs-console/internal/models"
)

var ErrRuleNotFound = errors.New("transform rule not found")

func scanRule(row pgx.Row) (*models.TransformRule, error) {
	rule := &models.TransformRule{}
	err := row.Scan(
		&rule.ID,
		&rule.CompanyID,
		&rule.Field,
		&rule.Match,
		&rule.Replacement,
		&rule.Active,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return rule, nil
}

// CreateRule creates a new transformation rule
func (db *DB) CreateRule(ctx context.Context, req *models.CreateRuleRequest) (*models.TransformRule, error) {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO transform_rules (company_id, field, match, replacement, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, true, NOW(), NOW())
		RETURNING id, company_id, field, match, replacement, active, created_at, updated_at
	`, req.CompanyID, req.Field, req.Match, req.Replacement)
	return scanRule(row)
}

// GetRuleByID retrieves a rule by ID
func (db *DB) GetRuleByID(ctx context.Context, id int) (*models.TransformRule, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, company_id, field, match, replacement, active, created_at, updated_at
		FROM transform_rules WHERE id = $1
	`, id)
	return scanRule(row)
}

// UpdateRule updates a transformation rule
func (db *DB) UpdateRule(ctx context.Context, id int, req *models.UpdateRuleRequest) (*models.TransformRule, error) {
	row := db.Pool.QueryRow(ctx, `
		UPDATE transform_rules
		SET field = COALESCE($2, field),
		    match = COALESCE($3, match),
		    replacement = COALESCE($4, replacement),
		    active = COALESCE($5, active),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, company_id, field, match, replacement, active, created_at, updated_at
	`, id, req.Field, req.Match, req.Replacement, req.Active)
	return scanRule(row)
}

// DeleteRule deletes a rule by ID
func (db *DB) DeleteRule(ctx context.Context, id int) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM transform_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// ListRules returns all rules for a company, in application order
func (db *DB) ListRules(ctx context.Context, companyID int) ([]*models.TransformRule, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, company_id, field, match, replacement, active, created_at, updated_at
		FROM transform_rules
		WHERE company_id = $1
		ORDER BY id
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*models.TransformRule
	for rows.Next() {
		rule := &models.TransformRule{}
		err := rows.Scan(
			&rule.ID,
			&rule.CompanyID,
			&rule.Field,
			&rule.Match,
			&rule.Replacement,
			&rule.Active,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// ListActiveRules returns only the active rules for a company
func (db *DB) ListActiveRules(ctx context.Context, companyID int) ([]*models.TransformRule, error) {
	rules, err := db.ListRules(ctx, companyID)
	if err != nil {
		return nil, err
	}
	active := rules[:0]
	for _, rule := range rules {
		if rule.Active {
			active = append(active, rule)
		}
	}
	return active, nil
}
