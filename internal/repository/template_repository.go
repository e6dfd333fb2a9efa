package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"buildlog/internal/models"
)

type TemplateRepositoryImpl struct {
	db *sqlx.DB
}

type UpdateTemplateRequest struct {
	Name      *string  `json:"name"`
	Stage     *string  `json:"stage"`
	Template  *string  `json:"template"`
	Variables []string `json:"variables"`
}

const insertTemplateQuery = `
	INSERT INTO content_templates
	(template_id, name, stage, template, variables, created_at, updated_at)
	VALUES
	(:template_id, :name, :stage, :template, :variables, :created_at, :updated_at)
`

func NewTemplateRepository(db *sqlx.DB) *TemplateRepositoryImpl {
	return &TemplateRepositoryImpl{db: db}
}

func (r *TemplateRepositoryImpl) Create(ctx context.Context, template *models.ContentTemplate) error {
	query := insertTemplateQuery

	if template.TemplateID == "" {
		template.TemplateID = uuid.New().String()
	}
	if template.Variables == nil {
		template.Variables = pq.StringArray{}
	}

	now := time.Now()
	template.CreatedAt = now
	template.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, query, template)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

func (r *TemplateRepositoryImpl) GetAll(ctx context.Context) ([]models.ContentTemplate, error) {
	query := `SELECT * FROM content_templates ORDER BY created_at DESC`

	var templates []models.ContentTemplate
	err := r.db.SelectContext(ctx, &templates, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return templates, nil
}

func (r *TemplateRepositoryImpl) GetByStage(ctx context.Context, stage string) ([]models.ContentTemplate, error) {
	query := `SELECT * FROM content_templates WHERE stage = $1 ORDER BY created_at DESC`

	var templates []models.ContentTemplate
	err := r.db.SelectContext(ctx, &templates, query, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates by stage: %w", err)
	}

	return templates, nil
}

func (r *TemplateRepositoryImpl) Update(ctx context.Context, templateID string, req UpdateTemplateRequest) error {
	var template models.ContentTemplate
	err := r.db.GetContext(ctx, &template, `SELECT * FROM content_templates WHERE template_id = $1`, templateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("failed to get template: %w", err)
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Stage != nil {
		template.Stage = *req.Stage
	}
	if req.Template != nil {
		template.Template = *req.Template
	}
	if req.Variables != nil {
		template.Variables = pq.StringArray(req.Variables)
	}

	template.UpdatedAt = time.Now()

	query := `
		UPDATE content_templates SET
			name = :name,
			stage = :stage,
			template = :template,
			variables = :variables,
			updated_at = :updated_at
		WHERE template_id = :template_id
	`

	result, err := r.db.NamedExecContext(ctx, query, &template)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

func (r *TemplateRepositoryImpl) Delete(ctx context.Context, templateID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM content_templates WHERE template_id = $1`, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}
