package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/lib/pq"

	"buildlog/internal/models"
	"buildlog/internal/repository"
)

// variablePattern matches {{name}} placeholders in template bodies.
var variablePattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

type ContentService interface {
	CreateTemplate(ctx context.Context, name, stage, body string) (*models.ContentTemplate, error)
	UpdateTemplate(ctx context.Context, templateID string, req repository.UpdateTemplateRequest) error
}

type contentService struct {
	templateRepo repository.TemplateRepository
}

func NewContentService(templateRepo repository.TemplateRepository) ContentService {
	return &contentService{templateRepo: templateRepo}
}

// CreateTemplate stores a template, recording the variable names its body
// references.
func (c *contentService) CreateTemplate(ctx context.Context, name, stage, body string) (*models.ContentTemplate, error) {
	if !models.IsValidStage(stage) {
		return nil, fmt.Errorf("unknown build stage: %s", stage)
	}

	template := &models.ContentTemplate{
		Name:      name,
		Stage:     stage,
		Template:  body,
		Variables: pq.StringArray(ExtractVariables(body)),
	}

	if err := c.templateRepo.Create(ctx, template); err != nil {
		return nil, err
	}

	return template, nil
}

// UpdateTemplate applies a partial update. When the body changes the variable
// list is recomputed from it.
func (c *contentService) UpdateTemplate(ctx context.Context, templateID string, req repository.UpdateTemplateRequest) error {
	if req.Stage != nil && !models.IsValidStage(*req.Stage) {
		return fmt.Errorf("unknown build stage: %s", *req.Stage)
	}

	if req.Template != nil {
		req.Variables = ExtractVariables(*req.Template)
	}

	return c.templateRepo.Update(ctx, templateID, req)
}

// ExtractVariables returns the distinct placeholder names of a template body
// in first-appearance order.
func ExtractVariables(body string) []string {
	matches := variablePattern.FindAllStringSubmatch(body, -1)

	seen := map[string]bool{}
	variables := []string{}
	for _, match := range matches {
		if !seen[match[1]] {
			seen[match[1]] = true
			variables = append(variables, match[1])
		}
	}

	return variables
}
