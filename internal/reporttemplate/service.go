package reporttemplate

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/auth"
	templateDatamodel "github.com/frahmantamala/mediscript/internal/core/datamodel/template"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*templateDatamodel.ReportTemplate, error)
	GetByID(ctx context.Context, id string) (*templateDatamodel.ReportTemplate, error)
	Create(ctx context.Context, t *templateDatamodel.ReportTemplate) error
	Update(ctx context.Context, t *templateDatamodel.ReportTemplate) error
	Delete(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*Template, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get templates from repository", "error", err)
		return nil, internal.NewInternalError("failed to list templates", err)
	}

	templates := make([]*Template, 0, len(rows))
	for _, row := range rows {
		templates = append(templates, FromDataModel(row))
	}
	return templates, nil
}

// ListGrouped returns every category in picker order, including empty ones.
func (s *Service) ListGrouped(ctx context.Context) ([]CategoryGroup, error) {
	templates, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([]CategoryGroup, len(Categories))
	index := make(map[Category]int, len(Categories))
	for i, c := range Categories {
		groups[i] = CategoryGroup{Category: c, Templates: []*Template{}}
		index[c] = i
	}
	for _, t := range templates {
		i, ok := index[t.Category]
		if !ok {
			s.logger.Warn("template with unknown category", "template_id", t.ID, "category", t.Category)
			continue
		}
		groups[i].Templates = append(groups[i].Templates, t)
	}
	return groups, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Template, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load template", "template_id", id, "error", err)
		return nil, internal.NewInternalError("failed to load template", err)
	}
	if row == nil {
		return nil, internal.ErrTemplateNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, u *auth.User, dto CreateTemplateDTO) (*Template, error) {
	if !auth.Authorize(u, auth.ActionManageTemplates) {
		return nil, internal.ErrAccessDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	createdBy := u.ID
	t := &Template{
		ID:        uuid.NewString(),
		Title:     dto.Title,
		Category:  dto.Category,
		Content:   dto.Content,
		CreatedBy: &createdBy,
	}
	row := t.ToDataModel()
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create template", "title", t.Title, "error", err)
		return nil, internal.NewInternalError("failed to create template", err)
	}

	s.logger.Info("template created", "template_id", row.ID, "category", row.Category, "user_id", u.ID)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, u *auth.User, id string, dto UpdateTemplateDTO) (*Template, error) {
	if !auth.Authorize(u, auth.ActionManageTemplates) {
		return nil, internal.ErrAccessDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load template", err)
	}
	if row == nil {
		return nil, internal.ErrTemplateNotFound
	}

	if dto.Title != nil {
		row.Title = *dto.Title
	}
	if dto.Category != nil {
		row.Category = string(*dto.Category)
	}
	if dto.Content != nil {
		row.Content = *dto.Content
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update template", "template_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update template", err)
	}

	s.logger.Info("template updated", "template_id", id, "user_id", u.ID)
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, u *auth.User, id string) error {
	if !auth.Authorize(u, auth.ActionManageTemplates) {
		return internal.ErrAccessDenied
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete template", "template_id", id, "error", err)
		return internal.NewInternalError("failed to delete template", err)
	}
	if !deleted {
		return internal.ErrTemplateNotFound
	}

	s.logger.Info("template deleted", "template_id", id, "user_id", u.ID)
	return nil
}
