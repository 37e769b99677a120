package postgres

import (
	"context"
	"errors"

	templateDatamodel "github.com/frahmantamala/mediscript/internal/core/datamodel/template"
	"gorm.io/gorm"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) GetAll(ctx context.Context) ([]*templateDatamodel.ReportTemplate, error) {
	var templates []*templateDatamodel.ReportTemplate
	err := r.db.WithContext(ctx).Order("category ASC, title ASC").Find(&templates).Error
	return templates, err
}

func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*templateDatamodel.ReportTemplate, error) {
	var t templateDatamodel.ReportTemplate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) Create(ctx context.Context, t *templateDatamodel.ReportTemplate) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TemplateRepository) Update(ctx context.Context, t *templateDatamodel.ReportTemplate) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete reports whether a row was removed.
func (r *TemplateRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&templateDatamodel.ReportTemplate{})
	return res.RowsAffected > 0, res.Error
}
