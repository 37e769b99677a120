package reporttemplate

import (
	"strings"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/core/common/validation"
)

type CreateTemplateDTO struct {
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Content  string   `json:"content"`
}

// UpdateTemplateDTO leaves nil fields unchanged.
type UpdateTemplateDTO struct {
	Title    *string   `json:"title,omitempty"`
	Category *Category `json:"category,omitempty"`
	Content  *string   `json:"content,omitempty"`
}

func categoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

func (d *CreateTemplateDTO) Validate() *internal.AppError {
	d.Title = strings.TrimSpace(d.Title)

	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("category", string(d.Category)).Required().OneOf(categoryNames(), internal.ErrCodeInvalidCategory)
	v.Field("content", d.Content).Required()
	return v.Validate()
}

func (d *UpdateTemplateDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Title != nil {
		trimmed := strings.TrimSpace(*d.Title)
		d.Title = &trimmed
		v.Field("title", trimmed).Required().MaxLength(200)
	}
	if d.Category != nil {
		v.Field("category", string(*d.Category)).Required().OneOf(categoryNames(), internal.ErrCodeInvalidCategory)
	}
	if d.Content != nil {
		v.Field("content", *d.Content).Required()
	}
	return v.Validate()
}

type TemplatesResponse struct {
	Templates []*Template `json:"templates"`
}

// CategoryGroup is one section of the template picker.
type CategoryGroup struct {
	Category  Category    `json:"category"`
	Templates []*Template `json:"templates"`
}

type GroupedTemplatesResponse struct {
	Groups []CategoryGroup `json:"groups"`
}
