package postgres

import (
	"context"
	"time"

	reportDatamodel "github.com/frahmantamala/mediscript/internal/core/datamodel/report"
	"github.com/frahmantamala/mediscript/internal/report"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArchiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// SaveVersion upserts the report row and appends the version row in one
// transaction. Versions are archived concurrently, so the row only moves
// forward: an older version never overwrites newer content. A version saved
// after the report was finalized reopens it as a draft.
func (r *ArchiveRepository) SaveVersion(ctx context.Context, header report.Header, v report.Version) error {
	savedAt := v.Timestamp.UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := reportDatamodel.Report{
			ID:        header.ReportID,
			PatientID: header.PatientID,
			AuthorID:  header.AuthorID,
			Title:     header.Title,
			Content:   v.Content,
			Status:    reportDatamodel.StatusDraft,
			CreatedAt: savedAt,
			UpdatedAt: savedAt,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "content"}, Value: v.Content},
				{Column: clause.Column{Name: "updated_at"}, Value: savedAt},
				{Column: clause.Column{Name: "status"}, Value: gorm.Expr(
					"CASE WHEN reports.finalized_at IS NOT NULL AND reports.finalized_at >= ? THEN ? ELSE ? END",
					savedAt, reportDatamodel.StatusFinalized, reportDatamodel.StatusDraft,
				)},
			},
			Where: clause.Where{Exprs: []clause.Expression{
				gorm.Expr("reports.updated_at < ?", savedAt),
			}},
		}).Create(&row).Error
		if err != nil {
			return err
		}

		return tx.Create(&reportDatamodel.ReportVersion{
			ID:         v.ID,
			ReportID:   header.ReportID,
			Content:    v.Content,
			AuthorName: v.AuthorName,
			SavedAt:    v.Timestamp,
		}).Error
	})
}

// MarkFinalized records a signed export at the given time. Versions saved
// up to that time keep the report finalized.
func (r *ArchiveRepository) MarkFinalized(ctx context.Context, reportID string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&reportDatamodel.Report{}).
		Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"status":       reportDatamodel.StatusFinalized,
			"finalized_at": at.UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Versions lists archived versions of a report, newest first.
func (r *ArchiveRepository) Versions(ctx context.Context, reportID string) ([]reportDatamodel.ReportVersion, error) {
	var rows []reportDatamodel.ReportVersion
	err := r.db.WithContext(ctx).Where("report_id = ?", reportID).Order("saved_at DESC").Find(&rows).Error
	return rows, err
}
