package postgres

import (
	"context"
	"fmt"

	"github.com/internlink/assessment-service/internal/models"
	"github.com/internlink/assessment-service/internal/repositories"
	"gorm.io/gorm"
)

type AssessmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssessmentPostgreSQL(db *gorm.DB) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{db: db}
}

// Create persists a new bank. The whole bank lands in one insert, so a
// failed creation never leaves partial question data behind.
func (a *AssessmentPostgreSQL) Create(ctx context.Context, assessment *models.Assessment) error {
	assessment.TotalQuestions = len(assessment.Questions)
	if err := a.db.WithContext(ctx).Create(assessment).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

func (a *AssessmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	var assessment models.Assessment
	if err := a.db.WithContext(ctx).First(&assessment, id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (a *AssessmentPostgreSQL) List(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	var assessments []*models.Assessment
	var total int64

	query := a.db.WithContext(ctx).Model(&models.Assessment{})

	if filters.Skill != nil {
		query = query.Where("skill = ?", *filters.Skill)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assessments: %w", err)
	}

	query = query.Order(buildOrderClause(filters.SortBy, filters.SortOrder))
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	if err := query.Find(&assessments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list assessments: %w", err)
	}

	return assessments, total, nil
}

func (a *AssessmentPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := a.db.WithContext(ctx).Delete(&models.Assessment{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete assessment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *AssessmentPostgreSQL) ExistsByTitle(ctx context.Context, title string, creatorID uint) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.Assessment{}).
		Where("title = ? AND created_by = ?", title, creatorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check title uniqueness: %w", err)
	}
	return count > 0, nil
}

func buildOrderClause(sortBy, sortOrder string) string {
	switch sortBy {
	case "title", "skill", "created_at":
	default:
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	return sortBy + " " + sortOrder
}
