package postgres

import (
	"context"
	"fmt"

	"github.com/internlink/assessment-service/internal/models"
	"github.com/internlink/assessment-service/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StudentPostgreSQL struct {
	db *gorm.DB
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &StudentPostgreSQL{db: db}
}

func (s *StudentPostgreSQL) GetByUserID(ctx context.Context, userID uint) (*models.Student, error) {
	var student models.Student
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateSkillAssessments writes the merged result list back as one jsonb
// column update. Concurrent submissions for the same skill race on this
// write; last-write-wins is the accepted outcome.
func (s *StudentPostgreSQL) UpdateSkillAssessments(ctx context.Context, studentID uint, results []models.SkillAssessment) error {
	result := s.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", studentID).
		Update("skill_assessments", datatypes.NewJSONSlice(results))
	if result.Error != nil {
		return fmt.Errorf("failed to update skill assessments: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
