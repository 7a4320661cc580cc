package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/internlink/assessment-service/internal/models"
	"gorm.io/gorm"
)

// Repository aggregates the stores the assessment engine depends on. Both
// are injected capabilities: the engine never reaches for a process-wide
// database handle.
type Repository interface {
	Assessment() AssessmentRepository
	Student() StudentRepository

	Ping(ctx context.Context) error
	Close() error
}

// AssessmentRepository owns the question banks. Banks are immutable after
// creation apart from soft deletes, so there is no Update.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id uint) (*models.Assessment, error)
	List(ctx context.Context, filters AssessmentFilters) ([]*models.Assessment, int64, error)
	Delete(ctx context.Context, id uint) error

	ExistsByTitle(ctx context.Context, title string, creatorID uint) (bool, error)
}

// StudentRepository owns the test-taker profiles the delivery side merges
// competency results into.
type StudentRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Student, error)
	// UpdateSkillAssessments replaces the profile's whole result list in a
	// single write; the merge itself happens in the service layer.
	UpdateSkillAssessments(ctx context.Context, studentID uint, results []models.SkillAssessment) error
}

// ===== SHARED FILTER STRUCTS =====

type AssessmentFilters struct {
	Skill     *string    `json:"skill"`
	CreatedBy *uint      `json:"created_by"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "created_at", "title", "skill"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

// IsNotFoundError reports whether err came back from a lookup that matched
// no row.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
