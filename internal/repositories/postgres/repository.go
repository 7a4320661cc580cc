package postgres

import (
	"context"

	"github.com/internlink/assessment-service/internal/models"
	"github.com/internlink/assessment-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db         *gorm.DB
	assessment repositories.AssessmentRepository
	student    repositories.StudentRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:         db,
		assessment: NewAssessmentPostgreSQL(db),
		student:    NewStudentPostgreSQL(db),
	}
}

func (r *repository) Assessment() repositories.AssessmentRepository {
	return r.assessment
}

func (r *repository) Student() repositories.StudentRepository {
	return r.student
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates the engine's tables. Called once at startup.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Assessment{},
		&models.Student{},
	)
}
