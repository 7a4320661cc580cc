package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/internlink/assessment-service/internal/models"
	"github.com/internlink/assessment-service/internal/repositories"
)

// MockAssessmentRepository is a mock implementation of AssessmentRepository
type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	args := m.Called(ctx, assessment)
	return args.Error(0)
}

func (m *MockAssessmentRepository) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) List(ctx context.Context, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Assessment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssessmentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssessmentRepository) ExistsByTitle(ctx context.Context, title string, creatorID uint) (bool, error) {
	args := m.Called(ctx, title, creatorID)
	return args.Bool(0), args.Error(1)
}

// MockStudentRepository is a mock implementation of StudentRepository
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) GetByUserID(ctx context.Context, userID uint) (*models.Student, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentRepository) UpdateSkillAssessments(ctx context.Context, studentID uint, results []models.SkillAssessment) error {
	args := m.Called(ctx, studentID, results)
	return args.Error(0)
}

// mockRepository bundles the store mocks behind the Repository interface
type mockRepository struct {
	assessments *MockAssessmentRepository
	students    *MockStudentRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		assessments: &MockAssessmentRepository{},
		students:    &MockStudentRepository{},
	}
}

func (r *mockRepository) Assessment() repositories.AssessmentRepository { return r.assessments }
func (r *mockRepository) Student() repositories.StudentRepository       { return r.students }
func (r *mockRepository) Ping(ctx context.Context) error                { return nil }
func (r *mockRepository) Close() error                                  { return nil }
