package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/internlink/assessment-service/internal/cache"
	"github.com/internlink/assessment-service/internal/models"
	"github.com/internlink/assessment-service/internal/repositories"
	"github.com/internlink/assessment-service/internal/validator"
)

func newTestAssessmentService(repo *mockRepository) AssessmentService {
	return NewAssessmentService(repo, cache.NoopCache{}, testLogger(), validator.New())
}

func validCreateRequest() *CreateAssessmentRequest {
	questions := make([]QuestionInput, 5)
	for i := range questions {
		questions[i] = QuestionInput{
			Question:      "Which keyword declares a constant?",
			Options:       []string{"const", "var", "let"},
			CorrectAnswer: 0,
			Difficulty:    "easy",
		}
	}
	return &CreateAssessmentRequest{
		Title:        "Go Fundamentals",
		Skill:        "Go",
		Questions:    questions,
		Duration:     30,
		PassingScore: 3,
		SubsetSize:   3,
	}
}

var company = Actor{UserID: 11, Role: models.RoleCompany}

func TestCreate_Success(t *testing.T) {
	repo := newMockRepository()
	repo.assessments.On("ExistsByTitle", mock.Anything, "Go Fundamentals", uint(11)).Return(false, nil)
	repo.assessments.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			a := args.Get(1).(*models.Assessment)
			a.ID = 42
			a.TotalQuestions = len(a.Questions)
		}).
		Return(nil)

	svc := newTestAssessmentService(repo)

	summary, err := svc.Create(context.Background(), validCreateRequest(), company)
	require.NoError(t, err)

	assert.Equal(t, uint(42), summary.ID)
	assert.Equal(t, "Go Fundamentals", summary.Title)
	assert.Equal(t, 5, summary.TotalQuestions)
	assert.Equal(t, 3, summary.SubsetSize)
	assert.Equal(t, uint(11), summary.CreatedBy)
}

func TestCreate_StudentsForbidden(t *testing.T) {
	svc := newTestAssessmentService(newMockRepository())

	_, err := svc.Create(context.Background(), validCreateRequest(), Actor{UserID: 5, Role: models.RoleStudent})
	assert.True(t, IsUnauthorized(err))
}

func TestCreate_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *CreateAssessmentRequest)
	}{
		{"empty title", func(req *CreateAssessmentRequest) { req.Title = "  " }},
		{"empty skill", func(req *CreateAssessmentRequest) { req.Skill = "" }},
		{"no questions", func(req *CreateAssessmentRequest) { req.Questions = nil }},
		{"zero duration", func(req *CreateAssessmentRequest) { req.Duration = 0 }},
		{"negative passing score", func(req *CreateAssessmentRequest) { req.PassingScore = -1 }},
		{"subset equals bank size", func(req *CreateAssessmentRequest) { req.SubsetSize = 5 }},
		{"subset larger than bank", func(req *CreateAssessmentRequest) { req.SubsetSize = 50 }},
		{"question without text", func(req *CreateAssessmentRequest) { req.Questions[2].Question = "" }},
		{"question with one option", func(req *CreateAssessmentRequest) { req.Questions[0].Options = []string{"only"} }},
		{"correct answer out of bounds", func(req *CreateAssessmentRequest) { req.Questions[1].CorrectAnswer = 3 }},
		{"unknown difficulty", func(req *CreateAssessmentRequest) { req.Questions[4].Difficulty = "impossible" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			svc := newTestAssessmentService(repo)

			req := validCreateRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req, company)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
			repo.assessments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_RejectedBankIsNotStored(t *testing.T) {
	repo := newMockRepository()
	svc := newTestAssessmentService(repo)

	req := validCreateRequest()
	req.Questions[0].CorrectAnswer = 99

	_, err := svc.Create(context.Background(), req, company)
	require.Error(t, err)

	repo.assessments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repo.assessments.AssertNotCalled(t, "ExistsByTitle", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_DuplicateTitle(t *testing.T) {
	repo := newMockRepository()
	repo.assessments.On("ExistsByTitle", mock.Anything, "Go Fundamentals", uint(11)).Return(true, nil)

	svc := newTestAssessmentService(repo)

	_, err := svc.Create(context.Background(), validCreateRequest(), company)
	assert.ErrorIs(t, err, ErrAssessmentDuplicateTitle)
}

func TestCreate_DefaultsSubsetSize(t *testing.T) {
	repo := newMockRepository()
	repo.assessments.On("ExistsByTitle", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	repo.assessments.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestAssessmentService(repo)

	req := validCreateRequest()
	req.SubsetSize = 0
	questions := make([]QuestionInput, 25)
	for i := range questions {
		questions[i] = req.Questions[0]
	}
	req.Questions = questions

	summary, err := svc.Create(context.Background(), req, company)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSubsetSize, summary.SubsetSize)
}

func TestCreate_DefaultsDifficultyToMedium(t *testing.T) {
	repo := newMockRepository()
	repo.assessments.On("ExistsByTitle", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	var stored *models.Assessment
	repo.assessments.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*models.Assessment)
		}).
		Return(nil)

	svc := newTestAssessmentService(repo)

	req := validCreateRequest()
	req.Questions[0].Difficulty = ""

	_, err := svc.Create(context.Background(), req, company)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.DifficultyMedium, stored.Questions[0].Difficulty)
}

func TestCreate_StructTagValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *CreateAssessmentRequest)
	}{
		{"title too long", func(req *CreateAssessmentRequest) { req.Title = strings.Repeat("x", 201) }},
		{"skill too long", func(req *CreateAssessmentRequest) { req.Skill = strings.Repeat("x", 101) }},
		{"negative correct answer", func(req *CreateAssessmentRequest) { req.Questions[0].CorrectAnswer = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			svc := newTestAssessmentService(repo)

			req := validCreateRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req, company)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
			repo.assessments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestGetSummary(t *testing.T) {
	repo := newMockRepository()
	repo.assessments.On("GetByID", mock.Anything, uint(1)).
		Return(&models.Assessment{ID: 1, Title: "Go Fundamentals", TotalQuestions: 30, SubsetSize: 20}, nil)

	svc := newTestAssessmentService(repo)

	summary, err := svc.GetSummary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), summary.ID)
	assert.Equal(t, 30, summary.TotalQuestions)
}

func TestGetSummary_NotFound(t *testing.T) {
	repo := newMockRepository()
	repo.assessments.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	svc := newTestAssessmentService(repo)

	_, err := svc.GetSummary(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestDelete_OwnerAndAdmin(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		wantErr bool
	}{
		{"owner may delete", Actor{UserID: 11, Role: models.RoleCompany}, false},
		{"admin may delete", Actor{UserID: 99, Role: models.RoleAdmin}, false},
		{"other company may not", Actor{UserID: 99, Role: models.RoleCompany}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			repo.assessments.On("GetByID", mock.Anything, uint(1)).
				Return(&models.Assessment{ID: 1, CreatedBy: 11}, nil)
			repo.assessments.On("Delete", mock.Anything, uint(1)).Return(nil)

			svc := newTestAssessmentService(repo)

			err := svc.Delete(context.Background(), 1, tt.actor)
			if tt.wantErr {
				assert.True(t, IsUnauthorized(err))
				repo.assessments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := newMockRepository()
	repo.assessments.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	svc := newTestAssessmentService(repo)

	err := svc.Delete(context.Background(), 99, Actor{UserID: 1, Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestList_ReturnsSummaries(t *testing.T) {
	repo := newMockRepository()
	banks := []*models.Assessment{
		{ID: 1, Title: "Go Fundamentals", Skill: "Go", TotalQuestions: 30, SubsetSize: 20},
		{ID: 2, Title: "SQL Basics", Skill: "SQL", TotalQuestions: 15, SubsetSize: 10},
	}
	repo.assessments.On("List", mock.Anything, repositories.AssessmentFilters{}).Return(banks, int64(2), nil)

	svc := newTestAssessmentService(repo)

	response, err := svc.List(context.Background(), repositories.AssessmentFilters{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), response.Total)
	require.Len(t, response.Assessments, 2)
	assert.Equal(t, "Go Fundamentals", response.Assessments[0].Title)
	assert.Equal(t, 20, response.Assessments[0].SubsetSize)
}
