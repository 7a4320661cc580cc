package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/internlink/assessment-service/internal/cache"
	"github.com/internlink/assessment-service/internal/models"
	"github.com/internlink/assessment-service/internal/repositories"
	"github.com/internlink/assessment-service/internal/validator"
)

// Actor is the caller identity resolved by the auth middleware.
type Actor struct {
	UserID uint
	Role   models.UserRole
}

// ===== REQUEST / RESPONSE TYPES =====

type QuestionInput struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2"`
	CorrectAnswer int      `json:"correct_answer" validate:"min=0"`
	Difficulty    string   `json:"difficulty" validate:"omitempty,difficulty_level"`
}

type CreateAssessmentRequest struct {
	Title        string          `json:"title" validate:"required,max=200"`
	Skill        string          `json:"skill" validate:"required,max=100"`
	Questions    []QuestionInput `json:"questions" validate:"required,min=1,dive"`
	Duration     int             `json:"duration" validate:"required,min=1"`
	PassingScore int             `json:"passing_score" validate:"min=0"`
	SubsetSize   int             `json:"subset_size" validate:"min=0"`
}

// AssessmentSummary is the authoring-facing view of a bank. It never
// carries question content: even the author gets counts, not answers, back
// from the API.
type AssessmentSummary struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Skill          string    `json:"skill"`
	TotalQuestions int       `json:"total_questions"`
	SubsetSize     int       `json:"subset_size"`
	Duration       int       `json:"duration"`
	PassingScore   int       `json:"passing_score"`
	CreatedBy      uint      `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

type AssessmentListResponse struct {
	Assessments []*AssessmentSummary `json:"assessments"`
	Total       int64                `json:"total"`
}

// ===== SERVICE =====

type AssessmentService interface {
	Create(ctx context.Context, req *CreateAssessmentRequest, actor Actor) (*AssessmentSummary, error)
	List(ctx context.Context, filters repositories.AssessmentFilters) (*AssessmentListResponse, error)
	GetSummary(ctx context.Context, id uint) (*AssessmentSummary, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

const (
	catalogCacheKey = "assessments:catalog"
	catalogCacheTTL = 5 * time.Minute
)

type assessmentService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAssessmentService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger, v *validator.Validator) AssessmentService {
	return &assessmentService{
		repo:      repo,
		cache:     cacheService,
		logger:    logger,
		validator: v,
	}
}

// Create validates and stores a new question bank. Validation runs in full
// before the single insert, so a rejected bank leaves no trace.
func (s *assessmentService) Create(ctx context.Context, req *CreateAssessmentRequest, actor Actor) (*AssessmentSummary, error) {
	s.logger.Info("Creating assessment", "creator_id", actor.UserID, "title", req.Title, "skill", req.Skill)

	if actor.Role != models.RoleAdmin && actor.Role != models.RoleCompany {
		return nil, NewPermissionError(actor.UserID, 0, "assessment", "create", "only admins and companies can create assessments")
	}

	if req.SubsetSize == 0 {
		req.SubsetSize = models.DefaultSubsetSize
	}

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	questions := make([]models.Question, len(req.Questions))
	for i, q := range req.Questions {
		questions[i] = models.Question{
			Text:          q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Difficulty:    models.DifficultyLevel(q.Difficulty),
		}
	}

	if errs := s.validator.Bank().ValidateBank(req.Title, req.Skill, questions, req.Duration, req.PassingScore, req.SubsetSize); len(errs) > 0 {
		return nil, errs
	}

	exists, err := s.repo.Assessment().ExistsByTitle(ctx, strings.TrimSpace(req.Title), actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check title uniqueness: %w", err)
	}
	if exists {
		return nil, ErrAssessmentDuplicateTitle
	}

	for i := range questions {
		questions[i].Text = strings.TrimSpace(questions[i].Text)
		for j := range questions[i].Options {
			questions[i].Options[j] = strings.TrimSpace(questions[i].Options[j])
		}
		if questions[i].Difficulty == "" {
			questions[i].Difficulty = models.DifficultyMedium
		}
	}

	assessment := &models.Assessment{
		Title:        strings.TrimSpace(req.Title),
		Skill:        strings.TrimSpace(req.Skill),
		Questions:    questions,
		SubsetSize:   req.SubsetSize,
		Duration:     req.Duration,
		PassingScore: req.PassingScore,
		CreatedBy:    actor.UserID,
	}

	if err := s.repo.Assessment().Create(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate assessment catalog cache", "error", err)
	}

	s.logger.Info("Assessment created successfully", "assessment_id", assessment.ID, "total_questions", assessment.TotalQuestions)

	return buildSummary(assessment), nil
}

// List returns bank summaries. The unfiltered catalog is served from redis
// with a short TTL; filtered queries always hit the store.
func (s *assessmentService) List(ctx context.Context, filters repositories.AssessmentFilters) (*AssessmentListResponse, error) {
	cacheable := filters == repositories.AssessmentFilters{}

	if cacheable {
		var cached AssessmentListResponse
		if err := s.cache.Get(ctx, catalogCacheKey, &cached); err == nil {
			return &cached, nil
		} else if err != cache.ErrCacheMiss {
			s.logger.Warn("Assessment catalog cache read failed", "error", err)
		}
	}

	assessments, total, err := s.repo.Assessment().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	response := &AssessmentListResponse{
		Assessments: make([]*AssessmentSummary, len(assessments)),
		Total:       total,
	}
	for i, assessment := range assessments {
		response.Assessments[i] = buildSummary(assessment)
	}

	if cacheable {
		if err := s.cache.Set(ctx, catalogCacheKey, response, catalogCacheTTL); err != nil {
			s.logger.Warn("Assessment catalog cache write failed", "error", err)
		}
	}

	return response, nil
}

func (s *assessmentService) GetSummary(ctx context.Context, id uint) (*AssessmentSummary, error) {
	assessment, err := s.repo.Assessment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return buildSummary(assessment), nil
}

// Delete soft-deletes a bank. Admins may delete any bank, companies only
// their own.
func (s *assessmentService) Delete(ctx context.Context, id uint, actor Actor) error {
	assessment, err := s.repo.Assessment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAssessmentNotFound
		}
		return fmt.Errorf("failed to get assessment: %w", err)
	}

	if actor.Role != models.RoleAdmin && assessment.CreatedBy != actor.UserID {
		return NewPermissionError(actor.UserID, id, "assessment", "delete", "not owner or insufficient permissions")
	}

	if err := s.repo.Assessment().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAssessmentNotFound
		}
		return fmt.Errorf("failed to delete assessment: %w", err)
	}

	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate assessment catalog cache", "error", err)
	}

	s.logger.Info("Assessment deleted", "assessment_id", id, "deleted_by", actor.UserID)
	return nil
}

func buildSummary(a *models.Assessment) *AssessmentSummary {
	return &AssessmentSummary{
		ID:             a.ID,
		Title:          a.Title,
		Skill:          a.Skill,
		TotalQuestions: a.TotalQuestions,
		SubsetSize:     a.SubsetSize,
		Duration:       a.Duration,
		PassingScore:   a.PassingScore,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
	}
}
